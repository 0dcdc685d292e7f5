package versaprompt

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStorage counts Get calls reaching the wrapped storage.
type countingStorage struct {
	PromptStorage
	gets atomic.Int32
}

func (c *countingStorage) Get(ctx context.Context, name string) (*StoredPrompt, error) {
	c.gets.Add(1)
	return c.PromptStorage.Get(ctx, name)
}

func TestCachedStorage(t *testing.T) {
	runStorageConformance(t, func(t *testing.T) PromptStorage {
		return NewCachedStorage(NewMemoryStorage(), DefaultCacheConfig())
	})
}

func TestCachedStorage_Hits(t *testing.T) {
	ctx := context.Background()
	inner := &countingStorage{PromptStorage: NewMemoryStorage()}
	cache := NewCachedStorage(inner, DefaultCacheConfig())

	p := &StoredPrompt{Name: "greeting", Document: testDocument("greeting", "v1")}
	require.NoError(t, cache.Save(ctx, p))

	for i := 0; i < 3; i++ {
		got, err := cache.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, "v1", got.Document.Messages[0].Text)
	}
	assert.Equal(t, int32(1), inner.gets.Load())

	byID, err := cache.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, byID.Version)

	// save invalidates
	require.NoError(t, cache.Save(ctx, &StoredPrompt{Name: "greeting", Document: testDocument("greeting", "v2")}))
	got, err := cache.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Document.Messages[0].Text)
	assert.Equal(t, int32(2), inner.gets.Load())

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.ValidEntries)
}

func TestCachedStorage_NegativeCaching(t *testing.T) {
	ctx := context.Background()
	inner := &countingStorage{PromptStorage: NewMemoryStorage()}
	cache := NewCachedStorage(inner, CacheConfig{TTL: time.Minute, MaxEntries: 10, NegativeCacheTTL: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := cache.Get(ctx, "missing")
		assert.True(t, IsNotFoundError(err))
	}
	assert.Equal(t, int32(1), inner.gets.Load())
	assert.Equal(t, 1, cache.Stats().NegativeEntries)

	exists, err := cache.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	// a save clears the negative entry
	require.NoError(t, cache.Save(ctx, &StoredPrompt{Name: "missing", Document: testDocument("missing", "x")}))
	_, err = cache.Get(ctx, "missing")
	require.NoError(t, err)
}

func TestCachedStorage_Expiry(t *testing.T) {
	ctx := context.Background()
	inner := &countingStorage{PromptStorage: NewMemoryStorage()}
	cache := NewCachedStorage(inner, CacheConfig{TTL: 10 * time.Millisecond, MaxEntries: 10})

	require.NoError(t, inner.Save(ctx, &StoredPrompt{Name: "x", Document: testDocument("x", "y")}))
	_, err := cache.Get(ctx, "x")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = cache.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.gets.Load())
}

func TestCachedStorage_Eviction(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStorage()
	cache := NewCachedStorage(inner, CacheConfig{TTL: time.Minute, MaxEntries: 2})

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, inner.Save(ctx, &StoredPrompt{Name: name, Document: testDocument(name, name)}))
	}
	get := func(name string) {
		_, err := cache.Get(ctx, name)
		require.NoError(t, err)
	}

	get("a")
	get("b")
	get("a") // a is now the most recently read
	get("c")

	assert.Equal(t, 2, cache.Stats().Entries)
	_, hit := cache.entries.get("b", time.Now())
	assert.False(t, hit)
	_, hit = cache.entries.get("a", time.Now())
	assert.True(t, hit)

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Stats().Entries)
}

func TestCachedStorage_GetByIDAfterEviction(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStorage()
	cache := NewCachedStorage(inner, CacheConfig{TTL: time.Minute, MaxEntries: 1})

	first := &StoredPrompt{Name: "a", Document: testDocument("a", "a")}
	require.NoError(t, inner.Save(ctx, first))
	require.NoError(t, inner.Save(ctx, &StoredPrompt{Name: "b", Document: testDocument("b", "b")}))

	_, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	_, err = cache.Get(ctx, "b")
	require.NoError(t, err)

	_, hit := cache.entries.getByID(first.ID, time.Now())
	assert.False(t, hit)

	got, err := cache.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
}

func TestCachedStorage_Closed(t *testing.T) {
	ctx := context.Background()
	cache := NewCachedStorage(NewMemoryStorage(), DefaultCacheConfig())
	require.NoError(t, cache.Close())

	_, err := cache.Get(ctx, "x")
	assert.Error(t, err)
	_, err = cache.Exists(ctx, "x")
	assert.Error(t, err)
}
