package versaprompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	runStorageConformance(t, func(t *testing.T) PromptStorage {
		return NewMemoryStorage()
	})
}

func TestMemoryStorage_NewMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()
	require.NotNil(t, storage)
	assert.NotNil(t, storage.prompts)
	assert.NotNil(t, storage.byID)
	assert.False(t, storage.closed)
}

func TestMemoryStorage_DeleteDropsIDs(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	p := &StoredPrompt{Name: "x", Document: testDocument("x", "y")}
	require.NoError(t, storage.Save(ctx, p))
	require.NoError(t, storage.Delete(ctx, "x"))

	_, err := storage.GetByID(ctx, p.ID)
	assert.True(t, IsNotFoundError(err))
	assert.Empty(t, storage.byID)
}
