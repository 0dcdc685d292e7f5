package versaprompt

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// CacheConfig configures CachedStorage.
type CacheConfig struct {
	// TTL is how long a fetched prompt is served from memory.
	TTL time.Duration

	// MaxEntries bounds the number of cached names. The least recently
	// read name is dropped first.
	MaxEntries int

	// NegativeCacheTTL is how long a "not found" answer is remembered.
	// Zero disables negative caching.
	NegativeCacheTTL time.Duration
}

// DefaultCacheConfig returns the default caching configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:              DefaultCacheTTL,
		MaxEntries:       DefaultCacheMaxEntries,
		NegativeCacheTTL: DefaultNegativeCacheTTL,
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
}

// CachedStorage serves the latest version of each prompt from memory and
// forwards everything else to the wrapped PromptStorage. Writes through the
// wrapper drop the affected name.
type CachedStorage struct {
	inner   PromptStorage
	config  CacheConfig
	entries *promptLRU
	closed  atomic.Bool
}

// NewCachedStorage wraps storage with caching. Zero TTL or MaxEntries fall
// back to the defaults.
func NewCachedStorage(storage PromptStorage, config CacheConfig) *CachedStorage {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	return &CachedStorage{
		inner:   storage,
		config:  config,
		entries: newPromptLRU(config.MaxEntries),
	}
}

// Get returns the latest version of name.
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredPrompt, error) {
	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	if p, hit := s.entries.get(name, time.Now()); hit {
		if p == nil {
			return nil, NewPromptNotFoundError(name)
		}
		return p, nil
	}

	p, err := s.inner.Get(ctx, name)
	if s.closed.Load() {
		return nil, NewStorageClosedError()
	}
	switch {
	case err == nil:
		s.entries.put(name, p, s.config.TTL)
		return copyStoredPrompt(p), nil
	case s.config.NegativeCacheTTL > 0 && IsNotFoundError(err):
		s.entries.put(name, nil, s.config.NegativeCacheTTL)
	}
	return nil, err
}

// GetByID serves a cached latest version when its ID matches, otherwise
// reads through.
func (s *CachedStorage) GetByID(ctx context.Context, id PromptID) (*StoredPrompt, error) {
	if err := s.usable(ctx); err != nil {
		return nil, err
	}
	if p, hit := s.entries.getByID(id, time.Now()); hit {
		return p, nil
	}
	return s.inner.GetByID(ctx, id)
}

// GetVersion reads through.
func (s *CachedStorage) GetVersion(ctx context.Context, name string, version int) (*StoredPrompt, error) {
	return s.inner.GetVersion(ctx, name, version)
}

// Save writes through and drops the cached name.
func (s *CachedStorage) Save(ctx context.Context, p *StoredPrompt) error {
	if err := s.inner.Save(ctx, p); err != nil {
		return err
	}
	s.entries.remove(p.Name)
	return nil
}

// Delete writes through and drops the cached name.
func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	if err := s.inner.Delete(ctx, name); err != nil {
		return err
	}
	s.entries.remove(name)
	return nil
}

// List reads through.
func (s *CachedStorage) List(ctx context.Context, query *PromptQuery) ([]*StoredPrompt, error) {
	return s.inner.List(ctx, query)
}

// Exists answers from a live entry, positive or negative, when there is one.
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := s.usable(ctx); err != nil {
		return false, err
	}
	if p, hit := s.entries.get(name, time.Now()); hit {
		return p != nil, nil
	}
	return s.inner.Exists(ctx, name)
}

// ListVersions reads through.
func (s *CachedStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	return s.inner.ListVersions(ctx, name)
}

// Close empties the cache and closes the wrapped storage.
func (s *CachedStorage) Close() error {
	s.closed.Store(true)
	s.entries.clear()
	return s.inner.Close()
}

// Invalidate drops name from the cache.
func (s *CachedStorage) Invalidate(name string) {
	s.entries.remove(name)
}

// InvalidateAll empties the cache.
func (s *CachedStorage) InvalidateAll() {
	s.entries.clear()
}

// Stats returns cache statistics.
func (s *CachedStorage) Stats() CacheStats {
	return s.entries.stats(time.Now())
}

func (s *CachedStorage) usable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return NewStorageClosedError()
	}
	return nil
}

// lruItem is one cached name. A nil prompt records a "not found" answer.
type lruItem struct {
	name      string
	prompt    *StoredPrompt
	expiresAt time.Time
}

// promptLRU indexes cached prompts by name and by ID, most recently read
// first.
type promptLRU struct {
	mu    sync.Mutex
	limit int
	order *list.List
	names map[string]*list.Element
	ids   map[PromptID]*list.Element
}

func newPromptLRU(limit int) *promptLRU {
	return &promptLRU{
		limit: limit,
		order: list.New(),
		names: make(map[string]*list.Element),
		ids:   make(map[PromptID]*list.Element),
	}
}

// get returns a copy of the live entry for name. hit is false when the name
// is absent or expired; an expired entry is dropped.
func (c *promptLRU) get(name string, now time.Time) (p *StoredPrompt, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hit(c.names[name], now)
}

func (c *promptLRU) getByID(id PromptID, now time.Time) (*StoredPrompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hit(c.ids[id], now)
}

func (c *promptLRU) hit(elem *list.Element, now time.Time) (*StoredPrompt, bool) {
	if elem == nil {
		return nil, false
	}
	item := elem.Value.(*lruItem)
	if !now.Before(item.expiresAt) {
		c.unlink(elem)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return copyStoredPrompt(item.prompt), true
}

// put stores a copy of p under name for ttl, replacing any previous entry.
func (c *promptLRU) put(name string, p *StoredPrompt, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.names[name]; ok {
		c.unlink(elem)
	}

	elem := c.order.PushFront(&lruItem{
		name:      name,
		prompt:    copyStoredPrompt(p),
		expiresAt: time.Now().Add(ttl),
	})
	c.names[name] = elem
	if p != nil {
		c.ids[p.ID] = elem
	}

	for c.order.Len() > c.limit {
		c.unlink(c.order.Back())
	}
}

func (c *promptLRU) remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.names[name]; ok {
		c.unlink(elem)
	}
}

func (c *promptLRU) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.names = make(map[string]*list.Element)
	c.ids = make(map[PromptID]*list.Element)
}

func (c *promptLRU) stats(now time.Time) CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{Entries: c.order.Len()}
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		item := elem.Value.(*lruItem)
		switch {
		case !now.Before(item.expiresAt):
		case item.prompt == nil:
			stats.NegativeEntries++
		default:
			stats.ValidEntries++
		}
	}
	return stats
}

// unlink removes elem from every index. Caller holds mu.
func (c *promptLRU) unlink(elem *list.Element) {
	item := c.order.Remove(elem).(*lruItem)
	delete(c.names, item.name)
	if item.prompt != nil {
		delete(c.ids, item.prompt.ID)
	}
}
