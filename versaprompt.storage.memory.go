package versaprompt

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps prompts in process memory. Intended for tests and
// development; everything is lost on exit.
type MemoryStorage struct {
	mu      sync.RWMutex
	prompts map[string][]*StoredPrompt // name -> versions, newest first
	byID    map[PromptID]*StoredPrompt
	closed  bool
}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, StorageDriverFunc(func(string) (PromptStorage, error) {
		return NewMemoryStorage(), nil
	}))
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		prompts: make(map[string][]*StoredPrompt),
		byID:    make(map[PromptID]*StoredPrompt),
	}
}

// Get retrieves the latest version of a prompt by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredPrompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions := s.prompts[name]
	if len(versions) == 0 {
		return nil, NewPromptNotFoundError(name)
	}
	return copyStoredPrompt(versions[0]), nil
}

// GetByID retrieves a specific prompt version by ID.
func (s *MemoryStorage) GetByID(ctx context.Context, id PromptID) (*StoredPrompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	p, ok := s.byID[id]
	if !ok {
		return nil, NewPromptNotFoundError(string(id))
	}
	return copyStoredPrompt(p), nil
}

// GetVersion retrieves a specific version of a prompt.
func (s *MemoryStorage) GetVersion(ctx context.Context, name string, version int) (*StoredPrompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	for _, p := range s.prompts[name] {
		if p.Version == version {
			return copyStoredPrompt(p), nil
		}
	}
	return nil, NewStorageVersionNotFoundError(name, version)
}

// Save stores a new version of p.
func (s *MemoryStorage) Save(ctx context.Context, p *StoredPrompt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateStoredPrompt(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	versions := s.prompts[p.Name]
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0].Version + 1
	}

	now := time.Now()
	p.ID = generatePromptID()
	p.Version = nextVersion
	p.CreatedAt = now
	p.UpdatedAt = now

	stored := copyStoredPrompt(p)
	s.prompts[p.Name] = append([]*StoredPrompt{stored}, versions...)
	s.byID[stored.ID] = stored
	return nil
}

// Delete removes all versions of a prompt.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	versions, ok := s.prompts[name]
	if !ok {
		return NewPromptNotFoundError(name)
	}
	for _, p := range versions {
		delete(s.byID, p.ID)
	}
	delete(s.prompts, name)
	return nil
}

// List returns prompts matching the query.
func (s *MemoryStorage) List(ctx context.Context, query *PromptQuery) ([]*StoredPrompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	if query == nil {
		query = &PromptQuery{}
	}

	var results []*StoredPrompt
	for _, versions := range s.prompts {
		if !query.IncludeAllVersions && len(versions) > 0 {
			versions = versions[:1]
		}
		for _, p := range versions {
			if matchesPromptQuery(p, query) {
				results = append(results, copyStoredPrompt(p))
			}
		}
	}
	return paginate(results, query), nil
}

// Exists checks if a prompt with the given name exists.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}
	return len(s.prompts[name]) > 0, nil
}

// ListVersions returns all version numbers for a prompt, newest first.
func (s *MemoryStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions := s.prompts[name]
	result := make([]int, len(versions))
	for i, p := range versions {
		result[i] = p.Version
	}
	return result, nil
}

// Close marks the storage as closed and drops its contents.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.prompts = nil
	s.byID = nil
	return nil
}
