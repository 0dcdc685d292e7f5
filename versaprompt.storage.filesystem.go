package versaprompt

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FilesystemStorage stores one YAML file per prompt version.
//
// Directory structure:
//
//	<root>/
//	  <prompt-name>/
//	    v1.yaml
//	    v2.yaml
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// Filesystem storage error messages
const (
	ErrMsgInvalidStorageRoot    = "invalid storage root path"
	ErrMsgCreateStorageDir      = "failed to create storage directory"
	ErrMsgReadStorageDir        = "failed to read storage directory"
	ErrMsgMarshalPrompt         = "failed to marshal prompt"
	ErrMsgUnmarshalPrompt       = "failed to unmarshal prompt"
	ErrMsgWritePrompt           = "failed to write prompt file"
	ErrMsgReadPrompt            = "failed to read prompt file"
	ErrMsgDeletePrompt          = "failed to delete prompt"
	ErrMsgPathTraversalDetected = "path traversal detected in prompt name"
)

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, StorageDriverFunc(func(root string) (PromptStorage, error) {
		return NewFilesystemStorage(root)
	}))
}

// NewFilesystemStorage creates a filesystem storage rooted at root, creating
// the directory if needed.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{Message: ErrMsgCreateStorageDir, Name: root, Cause: err}
	}
	return &FilesystemStorage{root: root}, nil
}

// Get retrieves the latest version of a prompt by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredPrompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validatePromptNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, err := s.listVersionsInternal(name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, NewPromptNotFoundError(name)
	}
	return s.loadPrompt(name, versions[0])
}

// GetByID scans all stored versions for id.
func (s *FilesystemStorage) GetByID(ctx context.Context, id PromptID) (*StoredPrompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	all, err := s.loadAll(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, NewPromptNotFoundError(string(id))
}

// GetVersion retrieves a specific version of a prompt.
func (s *FilesystemStorage) GetVersion(ctx context.Context, name string, version int) (*StoredPrompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validatePromptNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	return s.loadPrompt(name, version)
}

// Save writes a new version file for p.
func (s *FilesystemStorage) Save(ctx context.Context, p *StoredPrompt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateStoredPrompt(p); err != nil {
		return err
	}
	if err := validatePromptNameForFilesystem(p.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	promptDir := filepath.Join(s.root, p.Name)
	if err := os.MkdirAll(promptDir, FilesystemDirPermissions); err != nil {
		return &StorageError{Message: ErrMsgCreateStorageDir, Name: promptDir, Cause: err}
	}

	versions, err := s.listVersionsInternal(p.Name)
	if err != nil {
		return err
	}
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0] + 1
	}

	now := time.Now()
	stored := copyStoredPrompt(p)
	stored.ID = generatePromptID()
	stored.Version = nextVersion
	stored.CreatedAt = now
	stored.UpdatedAt = now

	data, err := yaml.Marshal(stored)
	if err != nil {
		return &StorageError{Message: ErrMsgMarshalPrompt, Name: p.Name, Cause: err}
	}

	filename := s.versionPath(p.Name, nextVersion)
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgWritePrompt, Name: filename, Cause: err}
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Message: ErrMsgWritePrompt, Name: filename, Cause: err}
	}

	p.ID = stored.ID
	p.Version = stored.Version
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes the prompt directory with all versions.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validatePromptNameForFilesystem(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	promptDir := filepath.Join(s.root, name)
	if _, err := os.Stat(promptDir); os.IsNotExist(err) {
		return NewPromptNotFoundError(name)
	}
	if err := os.RemoveAll(promptDir); err != nil {
		return &StorageError{Message: ErrMsgDeletePrompt, Name: name, Cause: err}
	}
	return nil
}

// List returns prompts matching the query.
func (s *FilesystemStorage) List(ctx context.Context, query *PromptQuery) ([]*StoredPrompt, error) {
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

	all, err := s.loadAll(ctx, query.IncludeAllVersions)
	if err != nil {
		return nil, err
	}

	var results []*StoredPrompt
	for _, p := range all {
		if matchesPromptQuery(p, query) {
			results = append(results, p)
		}
	}
	return paginate(results, query), nil
}

// Exists checks if a prompt with the given name has at least one version.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validatePromptNameForFilesystem(name); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	versions, err := s.listVersionsInternal(name)
	if err != nil {
		return false, err
	}
	return len(versions) > 0, nil
}

// ListVersions returns all version numbers for a prompt, newest first.
func (s *FilesystemStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validatePromptNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	return s.listVersionsInternal(name)
}

// Close marks the storage as closed. Files stay on disk.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FilesystemStorage) versionPath(name string, version int) string {
	return filepath.Join(s.root, name, FilesystemVersionPrefix+strconv.Itoa(version)+FilesystemVersionSuffix)
}

// listVersionsInternal returns version numbers sorted descending. Caller
// must hold the lock.
func (s *FilesystemStorage) listVersionsInternal(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: name, Cause: err}
	}

	versions := []int{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filename := entry.Name()
		if !strings.HasPrefix(filename, FilesystemVersionPrefix) || !strings.HasSuffix(filename, FilesystemVersionSuffix) {
			continue
		}
		versionStr := filename[len(FilesystemVersionPrefix) : len(filename)-len(FilesystemVersionSuffix)]
		if version, err := strconv.Atoi(versionStr); err == nil && version > 0 {
			versions = append(versions, version)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

func (s *FilesystemStorage) loadPrompt(name string, version int) (*StoredPrompt, error) {
	filename := s.versionPath(name, version)
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageVersionNotFoundError(name, version)
		}
		return nil, &StorageError{Message: ErrMsgReadPrompt, Name: filename, Cause: err}
	}

	var p StoredPrompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &StorageError{Message: ErrMsgUnmarshalPrompt, Name: filename, Cause: err}
	}
	return &p, nil
}

// loadAll reads every prompt directory, returning either every version or
// only the latest one per name. Unreadable entries are skipped.
func (s *FilesystemStorage) loadAll(ctx context.Context, allVersions bool) ([]*StoredPrompt, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: s.root, Cause: err}
	}

	var out []*StoredPrompt
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		versions, err := s.listVersionsInternal(entry.Name())
		if err != nil || len(versions) == 0 {
			continue
		}
		if !allVersions {
			versions = versions[:1]
		}
		for _, v := range versions {
			p, err := s.loadPrompt(entry.Name(), v)
			if err != nil {
				continue
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// validatePromptNameForFilesystem rejects names that could escape the root.
func validatePromptNameForFilesystem(name string) error {
	if strings.TrimSpace(name) == "" {
		return &StorageError{Message: ErrMsgInvalidPromptName}
	}
	if strings.Contains(name, "..") {
		return &StorageError{Message: ErrMsgPathTraversalDetected, Name: name}
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return &StorageError{Message: ErrMsgInvalidPromptName, Name: name}
	}
	return nil
}
