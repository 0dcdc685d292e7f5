package versaprompt

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PromptID is the unique identifier of one stored prompt version,
// e.g. "prm_3f1c9a9e-...".
type PromptID string

// StoredPrompt is a versioned prompt document held by a storage backend.
type StoredPrompt struct {
	// ID identifies this version.
	ID PromptID `json:"id" yaml:"id"`

	// Name is the lookup key shared by all versions.
	Name string `json:"name" yaml:"name"`

	// Version starts at 1 and increases with every Save.
	Version int `json:"version" yaml:"version"`

	// Document is the prompt content.
	Document *Document `json:"document" yaml:"document"`

	// Metadata holds arbitrary user data.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Tags are free-form labels used by List queries.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	CreatedBy string    `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// PromptQuery filters List results. Zero values match everything.
type PromptQuery struct {
	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// NameContains filters to names containing this substring.
	NameContains string

	// Tags filters to prompts having ALL specified tags.
	Tags []string

	// CreatedBy filters by creator.
	CreatedBy string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// IncludeAllVersions includes all versions, not just the latest.
	IncludeAllVersions bool
}

// PromptStorage is the interface for pluggable storage backends.
// Implementations must be safe for concurrent use.
type PromptStorage interface {
	// Get retrieves the latest version of a prompt by name.
	Get(ctx context.Context, name string) (*StoredPrompt, error)

	// GetByID retrieves a specific prompt version by ID.
	GetByID(ctx context.Context, id PromptID) (*StoredPrompt, error)

	// GetVersion retrieves a specific version of a prompt.
	GetVersion(ctx context.Context, name string, version int) (*StoredPrompt, error)

	// Save stores a new version. ID, Version, CreatedAt and UpdatedAt are
	// assigned by the storage and written back to p.
	Save(ctx context.Context, p *StoredPrompt) error

	// Delete removes all versions of a prompt.
	Delete(ctx context.Context, name string) error

	// List returns prompts matching the query, ordered by name and then by
	// version descending.
	List(ctx context.Context, query *PromptQuery) ([]*StoredPrompt, error)

	// Exists checks if a prompt with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// ListVersions returns all version numbers, newest first.
	ListVersions(ctx context.Context, name string) ([]int, error)

	// Close releases resources. The storage must not be used afterwards.
	Close() error
}

// StorageDriver creates storage instances from a driver-specific
// connection string.
type StorageDriver interface {
	Open(connectionString string) (PromptStorage, error)
}

// StorageDriverFunc adapts a function to StorageDriver.
type StorageDriverFunc func(connectionString string) (PromptStorage, error)

// Open implements StorageDriver.
func (f StorageDriverFunc) Open(connectionString string) (PromptStorage, error) {
	return f(connectionString)
}

var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name. It panics on a
// nil driver or a duplicate name.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage using the named driver.
//
//	storage, err := versaprompt.OpenStorage("memory", "")
//	storage, err := versaprompt.OpenStorage("filesystem", "/var/lib/prompts")
//	storage, err := versaprompt.OpenStorage("postgres", "postgres://...")
func OpenStorage(driverName, connectionString string) (PromptStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}
	return driver.Open(connectionString)
}

// ListStorageDrivers returns the sorted names of all registered drivers.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgVersionNotFound         = "prompt version not found"
	ErrMsgInvalidPromptName       = "invalid prompt name"
	ErrMsgNilDocument             = "stored prompt has no document"
)

// NewStorageDriverNotFoundError creates an error for a missing driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgStorageDriverNotFound, Name: name}
}

// NewStorageVersionNotFoundError creates an error for a missing version.
func NewStorageVersionNotFoundError(name string, version int) error {
	return &StorageError{Message: ErrMsgVersionNotFound, Name: name, Version: version}
}

// NewStorageClosedError creates an error for use of a closed storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Version int
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	switch {
	case e.Name != "" && e.Version > 0:
		msg += ": " + e.Name + " v" + strconv.Itoa(e.Version)
	case e.Name != "":
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// validateStoredPrompt checks the fields every backend requires.
func validateStoredPrompt(p *StoredPrompt) error {
	if p == nil || p.Document == nil {
		return &StorageError{Message: ErrMsgNilDocument}
	}
	if strings.TrimSpace(p.Name) == "" {
		return &StorageError{Message: ErrMsgInvalidPromptName}
	}
	return nil
}

// matchesPromptQuery applies the per-version filters of query.
func matchesPromptQuery(p *StoredPrompt, query *PromptQuery) bool {
	if query.NamePrefix != "" && !strings.HasPrefix(p.Name, query.NamePrefix) {
		return false
	}
	if query.NameContains != "" && !strings.Contains(p.Name, query.NameContains) {
		return false
	}
	if query.CreatedBy != "" && p.CreatedBy != query.CreatedBy {
		return false
	}
	for _, tag := range query.Tags {
		if !containsString(p.Tags, tag) {
			return false
		}
	}
	return true
}

// paginate sorts results by name then version descending and applies the
// query offset and limit.
func paginate(results []*StoredPrompt, query *PromptQuery) []*StoredPrompt {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].Version > results[j].Version
	})

	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*StoredPrompt{}
		}
		results = results[query.Offset:]
	}
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results
}

func containsString(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// generatePromptID returns a new "prm_" prefixed UUID.
func generatePromptID() PromptID {
	return PromptID(PromptIDPrefix + uuid.NewString())
}

// copyStoredPrompt creates a deep copy of a StoredPrompt.
func copyStoredPrompt(p *StoredPrompt) *StoredPrompt {
	if p == nil {
		return nil
	}
	out := *p
	if p.Document != nil {
		out.Document = p.Document.Clone()
	}
	out.Metadata = copyStringMap(p.Metadata)
	out.Tags = copyStringSlice(p.Tags)
	return &out
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	result := make([]string, len(s))
	copy(result, s)
	return result
}
