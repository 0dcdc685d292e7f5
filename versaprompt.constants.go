package versaprompt

import (
	"time"

	"github.com/itsatony/go-versaprompt/internal"
)

// Placeholder syntax
const (
	PlaceholderOpen  = internal.PlaceholderOpen
	PlaceholderClose = internal.PlaceholderClose
)

// Role serialization names
const (
	RoleNameSystem    = "system"
	RoleNameUser      = "user"
	RoleNameAssistant = "assistant"
)

// Tag kind names
const (
	TagKindNameRole    = "role"
	TagKindNamePattern = "pattern"
)

// Pattern syntax
const (
	PatternSeparator = "/"
)

// Flattening defaults
const (
	DefaultRolePrefixFormat = "%s: %s\n"
	DefaultJoinSeparator    = "\n"
)

// Document constants
const (
	YAMLFrontmatterDelimiter  = internal.FrontmatterDelimiter
	DefaultMaxFrontmatterSize = internal.DefaultMaxFrontmatterSize
	FileExtensionYAML         = ".yaml"
	FileExtensionYML          = ".yml"
	DocumentKeyMessages       = "messages"
	byteOrderMark             = "\ufeff"
)

// Storage ID prefixes
const (
	PromptIDPrefix = "prm_"
)

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0755
	FilesystemFilePermissions = 0644
	FilesystemVersionPrefix   = "v"
	FilesystemVersionSuffix   = FileExtensionYAML
)

// Cache configuration defaults
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultCacheMaxEntries  = 1000
	DefaultNegativeCacheTTL = 30 * time.Second
)

// PostgreSQL storage driver configuration defaults
const (
	PostgresTablePrefix            = "versaprompt_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyVariable    = "variable"
	MetaKeyVariables   = "variables"
	MetaKeySuggestions = "suggestions"
	MetaKeyValue       = "value"
	MetaKeyReason      = "reason"
	MetaKeyPattern     = "pattern"
	MetaKeyRole        = "role"
	MetaKeyPromptName  = "prompt_name"
	MetaKeyVersion     = "version"
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeyIndex       = "index"
	MetaKeyDriverName  = "driver"
)

// Log messages
const (
	LogMsgEngineCreated      = "versaprompt engine created"
	LogMsgDocumentRegistered = "prompt document registered"
	LogMsgDocumentSaved      = "prompt document saved"
	LogMsgPromptLoaded       = "prompt loaded"
	LogMsgPromptRendered     = "prompt rendered"
	LogMsgRenderFailed       = "prompt render failed"
	LogMsgPatternFallback    = "no message matched pattern, returning all messages"
	LogMsgStorageMiss        = "prompt not found in storage"
)

// Log field names
const (
	LogFieldPromptName = "prompt_name"
	LogFieldVersion    = "version"
	LogFieldMessages   = "messages"
	LogFieldBindings   = "bindings"
	LogFieldPattern    = "pattern"
	LogFieldSource     = "source"
	LogFieldUnresolved = "unresolved"
)

// Prompt sources reported in logs
const (
	SourceRegistry = "registry"
	SourceStorage  = "storage"
)
