package versaprompt

import (
	"errors"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-versaprompt/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Resolution errors
	ErrMsgUnresolvedVars      = "prompt contains unresolved variables"
	ErrMsgPromptConsumed      = "prompt has already been resolved"
	ErrMsgPatternCompile      = "placeholder pattern failed to compile"
	ErrMsgInvalidVariableName = "invalid variable name"
	ErrMsgUnknownBinding      = "binding does not match any placeholder"

	// Model errors
	ErrMsgInvalidRole    = "invalid role"
	ErrMsgInvalidTagKind = "invalid tag kind"
	ErrMsgEmptyPattern   = "pattern cannot be empty"

	// Selector errors
	ErrMsgNoMatchingPrompt = "no prompt matches pattern"
	ErrMsgNilPrompt        = "prompt cannot be nil"

	// Document errors
	ErrMsgDocumentInvalid     = "invalid prompt document"
	ErrMsgDocumentParse       = "prompt document parsing failed"
	ErrMsgDocumentRead        = "failed to read prompt document"
	ErrMsgDocumentEmpty       = "prompt document is empty"
	ErrMsgDocumentNoMessages  = "prompt document has no messages"
	ErrMsgDocumentMissingName = "prompt document name is required"
	ErrMsgDocumentSerialize   = "prompt document serialization failed"
	ErrMsgFrontmatter         = "invalid document frontmatter"

	// Engine errors
	ErrMsgPromptNotFound = "prompt not found"
	ErrMsgPromptExists   = "prompt already registered"
	ErrMsgNoStorage      = "no storage configured"
)

// Error code constants for categorization
const (
	ErrCodeUnresolved = "VERSAPROMPT_UNRESOLVED"
	ErrCodePattern    = "VERSAPROMPT_PATTERN"
	ErrCodeValidation = "VERSAPROMPT_VALIDATION"
	ErrCodeState      = "VERSAPROMPT_STATE"
	ErrCodeDocument   = "VERSAPROMPT_DOCUMENT"
	ErrCodeEngine     = "VERSAPROMPT_ENGINE"
)

// Sentinel errors usable with errors.Is.
var (
	ErrUnresolvedVars      = errors.New(ErrMsgUnresolvedVars)
	ErrPromptConsumed      = errors.New(ErrMsgPromptConsumed)
	ErrPatternCompile      = errors.New(ErrMsgPatternCompile)
	ErrInvalidVariableName = errors.New(ErrMsgInvalidVariableName)
	ErrNoMatchingPrompt    = errors.New(ErrMsgNoMatchingPrompt)
	ErrPromptNotFound      = errors.New(ErrMsgPromptNotFound)
)

// newSentinelError builds an error that matches sentinel with errors.Is.
func newSentinelError(sentinel error, code string) *cuserr.CustomError {
	return cuserr.NewCustomError(sentinel, nil, code+": "+sentinel.Error())
}

// NewUnresolvedVarsError creates the error returned by Resolve while
// placeholders remain. bound lists the names the caller did supply and is
// only used to suggest likely typos.
func NewUnresolvedVarsError(names []string, bound []string) error {
	err := newSentinelError(ErrUnresolvedVars, ErrCodeUnresolved).
		WithMetadata(MetaKeyVariables, strings.Join(names, ","))

	var hints []string
	for _, name := range names {
		similar := internal.FindSimilarStrings(name, bound, internal.DefaultMaxSuggestions)
		if len(similar) > 0 {
			hints = append(hints, name+": "+internal.FormatSuggestions(similar))
		}
	}
	if len(hints) > 0 {
		err = err.WithMetadata(MetaKeySuggestions, strings.Join(hints, "; "))
	}
	return err
}

// NewPromptConsumedError creates an error for use of a prompt after Resolve.
func NewPromptConsumedError() error {
	return newSentinelError(ErrPromptConsumed, ErrCodeState)
}

// NewPatternCompileError creates an error for a placeholder pattern that
// failed to compile. variable is empty for the shared detection grammar.
func NewPatternCompileError(variable string, cause error) error {
	err := cuserr.WrapStdError(errors.Join(ErrPatternCompile, cause), ErrCodePattern, ErrMsgPatternCompile)
	if variable != "" {
		err = err.WithMetadata(MetaKeyVariable, variable)
	}
	return err
}

// NewInvalidVariableNameError creates a validation error for a variable name
// outside the placeholder identifier grammar.
func NewInvalidVariableNameError(name string) error {
	return newSentinelError(ErrInvalidVariableName, ErrCodeValidation).
		WithMetadata(MetaKeyVariable, name)
}

// NewUnknownBindingError creates an error for a binding that targets a
// placeholder the prompt does not contain (strict binding mode).
func NewUnknownBindingError(name string, available []string) error {
	err := cuserr.NewValidationError(ErrCodeValidation, ErrMsgUnknownBinding).
		WithMetadata(MetaKeyVariable, name)
	if similar := internal.FindSimilarStrings(name, available, internal.DefaultMaxSuggestions); len(similar) > 0 {
		err = err.WithMetadata(MetaKeySuggestions, internal.FormatSuggestions(similar))
	}
	return err
}

// NewInvalidRoleError creates an error for an unknown role name.
func NewInvalidRoleError(role string) error {
	return cuserr.NewValidationError(ErrCodeValidation, ErrMsgInvalidRole).
		WithMetadata(MetaKeyRole, role)
}

// NewInvalidTagKindError creates an error for an unknown tag kind.
func NewInvalidTagKindError(kind string) error {
	return cuserr.NewValidationError(ErrCodeValidation, ErrMsgInvalidTagKind).
		WithMetadata(MetaKeyValue, kind)
}

// NewNoMatchingPromptError creates an error for a selector without a match
// and without a default.
func NewNoMatchingPromptError(pattern Pattern) error {
	return newSentinelError(ErrNoMatchingPrompt, ErrCodeValidation).
		WithMetadata(MetaKeyPattern, string(pattern))
}

// NewEmptyPatternError creates an error for an empty selector pattern.
func NewEmptyPatternError() error {
	return cuserr.NewValidationError(ErrCodeValidation, ErrMsgEmptyPattern)
}

// NewNilPromptError creates an error for a nil prompt argument.
func NewNilPromptError() error {
	return cuserr.NewValidationError(ErrCodeValidation, ErrMsgNilPrompt)
}

// NewDocumentError creates a document validation error with a reason.
func NewDocumentError(msg, reason string) error {
	err := cuserr.NewValidationError(ErrCodeDocument, msg)
	if reason != "" {
		err = err.WithMetadata(MetaKeyReason, reason)
	}
	return err
}

// NewDocumentMessageError creates an error for an invalid message at index.
func NewDocumentMessageError(index int, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeDocument, ErrMsgDocumentInvalid).
		WithMetadata(MetaKeyIndex, strconv.Itoa(index))
}

// NewDocumentParseError wraps a YAML or frontmatter failure.
func NewDocumentParseError(cause error) error {
	err := cuserr.WrapStdError(cause, ErrCodeDocument, ErrMsgDocumentParse)

	var fmErr *internal.FrontmatterError
	if errors.As(cause, &fmErr) {
		err = err.
			WithMetadata(MetaKeyReason, fmErr.Message).
			WithMetadata(MetaKeyLine, strconv.Itoa(fmErr.Position.Line)).
			WithMetadata(MetaKeyColumn, strconv.Itoa(fmErr.Position.Column))
	}
	return err
}

// NewDocumentReadError wraps a failure reading a document file.
func NewDocumentReadError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeDocument, ErrMsgDocumentRead).
		WithMetadata(MetaKeyValue, path)
}

// NewPromptNotFoundError creates an error for an unknown prompt name.
func NewPromptNotFoundError(name string) error {
	return newSentinelError(ErrPromptNotFound, ErrCodeEngine).
		WithMetadata(MetaKeyPromptName, name)
}

// NewPromptExistsError creates an error for a duplicate registration.
func NewPromptExistsError(name string) error {
	return cuserr.NewValidationError(ErrCodeEngine, ErrMsgPromptExists).
		WithMetadata(MetaKeyPromptName, name)
}

// NewNoStorageError creates an error for storage operations on an engine
// configured without storage.
func NewNoStorageError() error {
	return cuserr.NewValidationError(ErrCodeEngine, ErrMsgNoStorage)
}

// IsUnresolvedVarsError reports whether err signals remaining placeholders.
func IsUnresolvedVarsError(err error) bool {
	return errors.Is(err, ErrUnresolvedVars)
}

// IsNotFoundError reports whether err signals a missing prompt or version.
func IsNotFoundError(err error) bool {
	if errors.Is(err, ErrPromptNotFound) {
		return true
	}
	var sErr *StorageError
	return errors.As(err, &sErr) && sErr.Message == ErrMsgVersionNotFound
}

// fromPlaceholderError translates resolver failures into package errors.
func fromPlaceholderError(err error) error {
	var pErr *internal.PlaceholderError
	if !errors.As(err, &pErr) {
		return err
	}
	switch pErr.Kind {
	case internal.ErrKindInvalidName:
		return NewInvalidVariableNameError(pErr.Name)
	default:
		return NewPatternCompileError(pErr.Name, pErr.Cause)
	}
}
