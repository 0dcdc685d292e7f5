package internal

import "fmt"

// Placeholder grammar. Identifiers are ASCII letters, digits and underscores
// and must not start with a digit.
const (
	PlaceholderOpen    = "{{"
	PlaceholderClose   = "}}"
	PlaceholderGrammar = `\{\{[a-zA-Z_][a-zA-Z0-9_]*\}\}`

	// varPatternFormat wraps a quoted identifier into an exact-match pattern.
	varPatternFormat = `\{\{%s\}\}`
)

// Frontmatter constants
const (
	FrontmatterDelimiter      = "---"
	DefaultMaxFrontmatterSize = 64 * 1024
	byteOrderMark             = "\xef\xbb\xbf"
)

// Error kinds reported by PlaceholderError
const (
	ErrKindGrammarCompile = "grammar_compile"
	ErrKindVarCompile     = "var_compile"
	ErrKindInvalidName    = "invalid_name"
)

// Error messages
const (
	ErrMsgGrammarCompile      = "placeholder grammar failed to compile"
	ErrMsgVarPatternCompile   = "variable pattern failed to compile"
	ErrMsgInvalidVarName      = "invalid variable name"
	ErrMsgEmptyVarName        = "variable name cannot be empty"
	ErrMsgFrontmatterUnclosed = "frontmatter is not closed"
	ErrMsgFrontmatterTooLarge = "frontmatter exceeds maximum size"
)

// Suggestion defaults
const (
	DefaultMaxSuggestions = 3
	minSuggestionDistance = 2
)

// Position represents a location in a source document
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}
