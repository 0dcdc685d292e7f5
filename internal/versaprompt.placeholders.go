package internal

import (
	"fmt"
	"regexp"
	"sync"
)

// placeholderGrammar is compiled on first use and shared read-only afterwards.
var placeholderGrammar = sync.OnceValues(func() (*regexp.Regexp, error) {
	return regexp.Compile(PlaceholderGrammar)
})

// PlaceholderError reports a failure of the placeholder matching machinery or
// an identifier that falls outside the placeholder grammar.
type PlaceholderError struct {
	Kind    string
	Message string
	Name    string
	Cause   error
}

// Error implements the error interface.
func (e *PlaceholderError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *PlaceholderError) Unwrap() error {
	return e.Cause
}

func grammar() (*regexp.Regexp, error) {
	re, err := placeholderGrammar()
	if err != nil {
		return nil, &PlaceholderError{
			Kind:    ErrKindGrammarCompile,
			Message: ErrMsgGrammarCompile,
			Cause:   err,
		}
	}
	return re, nil
}

// HasPlaceholders reports whether text contains at least one well-formed
// {{identifier}} placeholder. Unterminated markers such as "{{name" are
// plain text and do not count.
func HasPlaceholders(text string) (bool, error) {
	re, err := grammar()
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}

// Placeholders returns the distinct placeholder names in text, in order of
// first occurrence.
func Placeholders(text string) ([]string, error) {
	re, err := grammar()
	if err != nil {
		return nil, err
	}

	matches := re.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[len(PlaceholderOpen) : len(m)-len(PlaceholderClose)]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// ReplaceVar replaces every {{name}} in text with value. The value is
// inserted literally. The exact-match pattern depends on name and is compiled
// on every call.
func ReplaceVar(text, name, value string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}

	re, err := regexp.Compile(fmt.Sprintf(varPatternFormat, regexp.QuoteMeta(name)))
	if err != nil {
		return "", &PlaceholderError{
			Kind:    ErrKindVarCompile,
			Message: ErrMsgVarPatternCompile,
			Name:    name,
			Cause:   err,
		}
	}

	return re.ReplaceAllLiteralString(text, value), nil
}

// ValidateIdentifier checks name against the placeholder identifier grammar.
func ValidateIdentifier(name string) error {
	if name == "" {
		return &PlaceholderError{Kind: ErrKindInvalidName, Message: ErrMsgEmptyVarName}
	}
	if !IsIdentifier(name) {
		return &PlaceholderError{Kind: ErrKindInvalidName, Message: ErrMsgInvalidVarName, Name: name}
	}
	return nil
}

// IsIdentifier reports whether name matches [a-zA-Z_][a-zA-Z0-9_]*.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
