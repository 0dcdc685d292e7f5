package internal

import "strings"

// FrontmatterResult holds a document split into its YAML header and body.
type FrontmatterResult struct {
	// YAML is the raw content between the delimiters. Empty if no frontmatter.
	YAML string
	// Body is everything after the closing delimiter, or the whole source
	// when there is no frontmatter.
	Body string
	// HasFrontmatter reports whether the source opened with a delimiter line.
	HasFrontmatter bool
}

// SplitFrontmatter separates a leading "---" delimited YAML block from the
// rest of source. A byte order mark and leading blanks are ignored.
//
// Format:
//
//	---
//	name: greeting
//	---
//	Hello {{name}}!
func SplitFrontmatter(source string, maxSize int) (*FrontmatterResult, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFrontmatterSize
	}

	trimmed := strings.TrimLeft(strings.TrimPrefix(source, byteOrderMark), " \t\r\n")
	afterOpening, ok := cutDelimiterLine(trimmed)
	if !ok {
		return &FrontmatterResult{Body: source}, nil
	}
	start := len(source) - len(trimmed)

	for offset := 0; ; {
		if body, ok := cutDelimiterLine(afterOpening[offset:]); ok {
			yamlPart := strings.TrimSuffix(strings.TrimSuffix(afterOpening[:offset], "\n"), "\r")
			if len(yamlPart) > maxSize {
				return nil, &FrontmatterError{
					Message:  ErrMsgFrontmatterTooLarge,
					Position: calculatePosition(source[:start]),
				}
			}
			return &FrontmatterResult{
				YAML:           yamlPart,
				Body:           body,
				HasFrontmatter: true,
			}, nil
		}

		next := strings.IndexByte(afterOpening[offset:], '\n')
		if next == -1 {
			return nil, &FrontmatterError{
				Message:  ErrMsgFrontmatterUnclosed,
				Position: calculatePosition(source[:start]),
			}
		}
		offset += next + 1
	}
}

// cutDelimiterLine reports whether s opens with a line holding only the
// delimiter and returns the text after that line.
func cutDelimiterLine(s string) (string, bool) {
	rest, ok := strings.CutPrefix(s, FrontmatterDelimiter)
	if !ok {
		return "", false
	}
	switch {
	case rest == "":
		return "", true
	case strings.HasPrefix(rest, "\n"):
		return rest[1:], true
	case strings.HasPrefix(rest, "\r\n"):
		return rest[2:], true
	}
	return "", false
}

// calculatePosition calculates the Position (line, column, offset) for a given prefix string.
func calculatePosition(prefix string) Position {
	pos := Position{
		Offset: len(prefix),
		Line:   1,
		Column: 1,
	}

	for i := 0; i < len(prefix); i++ {
		if prefix[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}

	return pos
}

// FrontmatterError represents an error during frontmatter extraction.
type FrontmatterError struct {
	Message  string
	Position Position
	Cause    error
}

// Error implements the error interface.
func (e *FrontmatterError) Error() string {
	if e.Position.Line > 0 {
		return e.Message + " at " + e.Position.String()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *FrontmatterError) Unwrap() error {
	return e.Cause
}
