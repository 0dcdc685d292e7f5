package versaprompt

import (
	"sort"

	"github.com/itsatony/go-versaprompt/internal"
)

// HasPlaceholders reports whether text contains at least one {{name}}
// placeholder.
func HasPlaceholders(text string) (bool, error) {
	ok, err := internal.HasPlaceholders(text)
	if err != nil {
		return false, fromPlaceholderError(err)
	}
	return ok, nil
}

// Placeholders returns the distinct placeholder names of text in order of
// first occurrence.
func Placeholders(text string) ([]string, error) {
	names, err := internal.Placeholders(text)
	if err != nil {
		return nil, fromPlaceholderError(err)
	}
	return names, nil
}

// ReplaceVar substitutes every {{name}} in text with value. The value is
// inserted literally and other placeholders are left untouched.
func ReplaceVar(text, name, value string) (string, error) {
	out, err := internal.ReplaceVar(text, name, value)
	if err != nil {
		return "", fromPlaceholderError(err)
	}
	return out, nil
}

// FormatString applies all bindings to text and returns the result.
func FormatString(text string, bindings map[string]string) (string, error) {
	for _, name := range sortedKeys(bindings) {
		var err error
		if text, err = ReplaceVar(text, name, bindings[name]); err != nil {
			return "", err
		}
	}
	return text, nil
}

// ResolveString finalizes a plain string into a single-message prompt.
func ResolveString(text string) (*ResolvedPrompt, error) {
	return NewPrompt(text).Resolve()
}

// ValidateVariableName checks name against the placeholder identifier grammar.
func ValidateVariableName(name string) error {
	if err := internal.ValidateIdentifier(name); err != nil {
		return fromPlaceholderError(err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mergeBindings(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
