package internal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"empty", "", false},
		{"plain text", "Hello World!", false},
		{"single placeholder", "Hello {{name}}!", true},
		{"underscore start", "{{_private}}", true},
		{"digits after first char", "{{item2}}", true},
		{"unterminated", "Hello {{name!", false},
		{"single braces", "Hello {name}", false},
		{"leading digit", "{{2fast}}", false},
		{"spaces inside", "{{ name }}", false},
		{"dotted path", "{{user.name}}", false},
		{"placeholder among noise", "a {{b c}} {{d}} e", true},
		{"unicode text around", "héllo {{wörld}} {{ok}}", true},
		{"only unicode identifier", "{{wörld}}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HasPlaceholders(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	t.Run("distinct names in first occurrence order", func(t *testing.T) {
		names, err := Placeholders("{{b}} {{a}} {{b}} {{c}} {{a}}")
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c"}, names)
	})

	t.Run("nil for no placeholders", func(t *testing.T) {
		names, err := Placeholders("nothing {{here")
		require.NoError(t, err)
		assert.Nil(t, names)
	})
}

func TestReplaceVar(t *testing.T) {
	t.Run("replaces every occurrence", func(t *testing.T) {
		out, err := ReplaceVar("{{x}} and {{x}} and {{y}}", "x", "1")
		require.NoError(t, err)
		assert.Equal(t, "1 and 1 and {{y}}", out)
	})

	t.Run("leaves other placeholders untouched", func(t *testing.T) {
		out, err := ReplaceVar("{{name}} {{names}} {{_name}}", "name", "N")
		require.NoError(t, err)
		assert.Equal(t, "N {{names}} {{_name}}", out)
	})

	t.Run("value is inserted literally", func(t *testing.T) {
		out, err := ReplaceVar("cost: {{price}}", "price", "$1 ${var} \\1")
		require.NoError(t, err)
		assert.Equal(t, "cost: $1 ${var} \\1", out)
	})

	t.Run("value containing placeholder is not re-expanded", func(t *testing.T) {
		out, err := ReplaceVar("{{a}}", "a", "{{a}}{{a}}")
		require.NoError(t, err)
		assert.Equal(t, "{{a}}{{a}}", out)
	})

	t.Run("idempotent once resolved", func(t *testing.T) {
		first, err := ReplaceVar("Hi {{who}}", "who", "there")
		require.NoError(t, err)
		second, err := ReplaceVar(first, "who", "again")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("occurrence count is preserved", func(t *testing.T) {
		text := strings.Repeat("<{{v}}>", 7)
		out, err := ReplaceVar(text, "v", "VAL")
		require.NoError(t, err)
		assert.Equal(t, 0, strings.Count(out, "{{v}}"))
		assert.Equal(t, 7, strings.Count(out, "VAL"))
		assert.Equal(t, strings.Repeat("<VAL>", 7), out)
	})

	t.Run("regex metacharacters in name are rejected before compiling", func(t *testing.T) {
		_, err := ReplaceVar("{{a}}", "a.*", "x")
		require.Error(t, err)

		var pErr *PlaceholderError
		require.True(t, errors.As(err, &pErr))
		assert.Equal(t, ErrKindInvalidName, pErr.Kind)
		assert.Equal(t, "a.*", pErr.Name)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := ReplaceVar("{{a}}", "", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgEmptyVarName)
	})
}

func TestIsIdentifier(t *testing.T) {
	valid := []string{"a", "_", "_a1", "Name", "snake_case_2", "ABC"}
	invalid := []string{"", "1a", "a-b", "a b", "a.b", "ä", "{{a}}", "a$"}

	for _, name := range valid {
		assert.True(t, IsIdentifier(name), name)
	}
	for _, name := range invalid {
		assert.False(t, IsIdentifier(name), name)
	}
}

func TestPlaceholderError(t *testing.T) {
	cause := errors.New("boom")
	err := &PlaceholderError{Kind: ErrKindVarCompile, Message: ErrMsgVarPatternCompile, Name: "x", Cause: cause}

	assert.Equal(t, ErrMsgVarPatternCompile+": x: boom", err.Error())
	assert.True(t, errors.Is(err, cause))
}
