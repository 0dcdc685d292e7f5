package versaprompt

import (
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt_ResolveVar(t *testing.T) {
	p := NewPrompt("Hello {{name}}, you are {{age}}. Bye {{name}}!")

	require.NoError(t, p.ResolveVar("name", "Ada"))
	assert.Equal(t, "Hello Ada, you are {{age}}. Bye Ada!", p.Text())

	has, err := p.HasUnresolvedVars()
	require.NoError(t, err)
	assert.True(t, has)

	vars, err := p.UnresolvedVars()
	require.NoError(t, err)
	assert.Equal(t, []string{"age"}, vars)

	require.NoError(t, p.ResolveVar("age", "36"))
	has, err = p.HasUnresolvedVars()
	require.NoError(t, err)
	assert.False(t, has)
}

func TestPrompt_ResolveVar_LiteralValue(t *testing.T) {
	p := NewPrompt("cost: {{price}}")
	require.NoError(t, p.ResolveVar("price", "$1 and ${x}"))
	assert.Equal(t, "cost: $1 and ${x}", p.Text())
}

func TestPrompt_ResolveVar_InvalidName(t *testing.T) {
	tests := []string{"", "1abc", "a-b", "a b", "a.*"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			p := NewPrompt("Hello {{a}}")
			err := p.ResolveVar(name, "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidVariableName))
			assert.Equal(t, "Hello {{a}}", p.Text())
		})
	}
}

func TestPrompt_Resolve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p := NewPrompt("Hello {{name}}")
		require.NoError(t, p.ResolveVar("name", "Ada"))

		resolved, err := p.Resolve()
		require.NoError(t, err)
		assert.Equal(t, "Hello Ada", resolved.Text())
		assert.Equal(t, "Hello Ada", resolved.String())

		msgs := resolved.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, RoleUser, msgs[0].Role())
	})

	t.Run("unresolved fails and consumes", func(t *testing.T) {
		p := NewPrompt("{{a}} {{b}} {{a}}")
		require.NoError(t, p.ResolveVar("aa", "x"))

		_, err := p.Resolve()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnresolvedVars))

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		vars, _ := customErr.GetMetadata(MetaKeyVariables)
		assert.Equal(t, "a,b", vars)
		hint, ok := customErr.GetMetadata(MetaKeySuggestions)
		assert.True(t, ok)
		assert.Contains(t, hint, "aa")

		assert.True(t, p.IsConsumed())
		_, err = p.Resolve()
		assert.True(t, errors.Is(err, ErrPromptConsumed))
		assert.True(t, errors.Is(p.ResolveVar("a", "x"), ErrPromptConsumed))
		_, err = p.HasUnresolvedVars()
		assert.True(t, errors.Is(err, ErrPromptConsumed))
	})

	t.Run("success consumes", func(t *testing.T) {
		p := NewPrompt("static")
		_, err := p.Resolve()
		require.NoError(t, err)
		_, err = p.Resolve()
		assert.True(t, errors.Is(err, ErrPromptConsumed))
	})

	t.Run("malformed placeholder is literal", func(t *testing.T) {
		p := NewPrompt("Hello {{name")
		has, err := p.HasUnresolvedVars()
		require.NoError(t, err)
		assert.False(t, has)

		resolved, err := p.Resolve()
		require.NoError(t, err)
		assert.Equal(t, "Hello {{name", resolved.Text())
	})
}

func TestPrompt_CloneForRetry(t *testing.T) {
	p := NewPrompt("Hi {{name}}")
	retry := p.Clone()

	_, err := p.Resolve()
	require.Error(t, err)

	require.NoError(t, retry.ResolveVar("name", "Ada"))
	resolved, err := retry.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", resolved.Text())
}

func TestPrompt_ResolveWith(t *testing.T) {
	resolved, err := NewPrompt("{{greeting}}, {{name}}").ResolveWith(map[string]string{
		"greeting": "Hello",
		"name":     "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada", resolved.Text())
}

func TestPrompt_Format_FirstInvalidAborts(t *testing.T) {
	p := NewPrompt("{{a}} {{b}}")
	err := p.Format(map[string]string{"a": "1", "b": "2", "not-valid": "3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidVariableName))
	// keys are applied in sorted order, so "a" and "b" precede "not-valid"
	assert.Equal(t, "1 2", p.Text())
}

func TestPrompt_Format_ValueWithPlaceholder(t *testing.T) {
	p := NewPrompt("{{a}} {{b}}")
	require.NoError(t, p.Format(map[string]string{"a": "{{b}}", "b": "B"}))
	assert.Equal(t, "B B", p.Text())

	// a value introduced after its key was applied stays literal
	p = NewPrompt("{{a}} {{b}}")
	require.NoError(t, p.Format(map[string]string{"a": "A", "b": "{{a}}"}))
	assert.Equal(t, "A {{a}}", p.Text())
}

func TestPromptList(t *testing.T) {
	t.Run("order and tags preserved", func(t *testing.T) {
		l := NewPromptList("You are {{persona}}.", RoleTag(RoleSystem))
		require.NoError(t, l.AddMessage("Tell me about {{topic}}", PatternTag("model/openai")))
		require.NoError(t, l.AddMessage("Also {{topic}} for {{persona}}"))
		assert.Equal(t, 3, l.Len())

		require.NoError(t, l.Format(map[string]string{"persona": "a poet", "topic": "tides"}))

		msgs := l.Messages()
		require.Len(t, msgs, 3)
		assert.Equal(t, "You are a poet.", msgs[0].Text)
		assert.Equal(t, RoleSystem, msgs[0].Role())
		assert.Equal(t, "Tell me about tides", msgs[1].Text)
		assert.Equal(t, []Pattern{"model/openai"}, msgs[1].Tags.Patterns())
		assert.Equal(t, "Also tides for a poet", msgs[2].Text)
		assert.Equal(t, RoleUser, msgs[2].Role())
	})

	t.Run("unresolved across messages", func(t *testing.T) {
		l := NewPromptList("{{a}}")
		require.NoError(t, l.AddMessage("{{b}} {{a}}"))

		vars, err := l.UnresolvedVars()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, vars)

		_, err = l.Resolve()
		assert.True(t, errors.Is(err, ErrUnresolvedVars))
		assert.True(t, errors.Is(l.AddMessage("x"), ErrPromptConsumed))
	})

	t.Run("messages are copies", func(t *testing.T) {
		l := NewPromptList("a", RoleTag(RoleSystem))
		msgs := l.Messages()
		msgs[0].Text = "changed"
		msgs[0].Tags[0] = RoleTag(RoleAssistant)

		again := l.Messages()
		assert.Equal(t, "a", again[0].Text)
		assert.Equal(t, RoleSystem, again[0].Role())
	})

	t.Run("clone is independent", func(t *testing.T) {
		l := NewPromptList("{{x}}")
		c := l.Clone()
		require.NoError(t, c.ResolveVar("x", "1"))
		require.NoError(t, c.AddMessage("two"))

		assert.Equal(t, 1, l.Len())
		assert.Equal(t, "{{x}}", l.Messages()[0].Text)
	})

	t.Run("from messages", func(t *testing.T) {
		l := NewPromptListFromMessages(NewMessage("s", RoleTag(RoleSystem)), NewMessage("u"))
		resolved, err := l.Resolve()
		require.NoError(t, err)
		assert.Equal(t, 2, resolved.Len())
	})
}
