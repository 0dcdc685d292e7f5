package versaprompt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func mustParseDocument(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := ParseDocument([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestNew_Defaults(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)
	require.NotNil(t, engine)

	assert.NotNil(t, engine.logger)
	assert.Nil(t, engine.Storage())
	assert.Empty(t, engine.Names())
	assert.NoError(t, engine.Close())
}

func TestMustNew(t *testing.T) {
	assert.NotPanics(t, func() {
		MustNew(WithLogger(zap.NewNop()))
	})
}

func TestEngine_Register(t *testing.T) {
	engine := MustNew()
	doc := mustParseDocument(t, sentimentDoc)

	require.NoError(t, engine.Register(doc))
	assert.Equal(t, []string{"sentiment"}, engine.Names())

	err := engine.Register(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPromptExists)

	assert.True(t, engine.Unregister("sentiment"))
	assert.False(t, engine.Unregister("sentiment"))
	assert.Empty(t, engine.Names())
}

func TestEngine_Register_Invalid(t *testing.T) {
	engine := MustNew()

	tests := []struct {
		name string
		doc  *Document
		msg  string
	}{
		{"nil", nil, ErrMsgNilPrompt},
		{"no name", &Document{Messages: []DocumentMessage{{Text: "x"}}}, ErrMsgDocumentMissingName},
		{"no messages", &Document{Name: "x"}, ErrMsgDocumentNoMessages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Register(tt.doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEngine_Register_CopiesDocument(t *testing.T) {
	engine := MustNew()
	doc := mustParseDocument(t, sentimentDoc)
	require.NoError(t, engine.Register(doc))

	doc.Messages[0].Text = "mutated"

	got, err := engine.Document(context.Background(), "sentiment")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", got.Messages[0].Text)
}

func TestEngine_Render(t *testing.T) {
	engine := MustNew()
	require.NoError(t, engine.Register(mustParseDocument(t, sentimentDoc)))
	ctx := context.Background()

	resolved, err := engine.Render(ctx, "sentiment", map[string]string{"input": "what a day"})
	require.NoError(t, err)

	msgs := resolved.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleSystem, msgs[0].Role())
	assert.Equal(t, "what a day", msgs[1].Text)

	// each render starts from the stored document
	_, err = engine.Render(ctx, "sentiment", map[string]string{"input": "again"})
	require.NoError(t, err)
}

func TestEngine_Render_Unresolved(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	engine := MustNew(WithLogger(zap.New(core)))
	require.NoError(t, engine.Register(mustParseDocument(t, sentimentDoc)))

	_, err := engine.Render(context.Background(), "sentiment", map[string]string{"inptu": "x"})
	require.Error(t, err)
	assert.True(t, IsUnresolvedVarsError(err))
	assert.True(t, errors.Is(err, ErrUnresolvedVars))

	failed := logs.FilterMessage(LogMsgRenderFailed).All()
	require.Len(t, failed, 1)
	assert.Equal(t, LogFieldUnresolved, failed[0].Context[2].Key)
}

func TestEngine_Render_BindingLayers(t *testing.T) {
	doc := &Document{
		Name:      "layered",
		Variables: map[string]string{"a": "doc", "b": "doc", "c": "doc"},
		Messages:  []DocumentMessage{{Text: "{{a}} {{b}} {{c}}"}},
	}
	engine := MustNew(WithDefaultBindings(map[string]string{"b": "engine", "c": "engine"}))
	require.NoError(t, engine.Register(doc))

	resolved, err := engine.Render(context.Background(), "layered", map[string]string{"c": "call"})
	require.NoError(t, err)
	assert.Equal(t, "doc engine call", resolved.Messages()[0].Text)
}

func TestEngine_Render_StrictBindings(t *testing.T) {
	engine := MustNew(WithStrictBindings(true))
	require.NoError(t, engine.Register(mustParseDocument(t, sentimentDoc)))
	ctx := context.Background()

	_, err := engine.Render(ctx, "sentiment", map[string]string{"input": "x", "inpt": "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnknownBinding)

	// document defaults are not subject to the strict check
	_, err = engine.Render(ctx, "sentiment", map[string]string{"input": "x"})
	require.NoError(t, err)
}

func TestEngine_Render_NotFound(t *testing.T) {
	engine := MustNew()

	_, err := engine.Render(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPromptNotFound))
	assert.True(t, IsNotFoundError(err))
}

func TestEngine_RenderFor(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	engine := MustNew(WithLogger(zap.New(core)))
	require.NoError(t, engine.Register(mustParseDocument(t, sentimentDoc)))
	ctx := context.Background()
	bindings := map[string]string{"input": "hello"}

	msgs, err := engine.RenderFor(ctx, "sentiment", "model/openai/gpt-4o", bindings)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, 0, logs.Len())

	msgs, err = engine.RenderFor(ctx, "sentiment", "model/anthropic", bindings)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
	assert.Equal(t, 1, logs.FilterMessage(LogMsgPatternFallback).Len())
}

func TestEngine_Flatten(t *testing.T) {
	doc := &Document{
		Name: "chat",
		Messages: []DocumentMessage{
			{Role: RoleSystem, Text: "Be brief."},
			{Text: "Hi"},
		},
	}
	ctx := context.Background()

	engine := MustNew()
	require.NoError(t, engine.Register(doc))
	resolved, err := engine.Render(ctx, "chat", nil)
	require.NoError(t, err)
	assert.Equal(t, "system: Be brief.\nuser: Hi\n", engine.Flatten(resolved))

	joined := MustNew(WithFlattenStrategy(JoinStrategy{Separator: " | "}))
	require.NoError(t, joined.Register(doc))
	resolved, err = joined.Render(ctx, "chat", nil)
	require.NoError(t, err)
	assert.Equal(t, "Be brief. | Hi", joined.Flatten(resolved))
}

func TestEngine_Storage(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	engine := MustNew(WithStorage(storage))

	doc := mustParseDocument(t, sentimentDoc)
	require.NoError(t, engine.Save(ctx, doc))

	doc.Messages[0].Text = "Answer with one word."
	require.NoError(t, engine.Save(ctx, doc))

	versions, err := engine.ListVersions(ctx, "sentiment")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, versions)

	list, err := engine.Load(ctx, "sentiment")
	require.NoError(t, err)
	assert.Equal(t, "Answer with one word.", list.Messages()[0].Text)

	// registry takes precedence over storage
	registered := testDocument("sentiment", "from registry")
	require.NoError(t, engine.Register(registered))
	list, err = engine.Load(ctx, "sentiment")
	require.NoError(t, err)
	assert.Equal(t, "from registry", list.Messages()[0].Text)

	require.NoError(t, engine.Close())
	_, err = storage.Get(ctx, "sentiment")
	assert.Error(t, err)
}

func TestEngine_Save_NoStorage(t *testing.T) {
	engine := MustNew()

	err := engine.Save(context.Background(), mustParseDocument(t, sentimentDoc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNoStorage)

	_, err = engine.ListVersions(context.Background(), "sentiment")
	assert.Error(t, err)
}

func TestEngine_Save_Invalid(t *testing.T) {
	engine := MustNew(WithStorage(NewMemoryStorage()))

	err := engine.Save(context.Background(), &Document{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgDocumentNoMessages)
}
