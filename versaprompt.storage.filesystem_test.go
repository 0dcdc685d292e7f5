package versaprompt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStorage(t *testing.T) {
	runStorageConformance(t, func(t *testing.T) PromptStorage {
		s, err := NewFilesystemStorage(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestFilesystemStorage_Layout(t *testing.T) {
	root := t.TempDir()
	s, err := NewFilesystemStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	doc := &Document{
		Name: "sentiment",
		Messages: []DocumentMessage{
			{Role: RoleSystem, Text: "Classify."},
			{Text: "{{input}}", Patterns: []Pattern{"model/openai"}},
		},
	}
	require.NoError(t, s.Save(ctx, &StoredPrompt{Name: "sentiment", Document: doc, Metadata: map[string]string{"owner": "ml"}}))
	require.NoError(t, s.Save(ctx, &StoredPrompt{Name: "sentiment", Document: doc}))

	for _, f := range []string{"v1.yaml", "v2.yaml"} {
		_, err := os.Stat(filepath.Join(root, "sentiment", f))
		assert.NoError(t, err, f)
	}

	got, err := s.GetVersion(ctx, "sentiment", 1)
	require.NoError(t, err)
	assert.Equal(t, doc, got.Document)
	assert.Equal(t, map[string]string{"owner": "ml"}, got.Metadata)

	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(root, "sentiment", "notes.txt"), []byte("x"), 0o644))
	versions, err := s.ListVersions(ctx, "sentiment")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, versions)
}

func TestFilesystemStorage_RejectsUnsafeNames(t *testing.T) {
	s, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name string
		msg  string
	}{
		{"../escape", ErrMsgPathTraversalDetected},
		{"a/b", ErrMsgInvalidPromptName},
		{`a\b`, ErrMsgInvalidPromptName},
		{"a:b", ErrMsgInvalidPromptName},
		{"", ErrMsgInvalidPromptName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Get(ctx, tt.name)
			var sErr *StorageError
			require.True(t, errors.As(err, &sErr))
			assert.Equal(t, tt.msg, sErr.Message)
		})
	}
}

func TestNewFilesystemStorage_EmptyRoot(t *testing.T) {
	_, err := NewFilesystemStorage("")
	var sErr *StorageError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, ErrMsgInvalidStorageRoot, sErr.Message)
}
