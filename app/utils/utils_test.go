package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArguments(t *testing.T) {
	params, err := ParseArguments(`{"path": "app.py", "content": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, "app.py", params["path"])

	params, err = ParseArguments("")
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = ParseArguments(`{"path":`)
	require.Error(t, err)
}

func TestCastAny(t *testing.T) {
	type action struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}

	v, err := CastAny[action](map[string]any{"path": "a.py", "content": "x"})
	require.NoError(t, err)
	assert.Equal(t, "a.py", v.Path)

	_, err = CastAny[action](map[string]any{"path": 42})
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))

	// Never splits a rune.
	s := "héllo"
	got := Truncate(s, 2)
	assert.Equal(t, "h", got)
}

func TestBuildTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "index.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	tree, err := BuildTree(dir, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, tree, "templates")
	assert.Contains(t, tree, "index.html")
	assert.Contains(t, tree, "app.py")
	assert.NotContains(t, tree, ".git")
}
