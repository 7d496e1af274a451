package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsListFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20-default.list"), []byte("yaml http://example.org/a.yaml\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.list"), 0755))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	got := map[string]bool{}
	for _, e := range entries {
		ok, err := IsListFile(e)
		require.NoError(t, err)
		got[e.Name()] = ok
	}
	assert.True(t, got["20-default.list"])
	assert.False(t, got["README"])
	assert.False(t, got["notes.txt"])
	// a directory never counts, whatever its name
	assert.False(t, got["subdir.list"])
}
