package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	for _, name := range []string{"b.hcl", "sub/a.hcl", "sub/notes.txt"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}
	single := filepath.Join(root, "b.hcl")

	// --- Act ---
	files, err := FindFiles([]string{root, single, "", filepath.Join(root, "missing")}, ".hcl")

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{single, filepath.Join(root, "sub", "a.hcl")}, files)
}

func TestFindFiles_EmptyExtensionPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { _, _ = FindFiles(nil, "") })
}
