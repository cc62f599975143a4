package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestEnumerateDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.pdf"))
	touch(t, filepath.Join(root, "a.PDF"))
	touch(t, filepath.Join(root, "scan.png"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".hidden.pdf"))
	touch(t, filepath.Join(root, ".git", "obj.pdf"))
	touch(t, filepath.Join(root, "sub", "c.jpeg"))

	files, err := Enumerate(root, nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a.PDF"),
		filepath.Join(root, "b.pdf"),
		filepath.Join(root, "scan.png"),
		filepath.Join(root, "sub", "c.jpeg"),
	}, files)
}

func TestEnumerateSingleFilePassthrough(t *testing.T) {
	root := t.TempDir()
	f := filepath.Join(root, "one.weird")
	touch(t, f)

	// a single explicit file skips the extension filter
	files, err := Enumerate(f, nil)
	require.NoError(t, err)
	require.Equal(t, []string{f}, files)
}

func TestEnumerateCustomExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pdf"))
	touch(t, filepath.Join(root, "b.tiff"))

	files, err := Enumerate(root, []string{".TIFF"})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "b.tiff")}, files)
}

func TestEnumerateMissingInput(t *testing.T) {
	_, err := Enumerate(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)

	_, err = Enumerate("  ", nil)
	require.Error(t, err)
}
