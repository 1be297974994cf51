package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandInputs_Directory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "c.png"), []byte("x"), 0o600))

	files, err := ExpandInputs([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.png")}, files)
}

func TestExpandInputs_FilesPassThrough(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF"), 0o600))

	files, err := ExpandInputs([]string{doc})
	require.NoError(t, err)
	assert.Equal(t, []string{doc}, files)
}

func TestExpandInputs_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ExpandInputs([]string{filepath.Join(dir, "missing.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")

	_, err = ExpandInputs([]string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no page images")
}
