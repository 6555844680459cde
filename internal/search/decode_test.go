package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utf8.txt")
	require.NoError(t, os.WriteFile(path, []byte("héllo ✓\n"), 0o644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "héllo ✓\n", got)
}

func TestReadFileLatinOneFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.txt")
	require.NoError(t, os.WriteFile(path, []byte{'n', 'a', 0xef, 'v', 'e'}, 0o644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "naïve", got)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
