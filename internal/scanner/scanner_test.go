package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanDefaultExclusions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "src", "util.go"), "package src\n")
	writeFile(t, filepath.Join(root, "app.log"), "log line\n")
	writeFile(t, filepath.Join(root, "backup.bak"), "old\n")
	writeFile(t, filepath.Join(root, "node_modules", "lib.js"), "module.exports = {}\n")

	s := New(Config{ExcludeDotItems: true})
	files, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "main.go"),
		filepath.Join(root, "src", "util.go"),
	}, files)
}

func TestScanPrunesExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"), "keep\n")
	// report.txt would pass every file-level rule, but its parent is pruned.
	writeFile(t, filepath.Join(root, ".git", "report.txt"), "inside git\n")
	writeFile(t, filepath.Join(root, ".git", "objects", "deep.txt"), "deeper\n")

	s := New(Config{ExcludeDotItems: true})
	files, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "keep.txt"), files[0])
}

func TestScanInvalidRoot(t *testing.T) {
	s := New(Config{})

	files, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, files)
	var invalidRoot *InvalidRootError
	require.ErrorAs(t, err, &invalidRoot)

	// A file is not a valid root either.
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	writeFile(t, file, "text\n")
	files, err = s.Scan(context.Background(), file)
	assert.Empty(t, files)
	require.ErrorAs(t, err, &invalidRoot)
}

func TestScanNoDuplicatesAndParentFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a\n")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "b\n")
	writeFile(t, filepath.Join(root, "sub", "nested", "c.txt"), "c\n")

	s := New(Config{})
	files, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, files, 3)

	seen := make(map[string]struct{})
	for _, f := range files {
		_, dup := seen[f]
		assert.False(t, dup, "duplicate path %s", f)
		seen[f] = struct{}{}
		assert.True(t, filepath.IsAbs(f), "path %s should be absolute", f)
	}
	// Lexical pre-order: a.txt before anything under sub/.
	assert.Equal(t, filepath.Join(root, "a.txt"), files[0])
}

func TestScanIncludeHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), "SECRET=1\n")
	writeFile(t, filepath.Join(root, "visible.txt"), "v\n")

	s := New(Config{ExcludeDotItems: false})
	files, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, ".env"),
		filepath.Join(root, "visible.txt"),
	}, files)
}

func TestScanMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.txt"), "tiny\n")
	writeFile(t, filepath.Join(root, "large.txt"), "this line is comfortably longer than the ten byte limit\n")

	s := New(Config{MaxFileSize: 10})
	files, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(root, "small.txt")}, files)
}

func TestScanCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(Config{})
	_, err := s.Scan(ctx, root)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestScanGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "ignored.txt\nbuild/\n")
	writeFile(t, filepath.Join(root, "ignored.txt"), "nope\n")
	writeFile(t, filepath.Join(root, "build", "artifact.txt"), "generated\n")
	writeFile(t, filepath.Join(root, "kept.txt"), "yes\n")

	s := New(Config{RespectGitignore: true, ExcludeDotItems: true})
	files, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(root, "kept.txt")}, files)

	// Without the flag the same .gitignore rules are not applied.
	s = New(Config{RespectGitignore: false, ExcludeDotItems: true})
	files, err = s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "build", "artifact.txt"),
		filepath.Join(root, "ignored.txt"),
		filepath.Join(root, "kept.txt"),
	}, files)
}

func TestCollectMixedPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dir", "one.txt"), "1\n")
	writeFile(t, filepath.Join(root, "dir", "two.txt"), "2\n")
	writeFile(t, filepath.Join(root, "single.txt"), "s\n")
	writeFile(t, filepath.Join(root, "skipped.log"), "log\n")

	s := New(Config{})
	files, valid := s.Collect(context.Background(), []string{
		filepath.Join(root, "dir"),
		filepath.Join(root, "single.txt"),
		filepath.Join(root, "skipped.log"), // excluded even as an explicit argument
		filepath.Join(root, "missing"),     // does not exist
		filepath.Join(root, "dir"),         // duplicate root, results deduplicated
	})

	assert.Equal(t, 4, valid)
	assert.Equal(t, []string{
		filepath.Join(root, "dir", "one.txt"),
		filepath.Join(root, "dir", "two.txt"),
		filepath.Join(root, "single.txt"),
	}, files)
}

func TestCollectNothingValid(t *testing.T) {
	s := New(Config{})
	files, valid := s.Collect(context.Background(), []string{filepath.Join(t.TempDir(), "ghost")})
	assert.Zero(t, valid)
	assert.Empty(t, files)
}
