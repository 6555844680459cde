package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"a"}, SplitList("a"))
	assert.Equal(t, []string{"a", "b"}, SplitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a , b "))
	assert.Equal(t, []string{"a"}, SplitList("a,,"))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.ContextLines)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, 10, cfg.ContextWindow)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestScannerConfigFlags(t *testing.T) {
	cfg := Default()
	cfg.ExcludeDirs = ".git,vendor"
	cfg.ExcludeFiles = "*.min.js"
	cfg.ExcludePatterns = "build/,dist/*"
	cfg.IncludeHidden = true
	cfg.MaxFileSizeMB = 2

	sc, err := cfg.ScannerConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{".git", "vendor"}, sc.ExcludedDirs)
	assert.Equal(t, []string{"*.min.js"}, sc.ExcludedFiles)
	assert.Equal(t, []string{"build/", "dist/*"}, sc.Patterns)
	assert.False(t, sc.ExcludeDotItems)
	assert.EqualValues(t, 2*1024*1024, sc.MaxFileSize)
}

func TestScannerConfigEmptyKeepsDefaults(t *testing.T) {
	sc, err := Default().ScannerConfig()
	require.NoError(t, err)
	// Nil slices defer to the scanner's built-in defaults.
	assert.Nil(t, sc.ExcludedDirs)
	assert.Nil(t, sc.ExcludedFiles)
	assert.Nil(t, sc.BinaryExtensions)
	assert.True(t, sc.ExcludeDotItems)
}

func TestScannerConfigPolicyFile(t *testing.T) {
	policy := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(policy, []byte(
		"excluded_dirs:\n  - target\nexcluded_files:\n  - \"*.class\"\npatterns:\n  - \"generated/\"\nbinary_extensions:\n  - \".jar\"\n",
	), 0o644))

	cfg := Default()
	cfg.PolicyFile = policy
	sc, err := cfg.ScannerConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"target"}, sc.ExcludedDirs)
	assert.Equal(t, []string{"*.class"}, sc.ExcludedFiles)
	assert.Equal(t, []string{".jar"}, sc.BinaryExtensions)
	assert.Equal(t, []string{"generated/"}, sc.Patterns)
}

func TestScannerConfigFlagsOverridePolicy(t *testing.T) {
	policy := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(policy, []byte(
		"excluded_dirs:\n  - target\npatterns:\n  - \"generated/\"\n",
	), 0o644))

	cfg := Default()
	cfg.PolicyFile = policy
	cfg.ExcludeDirs = "out"
	cfg.ExcludePatterns = "tmp/"

	sc, err := cfg.ScannerConfig()
	require.NoError(t, err)
	// Flag lists replace; free-form patterns accumulate.
	assert.Equal(t, []string{"out"}, sc.ExcludedDirs)
	assert.Equal(t, []string{"generated/", "tmp/"}, sc.Patterns)
}

func TestScannerConfigMissingPolicyFile(t *testing.T) {
	cfg := Default()
	cfg.PolicyFile = filepath.Join(t.TempDir(), "absent.yaml")
	_, err := cfg.ScannerConfig()
	assert.Error(t, err)
}

func TestLoadPolicyMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("excluded_dirs: [unclosed\n"), 0o644))
	_, err := LoadPolicy(path)
	assert.Error(t, err)
}

func TestResolveColors(t *testing.T) {
	cfg := Default()
	cfg.NoColor = true
	cfg.ResolveColors()
	assert.False(t, cfg.UseColors)

	cfg = Default()
	cfg.OutputFile = "out.json"
	cfg.ResolveColors()
	assert.False(t, cfg.UseColors)
}
