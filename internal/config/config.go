// Package config holds the application configuration assembled from flags,
// an optional YAML exclusion-policy file, and the terminal environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/bethropolis/code-searcher/internal/scanner"
)

// Config holds all application settings.
type Config struct {
	// Search settings
	Query         string
	Paths         []string
	Regex         bool
	CaseSensitive bool
	ContextLines  int

	// Filtering settings (comma-separated pattern lists from flags)
	ExcludeDirs      string
	ExcludeFiles     string
	ExcludePatterns  string
	IncludeHidden    bool
	RespectGitignore bool
	MaxFileSizeMB    int64
	PolicyFile       string

	// Output settings
	Format     string
	OutputFile string
	NoColor    bool
	UseColors  bool

	// Elaboration settings
	Elaborate     bool
	Model         string
	ContextWindow int

	// Cache settings
	CacheEnabled bool
	CacheDir     string

	// Logging and runtime settings
	LogLevel string
	Verbose  bool
	Quiet    bool
	Timeout  time.Duration
}

// Default returns a Config with the defaults the CLI advertises.
func Default() *Config {
	return &Config{
		ContextLines:  3,
		Format:        "console",
		ContextWindow: 10,
		LogLevel:      "info",
	}
}

// ResolveColors decides whether colored output is in effect. Colors are off
// when disabled explicitly, when output goes to a file, or when stdout is
// not a terminal.
func (c *Config) ResolveColors() {
	c.UseColors = !c.NoColor && c.OutputFile == "" && isatty.IsTerminal(os.Stdout.Fd())
}

// Policy is the YAML exclusion-policy file. Absent keys leave the scanner
// defaults in place.
type Policy struct {
	ExcludedDirs     []string `yaml:"excluded_dirs"`
	ExcludedFiles    []string `yaml:"excluded_files"`
	BinaryExtensions []string `yaml:"binary_extensions"`
	Patterns         []string `yaml:"patterns"`
}

// LoadPolicy reads and parses a policy file.
func LoadPolicy(path string) (*Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	return &p, nil
}

// ScannerConfig assembles the scanner configuration from the policy file
// (if any) and the flag-level pattern lists. Flag lists, when present,
// replace the corresponding policy or default sets; free-form patterns
// accumulate.
func (c *Config) ScannerConfig() (scanner.Config, error) {
	sc := scanner.Config{
		ExcludeDotItems:  !c.IncludeHidden,
		RespectGitignore: c.RespectGitignore,
		MaxFileSize:      c.MaxFileSizeMB * 1024 * 1024,
	}

	if c.PolicyFile != "" {
		policy, err := LoadPolicy(c.PolicyFile)
		if err != nil {
			return scanner.Config{}, err
		}
		if policy.ExcludedDirs != nil {
			sc.ExcludedDirs = policy.ExcludedDirs
		}
		if policy.ExcludedFiles != nil {
			sc.ExcludedFiles = policy.ExcludedFiles
		}
		if policy.BinaryExtensions != nil {
			sc.BinaryExtensions = policy.BinaryExtensions
		}
		sc.Patterns = append(sc.Patterns, policy.Patterns...)
	}

	if dirs := SplitList(c.ExcludeDirs); len(dirs) > 0 {
		sc.ExcludedDirs = dirs
	}
	if files := SplitList(c.ExcludeFiles); len(files) > 0 {
		sc.ExcludedFiles = files
	}
	sc.Patterns = append(sc.Patterns, SplitList(c.ExcludePatterns)...)

	return sc, nil
}

// SplitList splits a comma-separated flag value, trimming whitespace and
// dropping empty items.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
