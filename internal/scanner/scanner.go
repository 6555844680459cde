// Package scanner discovers the files eligible for searching. It walks a
// root directory, prunes excluded directories before descending into them,
// and filters out excluded and binary files.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"

	"github.com/bethropolis/code-searcher/internal/utils"
)

// Config is the exclusion policy for a scan session. It is copied into the
// Scanner at construction time and never read again, so callers may reuse
// or modify it freely afterwards.
type Config struct {
	// ExcludedDirs are directory base names excluded by exact match.
	ExcludedDirs []string
	// ExcludedFiles are glob patterns matched against file base names.
	ExcludedFiles []string
	// BinaryExtensions are extensions (with dot) always treated as binary.
	BinaryExtensions []string
	// Patterns are free-form globs targeting files or directories. A
	// trailing path separator or "/*" suffix marks a directory pattern.
	Patterns []string
	// ExcludeDotItems excludes entries whose base name starts with a dot.
	ExcludeDotItems bool
	// RespectGitignore additionally applies .gitignore rules found under
	// the scan root. Best effort, off by default.
	RespectGitignore bool
	// MaxFileSize skips regular files larger than this many bytes; 0 means
	// no limit.
	MaxFileSize int64
}

// InvalidRootError reports a scan root that does not exist or is not a
// directory. It is scoped to a single Scan call; the caller gets an empty
// result and may carry on with other roots.
type InvalidRootError struct {
	Path string
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("invalid root path %q: not an existing directory", e.Path)
}

// Scanner turns root paths into lists of searchable files. Safe for
// concurrent use; it holds no per-call state.
type Scanner struct {
	excludedDirs     map[string]struct{}
	excludedFiles    []string
	binaryExts       map[string]struct{}
	patterns         []string
	excludeDotItems  bool
	respectGitignore bool
	maxFileSize      int64
	log              utils.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the diagnostic logger.
func WithLogger(log utils.Logger) Option {
	return func(s *Scanner) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Scanner from cfg. Nil slice fields fall back to the
// package defaults.
func New(cfg Config, opts ...Option) *Scanner {
	if cfg.ExcludedDirs == nil {
		cfg.ExcludedDirs = DefaultExcludedDirs
	}
	if cfg.ExcludedFiles == nil {
		cfg.ExcludedFiles = DefaultExcludedFiles
	}
	if cfg.BinaryExtensions == nil {
		cfg.BinaryExtensions = DefaultBinaryExtensions
	}

	s := &Scanner{
		excludedDirs:     make(map[string]struct{}, len(cfg.ExcludedDirs)),
		excludedFiles:    append([]string(nil), cfg.ExcludedFiles...),
		binaryExts:       make(map[string]struct{}, len(cfg.BinaryExtensions)),
		patterns:         append([]string(nil), cfg.Patterns...),
		excludeDotItems:  cfg.ExcludeDotItems,
		respectGitignore: cfg.RespectGitignore,
		maxFileSize:      cfg.MaxFileSize,
		log:              utils.NopLogger{},
	}
	for _, d := range cfg.ExcludedDirs {
		s.excludedDirs[d] = struct{}{}
	}
	for _, ext := range cfg.BinaryExtensions {
		s.binaryExts[strings.ToLower(ext)] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks root and returns the absolute paths of all files that pass the
// exclusion and binary checks, in traversal order. A missing or non-directory
// root yields an empty result and *InvalidRootError. Per-entry errors are
// logged and swallowed; only ctx cancellation aborts the walk.
func (s *Scanner) Scan(ctx context.Context, root string) ([]string, error) {
	absRoot, err := NormalizeRoot(root)
	if err != nil {
		return nil, &InvalidRootError{Path: root}
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, &InvalidRootError{Path: absRoot}
	}

	var repoIgnore gitignore.GitIgnore
	if s.respectGitignore {
		repoIgnore, err = gitignore.NewRepository(absRoot)
		if err != nil {
			s.log.Warn("could not load .gitignore rules under %s: %v", absRoot, err)
			repoIgnore = nil
		}
	}

	var files []string
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.log.Warn("scan: skipping %s: %v", path, err)
			if d != nil && d.IsDir() && os.IsPermission(err) {
				return filepath.SkipDir
			}
			return nil
		}
		if path == absRoot {
			return nil
		}

		isDir := d.IsDir()
		if s.IsExcluded(path, absRoot, isDir) {
			s.log.Debug("scan: excluded %s", path)
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}
		if repoIgnore != nil && s.gitignored(repoIgnore, absRoot, path, isDir) {
			s.log.Debug("scan: gitignored %s", path)
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}
		if isDir {
			return nil
		}

		if s.maxFileSize > 0 {
			fi, infoErr := d.Info()
			if infoErr != nil {
				s.log.Warn("scan: cannot stat %s: %v", path, infoErr)
				return nil
			}
			if fi.Size() > s.maxFileSize {
				s.log.Debug("scan: %s exceeds size limit (%d > %d bytes)", path, fi.Size(), s.maxFileSize)
				return nil
			}
		}
		if s.IsBinary(path) {
			s.log.Debug("scan: binary %s", path)
			return nil
		}

		files = append(files, path)
		return nil
	})

	if walkErr != nil && !errors.Is(walkErr, context.Canceled) && !errors.Is(walkErr, context.DeadlineExceeded) {
		s.log.Error("scan: walk of %s failed: %v", absRoot, walkErr)
	}
	return files, walkErr
}

// gitignored asks the gitignore library whether path should be skipped.
// Relative is the entry point that accepts root-relative paths; negation
// rules are already folded into the returned match. The library has been
// seen to panic on odd inputs, so a panic counts as "keep".
func (s *Scanner) gitignored(repo gitignore.GitIgnore, root, path string, isDir bool) (ignored bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in gitignore matcher for %q: %v", path, r)
			ignored = false
		}
	}()
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	m := repo.Relative(filepath.ToSlash(rel), isDir)
	return m != nil && m.Ignore()
}

// NormalizeRoot resolves a leading "~" and returns the absolute form of
// root. It does not require the path to exist.
func NormalizeRoot(root string) (string, error) {
	if root == "~" || strings.HasPrefix(root, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %q: %w", root, err)
		}
		root = filepath.Join(home, strings.TrimPrefix(root, "~"))
	}
	return filepath.Abs(root)
}
