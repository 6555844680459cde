package scanner

import (
	"path/filepath"
	"strings"

	"github.com/danwakefield/fnmatch"
)

// patternRule is one kind of free-form pattern. For a given pattern the
// rules are consulted in order and the first one whose applies() accepts
// the pattern decides the outcome; later rules never see it.
type patternRule struct {
	name    string
	applies func(pattern string) bool
	match   func(pattern, base, rel string) bool
}

// directoryPatternRules are evaluated for directory entries.
var directoryPatternRules = []patternRule{
	{
		// "build/" matches the build directory itself, by relative path or
		// base name.
		name:    "trailing-separator",
		applies: isDirOnlyPattern,
		match: func(pattern, base, rel string) bool {
			if fnmatch.Match(pattern, rel+"/", 0) {
				return true
			}
			return fnmatch.Match(strings.TrimRight(pattern, "/"), base, 0)
		},
	},
	{
		// "build/*" names a directory whose contents are unwanted; the
		// directory is pruned when its name or relative path equals the
		// stem.
		name: "contents-suffix",
		applies: func(pattern string) bool {
			return strings.HasSuffix(pattern, "/*") && !strings.HasSuffix(pattern, "//*")
		},
		match: func(pattern, base, rel string) bool {
			stem := strings.TrimSuffix(pattern, "/*")
			return base == stem || rel == stem
		},
	},
	{
		name:    "glob",
		applies: func(string) bool { return true },
		match: func(pattern, base, rel string) bool {
			return fnmatch.Match(pattern, base, 0) || fnmatch.Match(pattern, rel, 0)
		},
	},
}

func isDirOnlyPattern(pattern string) bool {
	return strings.HasSuffix(pattern, "/") || strings.HasSuffix(pattern, string(filepath.Separator))
}

// IsExcluded reports whether the entry at path should be excluded from a
// scan rooted at scanRoot. Pure predicate: it never touches the filesystem.
// The scan root itself is never excluded by the dot rule.
func (s *Scanner) IsExcluded(path, scanRoot string, isDir bool) bool {
	cleaned := filepath.Clean(path)
	base := filepath.Base(cleaned)
	rel, err := filepath.Rel(filepath.Clean(scanRoot), cleaned)
	if err != nil {
		rel = base
	}
	rel = filepath.ToSlash(rel)

	if s.excludeDotItems && strings.HasPrefix(base, ".") && cleaned != filepath.Clean(scanRoot) {
		return true
	}

	if isDir {
		if _, ok := s.excludedDirs[base]; ok {
			return true
		}
		for _, pattern := range s.patterns {
			for _, rule := range directoryPatternRules {
				if !rule.applies(pattern) {
					continue
				}
				if rule.match(pattern, base, rel) {
					return true
				}
				break
			}
		}
		return false
	}

	for _, pattern := range s.excludedFiles {
		if fnmatch.Match(pattern, base, 0) {
			return true
		}
	}
	for _, pattern := range s.patterns {
		// Directory-only patterns never exclude files.
		if isDirOnlyPattern(pattern) {
			continue
		}
		if fnmatch.Match(pattern, base, 0) || fnmatch.Match(pattern, rel, 0) {
			return true
		}
	}
	return false
}
