package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
)

// Collect resolves a mix of file and directory paths into a sorted,
// deduplicated list of searchable files. Directories are scanned; explicit
// file paths skip the walk but still pass the exclusion and binary checks,
// with the file's own directory as the scan root. Paths that do not exist
// are logged and skipped. validPaths reports how many inputs resolved to
// an existing file or directory, so callers can tell "nothing to scan"
// apart from "nothing matched".
func (s *Scanner) Collect(ctx context.Context, paths []string) (files []string, validPaths int) {
	seen := make(map[string]struct{})

	for _, p := range paths {
		if ctx.Err() != nil {
			break
		}
		abs, err := NormalizeRoot(p)
		if err != nil {
			s.log.Warn("collect: cannot resolve %q: %v", p, err)
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			s.log.Warn("collect: path does not exist, skipping: %s", abs)
			continue
		}
		validPaths++

		if !info.IsDir() {
			root := filepath.Dir(abs)
			if s.IsExcluded(abs, root, false) {
				s.log.Info("collect: %s is excluded by scanner rules, skipping", abs)
				continue
			}
			if s.IsBinary(abs) {
				s.log.Debug("collect: %s looks binary, skipping", abs)
				continue
			}
			if _, dup := seen[abs]; !dup {
				seen[abs] = struct{}{}
				files = append(files, abs)
			}
			continue
		}

		scanned, err := s.Scan(ctx, abs)
		if err != nil {
			var invalidRoot *InvalidRootError
			if !errors.As(err, &invalidRoot) && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				s.log.Warn("collect: scan of %s failed: %v", abs, err)
			}
		}
		for _, f := range scanned {
			if _, dup := seen[f]; !dup {
				seen[f] = struct{}{}
				files = append(files, f)
			}
		}
	}

	sort.Strings(files)
	return files, validPaths
}
