// Package app wires the scanner, searcher, cache, elaborator and renderer
// into the search pipeline the CLI runs.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bethropolis/code-searcher/internal/cache"
	"github.com/bethropolis/code-searcher/internal/config"
	"github.com/bethropolis/code-searcher/internal/elaborate"
	"github.com/bethropolis/code-searcher/internal/output"
	"github.com/bethropolis/code-searcher/internal/scanner"
	"github.com/bethropolis/code-searcher/internal/search"
	"github.com/bethropolis/code-searcher/internal/utils"
)

// App runs one search session.
type App struct {
	cfg *config.Config
	log utils.Logger
	out io.Writer
}

// New creates an App writing results to out.
func New(cfg *config.Config, log utils.Logger, out io.Writer) *App {
	if log == nil {
		log = utils.NopLogger{}
	}
	return &App{cfg: cfg, log: log, out: out}
}

// Run executes scan, search, optional elaboration and rendering. The
// returned error is for the CLI to surface; engine-level per-file problems
// are logged and absorbed along the way.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	scCfg, err := a.cfg.ScannerConfig()
	if err != nil {
		return err
	}

	searcher, err := search.New(a.cfg.Query, search.Options{
		Regex:         a.cfg.Regex,
		CaseSensitive: a.cfg.CaseSensitive,
		ContextLines:  a.cfg.ContextLines,
	}, search.WithLogger(a.log))
	if err != nil {
		return err
	}

	var (
		store    *cache.Manager
		cacheKey string
	)
	if a.cfg.CacheEnabled {
		store, cacheKey = a.openCache(scCfg)
		if store != nil {
			defer store.Close()
		}
	}

	var matches []search.Match
	cached := false
	if store != nil {
		if data, ok := store.Get(cacheKey); ok {
			if err := json.Unmarshal(data, &matches); err != nil {
				a.log.Warn("discarding unreadable cache entry: %v", err)
				store.Delete(cacheKey)
			} else {
				a.log.Debug("serving %d match(es) from cache", len(matches))
				cached = true
			}
		}
	}

	if !cached {
		sc := scanner.New(scCfg, scanner.WithLogger(a.log))
		files, validPaths := sc.Collect(ctx, a.cfg.Paths)
		if validPaths == 0 {
			return fmt.Errorf("no valid search paths provided")
		}
		if len(files) == 0 {
			_, err := fmt.Fprintln(a.out, "No files found to search after applying exclusions.")
			return err
		}
		a.log.Info("searching %d file(s)", len(files))

		matches, err = searcher.Search(ctx, files)
		if err != nil {
			return err
		}

		if store != nil {
			if data, err := json.Marshal(matches); err == nil {
				if err := store.Set(cacheKey, data); err != nil {
					a.log.Warn("could not cache results: %v", err)
				}
			}
		}
	}

	findings := output.Findings(matches)
	if a.cfg.Elaborate && len(findings) > 0 {
		a.elaborate(ctx, findings)
	}

	gen := output.New(a.out, output.ParseFormat(a.cfg.Format), a.cfg.UseColors)
	return gen.Render(findings)
}

// openCache prepares the cache store and the key for this invocation.
// Cache trouble is never fatal; the search just runs uncached.
func (a *App) openCache(scCfg scanner.Config) (*cache.Manager, string) {
	dir := a.cfg.CacheDir
	if dir == "" {
		var err error
		dir, err = cache.DefaultDir()
		if err != nil {
			a.log.Warn("cache disabled: %v", err)
			return nil, ""
		}
	}
	key, err := cache.Key(a.cfg.Paths, scCfg, struct {
		Query         string
		Regex         bool
		CaseSensitive bool
		ContextLines  int
	}{a.cfg.Query, a.cfg.Regex, a.cfg.CaseSensitive, a.cfg.ContextLines})
	if err != nil {
		a.log.Warn("cache disabled: %v", err)
		return nil, ""
	}
	store, err := cache.New(dir, 0)
	if err != nil {
		a.log.Warn("cache disabled: %v", err)
		return nil, ""
	}
	return store, key
}

func (a *App) elaborate(ctx context.Context, findings []output.Finding) {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		a.log.Warn("ANTHROPIC_API_KEY not set; skipping elaboration")
		return
	}
	analyzer := elaborate.New("", elaborate.WithModel(a.cfg.Model), elaborate.WithLogger(a.log))

	for i := range findings {
		if ctx.Err() != nil {
			return
		}
		fullContent, err := search.ReadFile(findings[i].FilePath)
		if err != nil {
			a.log.Warn("could not re-read %s for elaboration context: %v", findings[i].FilePath, err)
		}
		elaboration, err := analyzer.ElaborateOnMatch(ctx, findings[i].Match, fullContent, a.cfg.ContextWindow)
		if err != nil {
			a.log.Warn("elaboration failed for %s:%d: %v", findings[i].FilePath, findings[i].LineNumber, err)
			continue
		}
		findings[i].Elaboration = elaboration
	}
}
