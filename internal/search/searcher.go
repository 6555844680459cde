// Package search locates query matches inside a set of files and renders a
// highlighted context snippet for each one.
package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/bethropolis/code-searcher/internal/utils"
)

// Options configures a Searcher. The zero value is a case-insensitive
// literal search with no context lines.
type Options struct {
	// Regex treats the query as a regular expression.
	Regex bool
	// CaseSensitive disables case folding.
	CaseSensitive bool
	// ContextLines is the number of lines rendered before and after a
	// match line in its snippet.
	ContextLines int
}

// InvalidQueryError reports a regex query that failed to compile. It is a
// construction-time failure: no Searcher exists for the pattern.
type InvalidQueryError struct {
	Pattern string
	Err     error
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid regex pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidQueryError) Unwrap() error { return e.Err }

// FileAccessError reports a file that could not be read during a search.
// The file contributes zero matches; the batch proceeds.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// Match is one match instance. Character columns are 0-based byte offsets
// within the match line; LineNumber is 1-based.
type Match struct {
	FilePath        string `json:"file_path"`
	LineNumber      int    `json:"line_number"`
	MatchText       string `json:"match_text"`
	CharStartInLine int    `json:"char_start_in_line"`
	CharEndInLine   int    `json:"char_end_in_line"`
	Snippet         string `json:"snippet"`
}

// Searcher finds matches for a single query configuration. Safe for
// concurrent use; all per-file state lives on the stack of Search.
type Searcher struct {
	query         string
	caseSensitive bool
	contextLines  int
	re            *regexp.Regexp // nil in literal mode
	log           utils.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the diagnostic logger.
func WithLogger(log utils.Logger) Option {
	return func(s *Searcher) {
		if log != nil {
			s.log = log
		}
	}
}

// New builds a Searcher. A regex query is compiled here; a pattern that
// does not compile returns *InvalidQueryError and no Searcher.
func New(query string, opts Options, sopts ...Option) (*Searcher, error) {
	s := &Searcher{
		query:         query,
		caseSensitive: opts.CaseSensitive,
		contextLines:  opts.ContextLines,
		log:           utils.NopLogger{},
	}
	if opts.Regex {
		pattern := query
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &InvalidQueryError{Pattern: query, Err: err}
		}
		s.re = re
	}
	for _, opt := range sopts {
		opt(s)
	}
	return s, nil
}

// Search runs the query over paths in order and returns every match,
// file order first, then left to right within each file. Unreadable files
// are skipped with a warning. Only ctx cancellation stops the batch early,
// checked between files.
func (s *Searcher) Search(ctx context.Context, paths []string) ([]Match, error) {
	var results []Match
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		content, err := ReadFile(path)
		if err != nil {
			s.log.Warn("search: %v", &FileAccessError{Path: path, Err: err})
			continue
		}
		results = append(results, s.searchContent(path, content)...)
	}
	return results, nil
}

// span is a half-open [start, end) byte range in the full content.
type span struct {
	start, end int
}

func (s *Searcher) findSpans(content string) []span {
	if content == "" || s.query == "" {
		return nil
	}

	if s.re != nil {
		idx := s.re.FindAllStringIndex(content, -1)
		spans := make([]span, len(idx))
		for i, pair := range idx {
			spans[i] = span{start: pair[0], end: pair[1]}
		}
		return spans
	}

	// Literal mode: repeated forward scan from the end of the previous
	// match. Case folding is ASCII-only so folded offsets map 1:1 onto the
	// original bytes.
	haystack, needle := content, s.query
	if !s.caseSensitive {
		haystack = foldASCII(haystack)
		needle = foldASCII(needle)
	}
	var spans []span
	for pos := 0; pos <= len(haystack)-len(needle); {
		i := strings.Index(haystack[pos:], needle)
		if i < 0 {
			break
		}
		start := pos + i
		spans = append(spans, span{start: start, end: start + len(needle)})
		pos = start + len(needle)
	}
	return spans
}

func (s *Searcher) searchContent(path, content string) []Match {
	spans := s.findSpans(content)
	if len(spans) == 0 {
		return nil
	}

	ix := newLineIndex(content)
	lines := splitLines(content)

	matches := make([]Match, 0, len(spans))
	for _, sp := range spans {
		line, startCol := ix.locate(sp.start)
		if line >= len(lines) {
			// A zero-width match after the final newline has no line to
			// report or render.
			continue
		}
		endLine, endCol := ix.locate(sp.end)
		if endLine > line {
			// The match runs past its first line (or ends exactly on its
			// newline); highlight to the end of that line.
			endCol = len(lines[line])
		}
		start, end := clampSpan(startCol, endCol, len(lines[line]))

		matches = append(matches, Match{
			FilePath:        path,
			LineNumber:      line + 1,
			MatchText:       content[sp.start:sp.end],
			CharStartInLine: start,
			CharEndInLine:   end,
			Snippet:         renderSnippet(lines, line, start, end, s.contextLines),
		})
	}
	return matches
}

// foldASCII lowercases ASCII letters only, preserving byte offsets.
func foldASCII(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			if b == nil {
				b = []byte(s)
			}
			b[i] = c + ('a' - 'A')
		}
	}
	if b == nil {
		return s
	}
	return string(b)
}
