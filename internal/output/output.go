// Package output renders search results for human or machine consumption.
// It consumes match records read-only; the engine knows nothing about it.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/bethropolis/code-searcher/internal/search"
)

// Format selects an output renderer.
type Format string

const (
	FormatConsole  Format = "console"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a user-supplied format name to a Format. Unknown names
// fall back to console.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	default:
		return FormatConsole
	}
}

// Finding is a match plus its optional AI elaboration.
type Finding struct {
	search.Match
	Elaboration string `json:"elaboration,omitempty"`
}

// Findings wraps plain matches for rendering.
func Findings(matches []search.Match) []Finding {
	out := make([]Finding, len(matches))
	for i, m := range matches {
		out[i] = Finding{Match: m}
	}
	return out
}

// Generator writes findings to a destination in one of the supported
// formats.
type Generator struct {
	out       io.Writer
	format    Format
	useColors bool
}

// New creates a Generator. Colors only apply to the console format.
func New(out io.Writer, format Format, useColors bool) *Generator {
	return &Generator{out: out, format: format, useColors: useColors && format == FormatConsole}
}

// Render writes all findings in the configured format.
func (g *Generator) Render(findings []Finding) error {
	switch g.format {
	case FormatJSON:
		return g.renderJSON(findings)
	case FormatMarkdown:
		return g.renderMarkdown(findings)
	default:
		return g.renderConsole(findings)
	}
}

func (g *Generator) renderConsole(findings []Finding) error {
	if len(findings) == 0 {
		_, err := fmt.Fprintln(g.out, "No matches found.")
		return err
	}
	for _, f := range findings {
		path := f.FilePath
		if g.useColors {
			path = color.CyanString(path)
		}
		if _, err := fmt.Fprintf(g.out, "\nMatch in: %s\nLine %d:\n%s\n", path, f.LineNumber, f.Snippet); err != nil {
			return err
		}
		if f.Elaboration != "" {
			for _, line := range strings.Split(f.Elaboration, "\n") {
				if _, err := fmt.Fprintf(g.out, "    | %s\n", line); err != nil {
					return err
				}
			}
		}
	}
	_, err := fmt.Fprintf(g.out, "\nFound %d match(es) in total.\n", len(findings))
	return err
}

func (g *Generator) renderJSON(findings []Finding) error {
	if findings == nil {
		findings = []Finding{}
	}
	data, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.out, "%s\n", data)
	return err
}

func (g *Generator) renderMarkdown(findings []Finding) error {
	if _, err := fmt.Fprintf(g.out, "# Search Results\n\n"); err != nil {
		return err
	}
	if len(findings) == 0 {
		_, err := fmt.Fprintln(g.out, "No matches found.")
		return err
	}
	for _, f := range findings {
		if _, err := fmt.Fprintf(g.out, "## `%s`:%d\n\n```\n%s\n```\n\n", f.FilePath, f.LineNumber, f.Snippet); err != nil {
			return err
		}
		if f.Elaboration != "" {
			for _, line := range strings.Split(f.Elaboration, "\n") {
				if _, err := fmt.Fprintf(g.out, "> %s\n", line); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(g.out); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(g.out, "Found %d match(es) in total.\n", len(findings))
	return err
}
