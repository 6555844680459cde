package search

import (
	"fmt"
	"strings"
)

// Highlight markers delimiting the matched segment inside a snippet line.
const (
	MarkerOpen  = ">>>"
	MarkerClose = "<<<"
)

// renderSnippet renders the match line plus contextLines lines on either
// side, clamped to the file edges. Every line is prefixed with a
// right-aligned 1-based line number; the match line gets the highlight
// markers inserted directly around the [start, end) segment with the rest
// of the line byte-for-byte untouched, so stripping the markers restores
// the original line. Out-of-range columns are clamped, not errors.
func renderSnippet(lines []string, matchLine, start, end, contextLines int) string {
	if len(lines) == 0 || matchLine < 0 || matchLine >= len(lines) {
		return ""
	}
	if contextLines < 0 {
		contextLines = 0
	}

	first := matchLine - contextLines
	if first < 0 {
		first = 0
	}
	last := matchLine + contextLines + 1
	if last > len(lines) {
		last = len(lines)
	}

	var b strings.Builder
	for i := first; i < last; i++ {
		fmt.Fprintf(&b, "%4d: ", i+1)
		if i == matchLine {
			line := lines[i]
			s, e := clampSpan(start, end, len(line))
			b.WriteString(line[:s])
			b.WriteString(MarkerOpen)
			b.WriteString(line[s:e])
			b.WriteString(MarkerClose)
			b.WriteString(line[e:])
		} else {
			b.WriteString(lines[i])
		}
		if i < last-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func clampSpan(start, end, lineLen int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > lineLen {
		start = lineLen
	}
	if end > lineLen {
		end = lineLen
	}
	if end < start {
		end = start
	}
	return start, end
}
