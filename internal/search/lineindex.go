package search

import (
	"sort"
	"strings"
)

// lineIndex maps global byte offsets in one file's content to line/column
// positions. It is built once per file inside the search loop and passed to
// every helper that needs offset math, then discarded with the file, so
// stale offsets can never leak into the next file.
type lineIndex struct {
	starts []int
}

func newLineIndex(content string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// locate returns the 0-based line index containing offset and the 0-based
// column of offset within that line.
func (ix *lineIndex) locate(offset int) (line, col int) {
	// First line start greater than offset; the line is the one before it.
	line = sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return line, offset - ix.starts[line]
}

// splitLines splits content into lines without trailing newlines. A final
// newline terminates the last line rather than opening an empty one, and
// empty content has no lines at all.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}
