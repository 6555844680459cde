package scanner

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// binarySampleSize is how many leading bytes the content heuristic
	// inspects.
	binarySampleSize = 1024

	// binaryNonTextThreshold is the fraction of sampled bytes outside the
	// text allow-list above which a file counts as binary. Fixed at 30%;
	// see DESIGN.md.
	binaryNonTextThreshold = 0.30
)

// IsBinary reports whether the file at path should be treated as binary.
// The extension fast path and the sampled-content heuristic are independent
// predicates combined by OR. An unreadable file counts as binary: the
// search stage could not read it either, so it is skipped up front.
func (s *Scanner) IsBinary(path string) bool {
	if s.binaryByExtension(path) {
		return true
	}
	sample, err := readSample(path, binarySampleSize)
	if err != nil {
		s.log.Warn("cannot sample %s for binary detection: %v", path, err)
		return true
	}
	return binaryByContent(sample)
}

func (s *Scanner) binaryByExtension(path string) bool {
	_, ok := s.binaryExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// binaryByContent applies the byte heuristic to a sample. An empty sample
// is text (empty files are text); any NUL byte means binary; otherwise the
// non-text ratio decides.
func binaryByContent(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	nonText := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if !isTextByte(b) {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > binaryNonTextThreshold
}

// isTextByte allows printable ASCII plus the common whitespace/control
// characters.
func isTextByte(b byte) bool {
	if b >= 32 && b <= 126 {
		return true
	}
	switch b {
	case '\n', '\r', '\t', '\f', '\b':
		return true
	}
	return false
}

func readSample(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:read], nil
}
