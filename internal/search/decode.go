package search

import (
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadFile reads path and decodes it as UTF-8, falling back to Latin-1
// when the bytes are not valid UTF-8. Latin-1 maps every byte to a rune, so
// decoding itself cannot fail; only the read can. Exported so downstream
// layers (the elaborator) re-read files the same way the searcher does.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
