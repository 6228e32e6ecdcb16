// Package charset resolves the single-byte output encodings the writers can
// optionally transcode to. Transcoding is strictly opt-in: the empty name and
// UTF-8 mean "write input bytes unchanged".
package charset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var pages = map[string]encoding.Encoding{
	"windows-1250": charmap.Windows1250,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
}

// Lookup resolves a charset name to its encoding. The empty name, "utf-8"
// and "utf8" resolve to nil, meaning no transcoding.
func Lookup(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	if enc, ok := pages[n]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("unsupported charset: %q", name)
}

// NewEncoder returns an encoder for name that substitutes runes the target
// page cannot represent instead of failing. It returns nil when name needs
// no transcoding.
func NewEncoder(name string) (*encoding.Encoder, error) {
	enc, err := Lookup(name)
	if err != nil || enc == nil {
		return nil, err
	}
	return encoding.ReplaceUnsupported(enc.NewEncoder()), nil
}
