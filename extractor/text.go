package extractor

import (
	"bytes"
	"unicode/utf8"
)

// textExtractor passes UTF-8 text through, filtering anything unprintable.
type textExtractor struct{}

func (t *textExtractor) Extract(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	return string(printableText(data)), nil
}

// printableText keeps printable runes and common whitespace, dropping
// everything else. It is the fallback when structured extraction fails.
func printableText(in []byte) []byte {
	var out bytes.Buffer
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			b := in[0]
			if b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b < 127) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}
		in = in[size:]
		if isPrintableRune(r) {
			out.WriteRune(r)
		}
	}
	return out.Bytes()
}

func isPrintableRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return true
	}
	return r >= 32 && r <= 0x10FFFF && r != 127
}
