package extractor

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
)

// pdfExtractor extracts text from PDF files, falling back to printable text
// when the file cannot be parsed.
type pdfExtractor struct{}

func (p *pdfExtractor) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		if reader, err := r.GetPlainText(); err == nil {
			if out, err := io.ReadAll(reader); err == nil && len(out) > 0 {
				return string(out), nil
			}
		}
	}
	return string(printableText(data)), nil
}
