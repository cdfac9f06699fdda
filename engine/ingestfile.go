package engine

import (
	"context"
	"path/filepath"

	"github.com/viant/corpus/extractor"
)

// IngestFile extracts text from the file at URL and ingests it. The document
// filename is the file's base name; extraction is format-aware for PDF, DOCX
// and spreadsheet files.
func (e *Engine) IngestFile(ctx context.Context, URL, category string) (string, error) {
	text, err := extractor.ExtractFile(ctx, URL)
	if err != nil {
		return "", err
	}
	return e.Ingest(ctx, text, filepath.Base(URL), category)
}
