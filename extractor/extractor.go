// Package extractor turns format-specific document bytes into plain text
// ready for chunking and embedding.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// Extractor extracts plain text from raw document bytes.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// ForFile returns an extractor for the given file based on its extension.
// Unknown extensions fall back to printable text extraction.
func ForFile(path string) Extractor {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return &pdfExtractor{}
	case ".docx":
		return &docxExtractor{}
	case ".xlsx":
		return &excelExtractor{}
	case ".xls":
		return &xlsExtractor{}
	default:
		return &textExtractor{}
	}
}

// ExtractFile reads the file at URL and extracts its text.
func ExtractFile(ctx context.Context, URL string) (string, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return "", fmt.Errorf("failed to read %v: %w", URL, err)
	}
	text, err := ForFile(URL).Extract(data)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %v: %w", URL, err)
	}
	return text, nil
}
