package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

const metadataFile = "metadata.json"

// metadata is the persisted layout: a map of documents keyed by identifier
// and the full list of chunks in vector index order.
type metadata struct {
	Documents map[string]*Document `json:"documents"`
	Chunks    []*Chunk             `json:"chunks"`
}

// URL returns the metadata file location.
func (s *Store) URL() string {
	return url.Join(s.baseURL, metadataFile)
}

// Save writes all documents and chunks to the metadata file.
func (s *Store) Save(ctx context.Context) error {
	data, err := json.MarshalIndent(&metadata{Documents: s.documents, Chunks: s.chunks}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	fs := afs.New()
	URL := s.URL()
	if ok, _ := fs.Exists(ctx, URL); ok {
		_ = fs.Delete(ctx, URL)
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to persist metadata %v: %w", URL, err)
	}
	return nil
}

// Load reconstructs the store from the metadata file. A missing or corrupt
// file yields an empty, valid store: ingestion and search then behave as if
// nothing was indexed yet. Corruption is logged, never fatal.
func (s *Store) Load(ctx context.Context) error {
	s.reset()
	fs := afs.New()
	URL := s.URL()
	if ok, _ := fs.Exists(ctx, URL); !ok {
		return nil
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		log.Printf("docstore: failed to read metadata %v: %v, starting empty", URL, err)
		return nil
	}
	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		log.Printf("docstore: %v: %v, starting empty", ErrCorruptState, err)
		return nil
	}
	if meta.Documents != nil {
		s.documents = meta.Documents
	}
	for id, doc := range s.documents {
		doc.ID = id
	}
	s.chunks = meta.Chunks
	for _, chunk := range s.chunks {
		s.byVector[chunk.VectorIdx] = chunk
	}
	return nil
}
