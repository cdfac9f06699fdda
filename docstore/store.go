// Package docstore keeps document and chunk records aligned with the vector
// index: every chunk knows the absolute index position its embedding occupies.
package docstore

import (
	"fmt"
	"time"
)

// Document describes one ingested document. Its chunks occupy the contiguous
// vector index range [StartIdx, EndIdx). Records are immutable once created.
type Document struct {
	ID         string    `json:"-"`
	Filename   string    `json:"filename"`
	Category   string    `json:"category"`
	UploadTime time.Time `json:"upload_time"`
	ChunkCount int       `json:"chunk_count"`
	StartIdx   int       `json:"start_idx"`
	EndIdx     int       `json:"end_idx"`
}

// Chunk is one bounded slice of a document's text. VectorIdx is the absolute
// position of its embedding in the vector index.
type Chunk struct {
	DocID     string `json:"doc_id"`
	ChunkIdx  int    `json:"chunk_idx"`
	Content   string `json:"content"`
	VectorIdx int    `json:"vector_idx"`
}

// Store holds all document and chunk records in memory. It is not safe for
// concurrent use on its own; the engine guards it together with the vector
// index so both are always observed in a consistent state.
type Store struct {
	baseURL   string
	documents map[string]*Document
	chunks    []*Chunk
	byVector  map[int]*Chunk
}

// New creates an empty store persisting under baseURL.
func New(baseURL string) *Store {
	return &Store{
		baseURL:   baseURL,
		documents: make(map[string]*Document),
		byVector:  make(map[int]*Chunk),
	}
}

// Register records a new document. It fails with ErrAlreadyExists when the
// identifier is already known.
func (s *Store) Register(id, filename, category string, chunkCount, startIdx int) (*Document, error) {
	if _, ok := s.documents[id]; ok {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyExists, id)
	}
	doc := &Document{
		ID:         id,
		Filename:   filename,
		Category:   category,
		UploadTime: time.Now(),
		ChunkCount: chunkCount,
		StartIdx:   startIdx,
		EndIdx:     startIdx + chunkCount,
	}
	s.documents[id] = doc
	return doc, nil
}

// AppendChunks creates chunk records for a registered document, assigning
// vector index positions startOffset, startOffset+1, ... in order.
func (s *Store) AppendChunks(id string, texts []string, startOffset int) error {
	if _, ok := s.documents[id]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownDocument, id)
	}
	for i, text := range texts {
		chunk := &Chunk{
			DocID:     id,
			ChunkIdx:  i,
			Content:   text,
			VectorIdx: startOffset + i,
		}
		s.chunks = append(s.chunks, chunk)
		s.byVector[chunk.VectorIdx] = chunk
	}
	return nil
}

// Document returns the record for the given identifier.
func (s *Store) Document(id string) (*Document, bool) {
	doc, ok := s.documents[id]
	return doc, ok
}

// ChunkAt resolves a vector index position back to its chunk.
func (s *Store) ChunkAt(vectorIdx int) (*Chunk, bool) {
	chunk, ok := s.byVector[vectorIdx]
	return chunk, ok
}

// DocumentCount returns the number of registered documents.
func (s *Store) DocumentCount() int {
	return len(s.documents)
}

// ChunkCount returns the total number of chunk records.
func (s *Store) ChunkCount() int {
	return len(s.chunks)
}

// Documents returns all document records.
func (s *Store) Documents() []*Document {
	out := make([]*Document, 0, len(s.documents))
	for _, doc := range s.documents {
		out = append(out, doc)
	}
	return out
}

// Chunks returns all chunk records in vector index order.
func (s *Store) Chunks() []*Chunk {
	return s.chunks
}

func (s *Store) reset() {
	s.documents = make(map[string]*Document)
	s.chunks = nil
	s.byVector = make(map[int]*Chunk)
}
