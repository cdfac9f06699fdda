// Package engine coordinates the chunker, the vector index and the document
// store so that the three stay consistent under concurrent ingestion and
// search.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/viant/corpus/chunker"
	"github.com/viant/corpus/docstore"
	"github.com/viant/corpus/embeddings"
	"github.com/viant/corpus/index"
	"github.com/viant/corpus/schema"
)

const defaultCategory = "general"

// Engine is the ingestion and retrieval orchestrator. The vector index and
// the document store form one shared resource: ingestion takes the write
// lock for the whole embed, add, register, persist sequence, searches share
// the read lock so they always observe index and metadata in agreement.
type Engine struct {
	config   *Config
	embedder embeddings.Embedder
	index    *index.Index
	store    *docstore.Store
	mux      sync.RWMutex
}

// New creates an engine with a validated config and an embedding capability.
func New(config *Config, embedder embeddings.Embedder) (*Engine, error) {
	if config == nil {
		config = NewConfig()
	}
	config.Init()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, fmt.Errorf("engine: embedder is required")
	}
	return &Engine{
		config:   config,
		embedder: embedder,
		index:    index.New(index.WithDimension(config.Dimension)),
		store:    docstore.New(config.BaseURL),
	}, nil
}

// Ingest chunks rawText, embeds all chunks in one batch, appends the vectors
// to the index and records document and chunk metadata, then persists both
// files together. Re-ingesting known content returns the existing identifier
// without touching any state. On embedding or index failure nothing is
// mutated. A *PersistError return means the document was ingested in memory
// but could not be saved.
func (e *Engine) Ingest(ctx context.Context, rawText, filename, category string) (string, error) {
	if strings.TrimSpace(rawText) == "" {
		return "", fmt.Errorf("%w: %v", ErrEmptyDocument, filename)
	}
	if category == "" {
		category = defaultCategory
	}
	e.mux.Lock()
	defer e.mux.Unlock()

	id := docstore.Identifier(rawText, filename)
	if _, ok := e.store.Document(id); ok {
		return id, nil
	}
	chunks := chunker.Split(rawText, e.config.ChunkSize, e.config.ChunkOverlap)
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: %v", ErrEmptyDocument, filename)
	}
	vectors, err := e.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("%w: ingest %v: %v", ErrEmbedderUnavailable, filename, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(vectors) != len(chunks) {
		return "", fmt.Errorf("%w: ingest %v: got %d vectors for %d chunks", ErrEmbedderUnavailable, filename, len(vectors), len(chunks))
	}
	offset, err := e.index.Add(vectors)
	if err != nil {
		return "", fmt.Errorf("ingest %v: %w", filename, err)
	}
	if _, err := e.store.Register(id, filename, category, len(chunks), offset); err != nil {
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return id, nil
		}
		return "", fmt.Errorf("ingest %v: %w", filename, err)
	}
	if err := e.store.AppendChunks(id, chunks, offset); err != nil {
		return "", fmt.Errorf("ingest %v: %w", filename, err)
	}
	if err := e.persist(ctx); err != nil {
		return id, &PersistError{Op: "ingest", DocID: id, Err: err}
	}
	return id, nil
}

// Search embeds the query, ranks stored vectors by inner product and joins
// the hits with their chunk and document records, filtered by category and
// similarity threshold. An empty index or nothing passing the filters yields
// an empty result, not an error. No extra candidates are fetched before
// filtering, so a narrow category filter may return fewer than topK results.
func (e *Engine) Search(ctx context.Context, query string, opts ...SearchOption) ([]schema.Result, error) {
	options := newSearchOptions(e.config, opts)
	queryVector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrEmbedderUnavailable, err)
	}
	e.mux.RLock()
	defer e.mux.RUnlock()

	if e.index.Len() == 0 {
		return nil, nil
	}
	hits, err := e.index.Search(queryVector, options.topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	results := make([]schema.Result, 0, len(hits))
	for _, hit := range hits {
		chunk, ok := e.store.ChunkAt(hit.Position)
		if !ok {
			// a hit without metadata should not happen under the engine's
			// invariants
			log.Printf("engine: no chunk for vector index %d, skipping", hit.Position)
			continue
		}
		doc, ok := e.store.Document(chunk.DocID)
		if !ok {
			log.Printf("engine: no document %v for vector index %d, skipping", chunk.DocID, hit.Position)
			continue
		}
		if options.category != "" && doc.Category != options.category {
			continue
		}
		if hit.Score < options.threshold {
			continue
		}
		results = append(results, schema.Result{
			Content:  chunk.Content,
			Score:    hit.Score,
			Source:   doc.Filename,
			Category: doc.Category,
			DocID:    chunk.DocID,
			ChunkIdx: chunk.ChunkIdx,
		})
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	return results, nil
}

// Summary renders aggregate per-category document counts, optionally
// filtered to one category.
func (e *Engine) Summary(category string) string {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.store.Summarize(category).String()
}

// Load reads the persisted index and metadata. Corrupt or disagreeing state
// is recovered by starting empty, never by failing the process.
func (e *Engine) Load(ctx context.Context) error {
	e.mux.Lock()
	defer e.mux.Unlock()
	if err := e.store.Load(ctx); err != nil {
		return err
	}
	loaded := index.New(index.WithDimension(e.config.Dimension))
	if err := loaded.Load(ctx, e.config.IndexURL()); err != nil {
		log.Printf("engine: %v, starting empty", err)
		loaded = index.New(index.WithDimension(e.config.Dimension))
		e.store = docstore.New(e.config.BaseURL)
	}
	e.index = loaded
	if e.index.Len() != e.store.ChunkCount() {
		log.Printf("engine: index has %d vectors but metadata has %d chunks, starting empty", e.index.Len(), e.store.ChunkCount())
		e.index = index.New(index.WithDimension(e.config.Dimension))
		e.store = docstore.New(e.config.BaseURL)
	}
	return nil
}

// Persist writes the current index and metadata together.
func (e *Engine) Persist(ctx context.Context) error {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.persist(ctx)
}

func (e *Engine) persist(ctx context.Context) error {
	if err := e.index.Persist(ctx, e.config.IndexURL()); err != nil {
		return err
	}
	return e.store.Save(ctx)
}

// Snapshot returns copies of the current document, chunk and vector state
// observed under one read lock, for export and inspection.
func (e *Engine) Snapshot() ([]*docstore.Document, []*docstore.Chunk, [][]float32) {
	e.mux.RLock()
	defer e.mux.RUnlock()
	docs := e.store.Documents()
	chunks := e.store.Chunks()
	vectors := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		vectors = append(vectors, e.index.Vector(chunk.VectorIdx))
	}
	return docs, chunks, vectors
}
