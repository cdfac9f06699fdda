// Package export writes a corpus snapshot to a SQLite database so that other
// tools can query documents, chunks and their embeddings with plain SQL.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/viant/corpus/docstore"
	"github.com/viant/sqlite-vec/vector"
	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    category TEXT NOT NULL,
    upload_time TEXT NOT NULL,
    chunk_count INTEGER NOT NULL,
    start_idx INTEGER NOT NULL,
    end_idx INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
    vector_idx INTEGER PRIMARY KEY,
    doc_id TEXT NOT NULL REFERENCES documents(id),
    chunk_idx INTEGER NOT NULL,
    content TEXT NOT NULL,
    embedding BLOB
);
`

// SQLite writes documents, chunks and their embedding vectors to the SQLite
// database at dsn, replacing any previous export. Embeddings are stored as
// little-endian float32 BLOBs. The vectors slice is positional: vectors[i]
// belongs to chunks[i].
func SQLite(ctx context.Context, dsn string, documents []*docstore.Document, chunks []*docstore.Chunk, vectors [][]float32) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("export: %d vectors for %d chunks", len(vectors), len(chunks))
	}
	db, err := sql.Open("sqlite", ensurePragmas(dsn))
	if err != nil {
		return fmt.Errorf("export: open %v: %w", dsn, err)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("export: create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"chunks", "documents"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("export: clear %v: %w", table, err)
		}
	}
	docStmt, err := tx.PrepareContext(ctx, `INSERT INTO documents(id, filename, category, upload_time, chunk_count, start_idx, end_idx) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer docStmt.Close()
	for _, doc := range documents {
		if _, err := docStmt.ExecContext(ctx, doc.ID, doc.Filename, doc.Category, doc.UploadTime.UTC().Format("2006-01-02T15:04:05Z07:00"), doc.ChunkCount, doc.StartIdx, doc.EndIdx); err != nil {
			return fmt.Errorf("export: document %v: %w", doc.ID, err)
		}
	}
	chunkStmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks(vector_idx, doc_id, chunk_idx, content, embedding) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer chunkStmt.Close()
	for i, chunk := range chunks {
		embedding, err := vector.EncodeEmbedding(vectors[i])
		if err != nil {
			return fmt.Errorf("export: chunk %d: %w", chunk.VectorIdx, err)
		}
		if _, err := chunkStmt.ExecContext(ctx, chunk.VectorIdx, chunk.DocID, chunk.ChunkIdx, chunk.Content, embedding); err != nil {
			return fmt.Errorf("export: chunk %d: %w", chunk.VectorIdx, err)
		}
	}
	return tx.Commit()
}

const busyTimeoutMS = 5000

// ensurePragmas appends WAL journaling and a busy timeout to file-backed
// DSNs, leaving in-memory databases and caller overrides alone.
func ensurePragmas(dsn string) string {
	lower := strings.ToLower(dsn)
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(lower, "file::memory:") {
		return dsn
	}
	if !strings.Contains(lower, "_pragma=journal_mode") {
		dsn = addPragma(dsn, "journal_mode(WAL)")
	}
	if !strings.Contains(lower, "_pragma=busy_timeout") {
		dsn = addPragma(dsn, fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	}
	return dsn
}

func addPragma(dsn, pragma string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=" + pragma
}
