package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIdentifier(t *testing.T) {
	first := Identifier("content", "title.txt")
	second := Identifier("content", "title.txt")
	if first != second {
		t.Errorf("expected stable identifier, got %v and %v", first, second)
	}
	if !strings.HasPrefix(first, "doc_") || len(first) != len("doc_")+12 {
		t.Errorf("unexpected identifier format: %v", first)
	}
	if Identifier("content", "other.txt") == first {
		t.Error("expected distinct identifier for different title")
	}
	if Identifier("other content", "title.txt") == first {
		t.Error("expected distinct identifier for different content")
	}
}

func TestStoreRegister(t *testing.T) {
	store := New("")
	doc, err := store.Register("doc_1", "a.txt", "notes", 3, 10)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if doc.StartIdx != 10 || doc.EndIdx != 13 {
		t.Errorf("expected range [10,13), got [%d,%d)", doc.StartIdx, doc.EndIdx)
	}
	if _, err := store.Register("doc_1", "b.txt", "notes", 1, 13); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestStoreAppendChunks(t *testing.T) {
	store := New("")
	if err := store.AppendChunks("doc_missing", []string{"x"}, 0); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("expected ErrUnknownDocument, got %v", err)
	}
	if _, err := store.Register("doc_1", "a.txt", "notes", 2, 5); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.AppendChunks("doc_1", []string{"first", "second"}, 5); err != nil {
		t.Fatalf("AppendChunks failed: %v", err)
	}
	chunk, ok := store.ChunkAt(6)
	if !ok {
		t.Fatal("expected chunk at vector index 6")
	}
	if chunk.Content != "second" || chunk.ChunkIdx != 1 || chunk.DocID != "doc_1" {
		t.Errorf("unexpected chunk: %+v", chunk)
	}
	if _, ok := store.ChunkAt(7); ok {
		t.Error("expected no chunk at vector index 7")
	}
}

func TestStoreSummarize(t *testing.T) {
	store := New("")
	mustRegister(t, store, "doc_a", "a.txt", "faq", 2, 0)
	mustRegister(t, store, "doc_b", "b.txt", "faq", 1, 2)
	mustRegister(t, store, "doc_c", "c.txt", "policy", 4, 3)
	_ = store.AppendChunks("doc_a", []string{"1", "2"}, 0)
	_ = store.AppendChunks("doc_b", []string{"3"}, 2)
	_ = store.AppendChunks("doc_c", []string{"4", "5", "6", "7"}, 3)

	summary := store.Summarize("")
	if summary.TotalDocuments != 3 || summary.TotalChunks != 7 {
		t.Errorf("expected 3 documents and 7 chunks, got %d and %d", summary.TotalDocuments, summary.TotalChunks)
	}
	if len(summary.Categories["faq"]) != 2 || len(summary.Categories["policy"]) != 1 {
		t.Errorf("unexpected category split: %+v", summary.Categories)
	}

	filtered := store.Summarize("policy")
	if len(filtered.Categories) != 1 || len(filtered.Categories["policy"]) != 1 {
		t.Errorf("expected policy only, got %+v", filtered.Categories)
	}

	text := summary.String()
	if !strings.Contains(text, "faq (2 documents)") || !strings.Contains(text, "total: 3 documents, 7 chunks") {
		t.Errorf("unexpected rendering:\n%v", text)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	baseURL := t.TempDir()

	store := New(baseURL)
	mustRegister(t, store, "doc_1", "a.txt", "notes", 2, 0)
	if err := store.AppendChunks("doc_1", []string{"alpha", "beta"}, 0); err != nil {
		t.Fatalf("AppendChunks failed: %v", err)
	}
	if err := store.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := New(baseURL)
	if err := loaded.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	doc, ok := loaded.Document("doc_1")
	if !ok {
		t.Fatal("expected doc_1 after load")
	}
	if doc.ID != "doc_1" || doc.ChunkCount != 2 || doc.EndIdx != 2 {
		t.Errorf("unexpected document: %+v", doc)
	}
	chunk, ok := loaded.ChunkAt(1)
	if !ok || chunk.Content != "beta" {
		t.Errorf("expected beta at vector index 1, got %+v", chunk)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.DocumentCount() != 0 || store.ChunkCount() != 0 {
		t.Error("expected empty store for missing metadata")
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	baseURL := t.TempDir()
	if err := os.WriteFile(filepath.Join(baseURL, "metadata.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write corrupt metadata: %v", err)
	}
	store := New(baseURL)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("expected corrupt metadata to recover empty, got %v", err)
	}
	if store.DocumentCount() != 0 || store.ChunkCount() != 0 {
		t.Error("expected empty store after corrupt load")
	}
	if _, err := store.Register("doc_1", "a.txt", "notes", 1, 0); err != nil {
		t.Fatalf("expected ingestion to work after corrupt load, got %v", err)
	}
}

func mustRegister(t *testing.T, store *Store, id, filename, category string, chunkCount, startIdx int) {
	t.Helper()
	if _, err := store.Register(id, filename, category, chunkCount, startIdx); err != nil {
		t.Fatalf("Register %v failed: %v", id, err)
	}
}
