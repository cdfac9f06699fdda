package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInit(t *testing.T) {
	cfg := NewConfig()
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 || cfg.TopK != 5 || cfg.SimilarityThreshold != 0.7 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.BaseURL == "" {
		t.Error("expected default base URL")
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		description string
		config      Config
		expectError string
	}{
		{
			description: "valid",
			config:      Config{ChunkSize: 1000, ChunkOverlap: 200, TopK: 5},
		},
		{
			description: "overlap equals chunk size",
			config:      Config{ChunkSize: 200, ChunkOverlap: 200, TopK: 5},
			expectError: "chunkOverlap",
		},
		{
			description: "negative overlap",
			config:      Config{ChunkSize: 1000, ChunkOverlap: -1, TopK: 5},
			expectError: "chunkOverlap",
		},
		{
			description: "zero topK",
			config:      Config{ChunkSize: 1000, ChunkOverlap: 200, TopK: -3},
			expectError: "topK",
		},
		{
			description: "negative dimension",
			config:      Config{ChunkSize: 1000, ChunkOverlap: 200, TopK: 5, Dimension: -1},
			expectError: "dimension",
		},
	}
	for _, tc := range testCases {
		err := tc.config.Validate()
		if tc.expectError == "" {
			if err != nil {
				t.Errorf("%v: unexpected error: %v", tc.description, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tc.expectError) {
			t.Errorf("%v: expected error mentioning %q, got %v", tc.description, tc.expectError, err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
baseURL: ` + dir + `
chunkSize: 500
chunkOverlap: 100
topK: 3
similarityThreshold: 0.25
embedder:
  provider: ollama
  model: nomic-embed-text
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 100 || cfg.TopK != 3 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.SimilarityThreshold != 0.25 {
		t.Errorf("expected threshold override, got %v", cfg.SimilarityThreshold)
	}
	if cfg.Embedder.Provider != "ollama" || cfg.Embedder.Model != "nomic-embed-text" {
		t.Errorf("unexpected embedder config: %+v", cfg.Embedder)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunkSize: 100\nchunkOverlap: 100\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}
