package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/scy/cred/secret"
	"gopkg.in/yaml.v3"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
	defaultTopK         = 5
	defaultThreshold    = 0.7

	indexFile = "index.bin"
)

// EmbedderConfig selects and configures the embedding capability.
type EmbedderConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"apiKey,omitempty"`
	Secret   string `yaml:"secret,omitempty"`
	BaseURL  string `yaml:"baseURL,omitempty"`
}

// Config enumerates the recognized engine options. Zero values are filled
// with defaults by Init; Validate rejects inconsistent combinations.
type Config struct {
	BaseURL             string         `yaml:"baseURL"`
	ChunkSize           int            `yaml:"chunkSize"`
	ChunkOverlap        int            `yaml:"chunkOverlap"`
	TopK                int            `yaml:"topK"`
	SimilarityThreshold float64        `yaml:"similarityThreshold"`
	Dimension           int            `yaml:"dimension,omitempty"`
	Embedder            EmbedderConfig `yaml:"embedder,omitempty"`
}

// NewConfig returns a config populated with defaults.
func NewConfig() *Config {
	cfg := &Config{SimilarityThreshold: defaultThreshold}
	cfg.Init()
	return cfg
}

// Init fills unset options with defaults.
func (c *Config) Init() {
	if c.ChunkSize == 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = defaultChunkOverlap
	}
	if c.TopK == 0 {
		c.TopK = defaultTopK
	}
	if c.BaseURL == "" {
		c.BaseURL = url.Join(os.Getenv("HOME"), ".corpus")
	}
}

// Validate checks option consistency.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunkSize must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("config: chunkOverlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: chunkOverlap %d must be smaller than chunkSize %d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("config: topK must be positive, got %d", c.TopK)
	}
	if c.Dimension < 0 {
		return fmt.Errorf("config: dimension must not be negative, got %d", c.Dimension)
	}
	return nil
}

// IndexURL returns the vector index file location.
func (c *Config) IndexURL() string {
	return url.Join(c.BaseURL, indexFile)
}

// LoadConfig reads a YAML config from path, expanding a leading ~.
func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{SimilarityThreshold: defaultThreshold}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %v: %w", path, err)
	}
	if cfg.BaseURL != "" {
		if cfg.BaseURL, err = expandUserPath(cfg.BaseURL); err != nil {
			return nil, err
		}
	}
	cfg.Init()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ExpandAPIKeyWithSecret loads a secret and expands placeholders in the
// configured API key.
func ExpandAPIKeyWithSecret(ctx context.Context, apiKey, secretRef string) (string, error) {
	secretRef = strings.TrimSpace(secretRef)
	if secretRef == "" {
		return apiKey, nil
	}
	if strings.TrimSpace(apiKey) == "" {
		return "", fmt.Errorf("secret %q provided but apiKey is empty", secretRef)
	}
	svc := secret.New()
	sec, err := svc.Lookup(ctx, secret.Resource(secretRef))
	if err != nil {
		return "", err
	}
	return sec.Expand(apiKey), nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	if !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	return filepath.Join(home, trimmed[2:]), nil
}
