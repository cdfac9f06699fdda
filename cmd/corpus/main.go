package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/viant/corpus/embeddings"
	"github.com/viant/corpus/embeddings/ollama"
	"github.com/viant/corpus/embeddings/openai"
	"github.com/viant/corpus/engine"
	"github.com/viant/corpus/export"
)

func main() {
	startGops()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "add":
		addCmd(os.Args[2:])
	case "search":
		searchCmd(os.Args[2:])
	case "query":
		searchCmd(os.Args[2:])
	case "summary":
		summaryCmd(os.Args[2:])
	case "export":
		exportCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: corpus <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  add      Ingest a document file into the corpus")
	fmt.Fprintln(os.Stderr, "  search   Retrieve chunks relevant to a query")
	fmt.Fprintln(os.Stderr, "  query    Alias for search")
	fmt.Fprintln(os.Stderr, "  summary  Show per-category document counts")
	fmt.Fprintln(os.Stderr, "  export   Export documents, chunks and embeddings to SQLite")
}

func addCmd(args []string) {
	flags := flag.NewFlagSet("add", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	baseURL := flags.String("base", "", "state folder (defaults to ~/.corpus)")
	file := flags.String("file", "", "document file to ingest (required)")
	category := flags.String("category", "", "document category (defaults to general)")
	model := flags.String("model", "", "embedding model")
	embedderName := flags.String("embedder", "", "embedder: openai|ollama")
	apiKey := flags.String("openai-key", "", "OpenAI API key (optional, defaults to OPENAI_API_KEY)")
	flags.Parse(args)

	if *file == "" {
		flags.Usage()
		os.Exit(2)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng := buildEngine(ctx, *configPath, *baseURL, *embedderName, *apiKey, *model)
	id, err := eng.IngestFile(ctx, *file, *category)
	if err != nil {
		var persistErr *engine.PersistError
		if !errors.As(err, &persistErr) {
			log.Fatalf("add: %v", err)
		}
		log.Printf("add: %v", persistErr)
	}
	fmt.Printf("ingested %v as %v\n", *file, id)
}

func searchCmd(args []string) {
	flags := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	baseURL := flags.String("base", "", "state folder (defaults to ~/.corpus)")
	query := flags.String("query", "", "query text (required)")
	prompt := flags.String("prompt", "", "alias for --query")
	category := flags.String("category", "", "restrict results to a category")
	topK := flags.Int("top-k", 0, "max results (defaults to config)")
	minScore := flags.Float64("min-score", -1, "minimum similarity score (defaults to config)")
	model := flags.String("model", "", "embedding model")
	embedderName := flags.String("embedder", "", "embedder: openai|ollama")
	apiKey := flags.String("openai-key", "", "OpenAI API key (optional, defaults to OPENAI_API_KEY)")
	flags.Parse(args)

	if *query == "" && *prompt != "" {
		*query = *prompt
	}
	if *query == "" {
		flags.Usage()
		os.Exit(2)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng := buildEngine(ctx, *configPath, *baseURL, *embedderName, *apiKey, *model)
	var opts []engine.SearchOption
	if *category != "" {
		opts = append(opts, engine.WithCategory(*category))
	}
	if *topK > 0 {
		opts = append(opts, engine.WithTopK(*topK))
	}
	if *minScore >= 0 {
		opts = append(opts, engine.WithThreshold(*minScore))
	}
	results, err := eng.Search(ctx, *query, opts...)
	if err != nil {
		log.Fatalf("search: %v", err)
	}
	if len(results) == 0 {
		fmt.Println("no matching chunks")
		return
	}
	for _, item := range results {
		out := item.Content
		if len(out) > 200 {
			out = out[:200] + "..."
		}
		fmt.Printf("doc=%s chunk=%d score=%.4f source=%s category=%s\n%s\n\n",
			item.DocID, item.ChunkIdx, item.Score, item.Source, item.Category, out)
	}
}

func summaryCmd(args []string) {
	flags := flag.NewFlagSet("summary", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	baseURL := flags.String("base", "", "state folder (defaults to ~/.corpus)")
	category := flags.String("category", "", "restrict summary to a category")
	flags.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// summary never embeds, a noop embedder keeps engine construction uniform
	eng := buildEngineWith(ctx, *configPath, *baseURL, noopEmbedder{})
	fmt.Println(eng.Summary(*category))
}

func exportCmd(args []string) {
	flags := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	baseURL := flags.String("base", "", "state folder (defaults to ~/.corpus)")
	dbPath := flags.String("db", "", "SQLite database path (required)")
	flags.Parse(args)

	if *dbPath == "" {
		flags.Usage()
		os.Exit(2)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng := buildEngineWith(ctx, *configPath, *baseURL, noopEmbedder{})
	documents, chunks, vectors := eng.Snapshot()
	if err := export.SQLite(ctx, *dbPath, documents, chunks, vectors); err != nil {
		log.Fatalf("export: %v", err)
	}
	fmt.Printf("exported %d documents and %d chunks to %v\n", len(documents), len(chunks), *dbPath)
}

func loadEngineConfig(configPath, baseURL string) *engine.Config {
	cfg := engine.NewConfig()
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return cfg
}

func buildEngine(ctx context.Context, configPath, baseURL, embedderName, apiKey, model string) *engine.Engine {
	cfg := loadEngineConfig(configPath, baseURL)
	emb, err := selectEmbedder(ctx, cfg, embedderName, apiKey, model)
	if err != nil {
		log.Fatalf("embedder: %v", err)
	}
	return buildEngineWithConfig(ctx, cfg, emb)
}

func buildEngineWith(ctx context.Context, configPath, baseURL string, emb embeddings.Embedder) *engine.Engine {
	return buildEngineWithConfig(ctx, loadEngineConfig(configPath, baseURL), emb)
}

func buildEngineWithConfig(ctx context.Context, cfg *engine.Config, emb embeddings.Embedder) *engine.Engine {
	eng, err := engine.New(cfg, emb)
	if err != nil {
		log.Fatalf("engine init: %v", err)
	}
	if err := eng.Load(ctx); err != nil {
		log.Fatalf("engine load: %v", err)
	}
	return eng
}

func selectEmbedder(ctx context.Context, cfg *engine.Config, name, apiKey, model string) (embeddings.Embedder, error) {
	if name == "" {
		name = cfg.Embedder.Provider
	}
	if model == "" {
		model = cfg.Embedder.Model
	}
	if apiKey == "" {
		apiKey = cfg.Embedder.APIKey
	}
	apiKey, err := engine.ExpandAPIKeyWithSecret(ctx, apiKey, cfg.Embedder.Secret)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ollama":
		return &ollama.Embedder{C: ollama.NewClient(model, cfg.Embedder.BaseURL)}, nil
	case "", "openai":
		return &openai.Embedder{C: openai.NewClient(apiKey, model)}, nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", name)
	}
}

// noopEmbedder backs commands that only read persisted state.
type noopEmbedder struct{}

func (noopEmbedder) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedding not available for this command")
}

func (noopEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding not available for this command")
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}
