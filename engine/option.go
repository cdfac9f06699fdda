package engine

// SearchOption refines a search beyond the configured defaults.
type SearchOption func(*searchOptions)

type searchOptions struct {
	category  string
	topK      int
	threshold float64
}

// WithCategory keeps only results whose document category equals category.
func WithCategory(category string) SearchOption {
	return func(o *searchOptions) {
		o.category = category
	}
}

// WithTopK overrides the configured number of candidates.
func WithTopK(topK int) SearchOption {
	return func(o *searchOptions) {
		if topK > 0 {
			o.topK = topK
		}
	}
}

// WithThreshold overrides the configured minimum similarity score.
func WithThreshold(threshold float64) SearchOption {
	return func(o *searchOptions) {
		o.threshold = threshold
	}
}

func newSearchOptions(config *Config, opts []SearchOption) *searchOptions {
	options := &searchOptions{
		topK:      config.TopK,
		threshold: config.SimilarityThreshold,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
