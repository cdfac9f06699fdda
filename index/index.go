// Package index implements an ordered, append-only flat index over
// fixed-dimension float vectors with unnormalized inner product search.
package index

import (
	"fmt"
	"sort"
)

// Hit is a single search match: the absolute position of a stored vector and
// its inner product score against the query.
type Hit struct {
	Position int
	Score    float64
}

// Index stores vectors in insertion order. The vector at position i never
// moves; positions are handed out contiguously by Add. Index is not safe for
// concurrent use; callers guard it together with the metadata it aligns with.
type Index struct {
	dimension int
	vectors   [][]float32
	// payloadSize bounds DecodeBinary allocations, set by Load from the
	// actual file size.
	payloadSize int
}

// Option configures a new Index.
type Option func(*Index)

// WithDimension fixes the vector dimension up front instead of inferring it
// from the first Add.
func WithDimension(dimension int) Option {
	return func(i *Index) {
		if dimension > 0 {
			i.dimension = dimension
		}
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	ret := &Index{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Len returns the number of stored vectors.
func (i *Index) Len() int {
	return len(i.vectors)
}

// Dimension returns the fixed vector dimension, or 0 when nothing has been
// added yet and no dimension was configured.
func (i *Index) Dimension() int {
	return i.dimension
}

// Vector returns a copy of the vector stored at position, or nil when the
// position is out of range.
func (i *Index) Vector(position int) []float32 {
	if position < 0 || position >= len(i.vectors) {
		return nil
	}
	out := make([]float32, len(i.vectors[position]))
	copy(out, i.vectors[position])
	return out
}

// Add appends vectors in order and returns the absolute position assigned to
// the first one. The first vectors ever added fix the dimension. On any
// mismatch the index is left untouched.
func (i *Index) Add(vectors [][]float32) (int, error) {
	if len(vectors) == 0 {
		return i.Len(), nil
	}
	dimension := i.dimension
	if dimension == 0 {
		dimension = len(vectors[0])
		if dimension == 0 {
			return 0, fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
		}
	}
	for pos, vector := range vectors {
		if len(vector) != dimension {
			return 0, fmt.Errorf("%w: got %d, index has %d (vector %d)", ErrDimensionMismatch, len(vector), dimension, pos)
		}
	}
	i.dimension = dimension
	offset := len(i.vectors)
	i.vectors = append(i.vectors, vectors...)
	return offset, nil
}

// Search returns the k highest inner product matches, descending by score,
// ties broken by ascending position. An empty index yields no hits; k larger
// than the index returns everything.
func (i *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(i.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != i.dimension {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), i.dimension)
	}
	hits := make([]Hit, len(i.vectors))
	for pos, vector := range i.vectors {
		hits[pos] = Hit{Position: pos, Score: dotProduct(query, vector)}
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Position < hits[b].Position
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func dotProduct(a, b []float32) float64 {
	var dot float64
	for idx := range a {
		dot += float64(a[idx]) * float64(b[idx])
	}
	return dot
}
