package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/viant/bintly"
)

func TestIndexAdd(t *testing.T) {
	idx := New()
	offset, err := idx.Add([][]float32{{1, 0, 0}, {0, 1, 0}})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if offset != 0 {
		t.Errorf("expected offset 0, got %d", offset)
	}
	if idx.Dimension() != 3 {
		t.Errorf("expected dimension 3, got %d", idx.Dimension())
	}
	offset, err = idx.Add([][]float32{{0, 0, 1}})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if offset != 2 {
		t.Errorf("expected offset 2, got %d", offset)
	}
	if idx.Len() != 3 {
		t.Errorf("expected 3 vectors, got %d", idx.Len())
	}
}

func TestIndexAddDimensionMismatch(t *testing.T) {
	idx := New()
	if _, err := idx.Add([][]float32{{1, 2}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// batch with one bad vector must not partially mutate the index
	_, err := idx.Add([][]float32{{3, 4}, {5, 6, 7}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("expected index unchanged at 1 vector, got %d", idx.Len())
	}
}

func TestIndexAddFixedDimension(t *testing.T) {
	idx := New(WithDimension(4))
	if _, err := idx.Add([][]float32{{1, 2, 3}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestIndexSearch(t *testing.T) {
	testCases := []struct {
		name              string
		vectors           [][]float32
		query             []float32
		k                 int
		expectedPositions []int
	}{
		{
			name:              "empty index",
			vectors:           nil,
			query:             []float32{1, 0},
			k:                 5,
			expectedPositions: nil,
		},
		{
			name:              "ranked by inner product",
			vectors:           [][]float32{{0, 1}, {2, 0}, {1, 0}},
			query:             []float32{1, 0},
			k:                 3,
			expectedPositions: []int{1, 2, 0},
		},
		{
			name:              "k truncates",
			vectors:           [][]float32{{3, 0}, {2, 0}, {1, 0}},
			query:             []float32{1, 0},
			k:                 2,
			expectedPositions: []int{0, 1},
		},
		{
			name:              "k beyond size returns all",
			vectors:           [][]float32{{1, 0}},
			query:             []float32{1, 0},
			k:                 10,
			expectedPositions: []int{0},
		},
		{
			name:              "exact ties rank earlier insert first",
			vectors:           [][]float32{{1, 1}, {0, 5}, {1, 1}},
			query:             []float32{1, 1},
			k:                 3,
			expectedPositions: []int{1, 0, 2},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			idx := New()
			if len(tc.vectors) > 0 {
				if _, err := idx.Add(tc.vectors); err != nil {
					t.Fatalf("Add failed: %v", err)
				}
			}
			hits, err := idx.Search(tc.query, tc.k)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if len(hits) != len(tc.expectedPositions) {
				t.Fatalf("expected %d hits, got %d", len(tc.expectedPositions), len(hits))
			}
			for n, hit := range hits {
				if hit.Position != tc.expectedPositions[n] {
					t.Errorf("hit %d: expected position %d, got %d", n, tc.expectedPositions[n], hit.Position)
				}
				if n > 0 && hit.Score > hits[n-1].Score {
					t.Errorf("hit %d: scores not descending", n)
				}
			}
		})
	}
}

func TestIndexSearchQueryDimensionMismatch(t *testing.T) {
	idx := New()
	if _, err := idx.Add([][]float32{{1, 2, 3}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := idx.Search([]float32{1, 2}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	URL := filepath.Join(t.TempDir(), "index.bin")

	idx := New()
	if _, err := idx.Add([][]float32{{1, 2, 3}, {4, 5, 6}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := idx.Persist(ctx, URL); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded := New()
	if err := loaded.Load(ctx, URL); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Len() != 2 || loaded.Dimension() != 3 {
		t.Fatalf("expected 2 vectors of dimension 3, got %d of %d", loaded.Len(), loaded.Dimension())
	}
	hits, err := loaded.Search([]float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 || hits[0].Position != 1 {
		t.Fatalf("expected position 1 best, got %+v", hits)
	}
}

func TestIndexRoundTripEmptyFixedDimension(t *testing.T) {
	ctx := context.Background()
	URL := filepath.Join(t.TempDir(), "index.bin")

	idx := New(WithDimension(1536))
	if err := idx.Persist(ctx, URL); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	loaded := New()
	if err := loaded.Load(ctx, URL); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Len() != 0 || loaded.Dimension() != 1536 {
		t.Fatalf("expected empty index of dimension 1536, got %d of %d", loaded.Len(), loaded.Dimension())
	}
}

func TestIndexLoadMissing(t *testing.T) {
	idx := New()
	if err := idx.Load(context.Background(), filepath.Join(t.TempDir(), "absent.bin")); err != nil {
		t.Fatalf("expected missing file to leave index empty, got %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("expected empty index, got %d", idx.Len())
	}
}

func TestIndexLoadCorrupt(t *testing.T) {
	URL := filepath.Join(t.TempDir(), "index.bin")
	if err := os.WriteFile(URL, []byte("not an index"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	idx := New()
	if err := idx.Load(context.Background(), URL); err == nil {
		t.Fatal("expected error for corrupt index file")
	}
}

// indexHeader writes an index header without any vector data.
type indexHeader struct {
	dimension int
	count     int
}

func (h *indexHeader) EncodeBinary(stream *bintly.Writer) error {
	stream.Int(h.dimension)
	stream.Int(h.count)
	return nil
}

func TestIndexLoadImplausibleHeader(t *testing.T) {
	// a valid magic with a header claiming far more vectors than the file
	// holds must be rejected before any allocation, not crash the process
	testCases := []struct {
		name      string
		dimension int
		count     int
	}{
		{name: "huge count", dimension: 1 << 40, count: 1 << 40},
		{name: "count beyond payload", dimension: 3, count: 1 << 30},
		{name: "product overflow", dimension: 1 << 62, count: 1 << 62},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := bintly.Marshal(&indexHeader{dimension: tc.dimension, count: tc.count})
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			URL := filepath.Join(t.TempDir(), "index.bin")
			if err := os.WriteFile(URL, append([]byte(fileMagic), encoded...), 0o644); err != nil {
				t.Fatalf("write index file: %v", err)
			}
			idx := New()
			if err := idx.Load(context.Background(), URL); !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
			if idx.Len() != 0 {
				t.Errorf("expected empty index, got %d", idx.Len())
			}
		})
	}
}
