package index

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/bintly"
)

// EncodeBinary encodes the index to a binary stream.
func (i *Index) EncodeBinary(stream *bintly.Writer) error {
	stream.Int(i.dimension)
	stream.Int(len(i.vectors))
	for _, vector := range i.vectors {
		for _, value := range vector {
			stream.Float32(value)
		}
	}
	return nil
}

// DecodeBinary decodes the index from a binary stream. The header is checked
// against payloadSize before anything is allocated, so a corrupt file cannot
// drive allocations beyond the data that is actually present.
func (i *Index) DecodeBinary(stream *bintly.Reader) error {
	var dimension, count int
	stream.Int(&dimension)
	stream.Int(&count)
	if dimension < 0 || count < 0 {
		return fmt.Errorf("%w: dimension %d, count %d", ErrCorrupt, dimension, count)
	}
	if limit := i.payloadSize; limit > 0 && count > 0 {
		// at most limit/4 float32 values can follow the header
		values := limit / 4
		if dimension == 0 || count > values/dimension {
			return fmt.Errorf("%w: header claims %d vectors of dimension %d in %d bytes", ErrCorrupt, count, dimension, limit)
		}
	}
	vectors := make([][]float32, count)
	for n := 0; n < count; n++ {
		vector := make([]float32, dimension)
		for j := range vector {
			stream.Float32(&vector[j])
		}
		vectors[n] = vector
	}
	i.dimension = dimension
	i.vectors = vectors
	return nil
}

// fileMagic identifies the on-disk index format.
const fileMagic = "corpusidx1"

// Persist writes the index to the given URL, replacing any previous file.
func (i *Index) Persist(ctx context.Context, URL string) error {
	encoded, err := bintly.Marshal(i)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	data := append([]byte(fileMagic), encoded...)
	fs := afs.New()
	if ok, _ := fs.Exists(ctx, URL); ok {
		_ = fs.Delete(ctx, URL)
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to persist index %v: %w", URL, err)
	}
	return nil
}

// Load reads the index from the given URL. A missing file leaves the index
// empty; undecodable data is reported as ErrCorrupt.
func (i *Index) Load(ctx context.Context, URL string) error {
	fs := afs.New()
	if ok, _ := fs.Exists(ctx, URL); !ok {
		return nil
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to read index %v: %w", URL, err)
	}
	if len(data) < len(fileMagic) || string(data[:len(fileMagic)]) != fileMagic {
		return fmt.Errorf("%w: %v: missing header", ErrCorrupt, URL)
	}
	payload := data[len(fileMagic):]
	i.payloadSize = len(payload)
	defer func() { i.payloadSize = 0 }()
	if err := bintly.Unmarshal(payload, i); err != nil {
		return fmt.Errorf("%w: %v: %v", ErrCorrupt, URL, err)
	}
	return nil
}
