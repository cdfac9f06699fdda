package index

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector does not match the
	// dimension fixed by the first vector ever added to the index.
	ErrDimensionMismatch = errors.New("index: vector dimension mismatch")

	// ErrCorrupt indicates the persisted index could not be decoded.
	ErrCorrupt = errors.New("index: persisted data corrupted")
)
