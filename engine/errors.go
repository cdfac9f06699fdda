package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument is returned when ingestion is given no extractable
	// text. No state is created.
	ErrEmptyDocument = errors.New("engine: document has no extractable text")

	// ErrEmbedderUnavailable wraps embedding capability failures. The
	// operation aborts cleanly with no partial mutation.
	ErrEmbedderUnavailable = errors.New("engine: embedder unavailable")
)

// PersistError reports that persistence failed after the in-memory state was
// already updated. The document counts as ingested for the rest of the
// process lifetime; the in-memory state is authoritative until restart.
type PersistError struct {
	Op    string
	DocID string
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("engine: %v %v succeeded in memory but persistence failed: %v", e.Op, e.DocID, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
