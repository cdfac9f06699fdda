package docstore

import "errors"

var (
	// ErrAlreadyExists is returned when registering a document identifier
	// that is already known. Callers ingesting idempotently treat it as
	// success.
	ErrAlreadyExists = errors.New("docstore: document already exists")

	// ErrUnknownDocument indicates chunks were appended for an identifier
	// that was never registered.
	ErrUnknownDocument = errors.New("docstore: unknown document")

	// ErrCorruptState indicates the persisted metadata could not be decoded.
	ErrCorruptState = errors.New("docstore: persisted metadata corrupted")
)
