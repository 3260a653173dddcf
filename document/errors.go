package document

import "errors"

var (
	// ErrNotFound is returned by the store when it attempts to look up
	// a document that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMissingKey is returned when a document is upserted with a
	// missing / invalid (entity type, id) key.
	ErrMissingKey = errors.New("document has missing / invalid key")

	// ErrUnknownEntityType is returned when an operation names an
	// entity type with no registered projector. The store is left
	// untouched in that case so that a typo'd or retired type can never
	// silently destroy an existing document.
	ErrUnknownEntityType = errors.New("unknown entity type")
)
