package source

import "errors"

var (
	// ErrNotFound is returned by row look-ups when no row with the
	// given id exists. Consumers treat it as the normal "entity gone"
	// signal, not as a failure.
	ErrNotFound = errors.New("source row not found")

	// ErrMissingID is returned when a row is saved with a missing /
	// invalid primary key.
	ErrMissingID = errors.New("row has missing / invalid id")
)
