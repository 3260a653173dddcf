package cdb

import (
	"database/sql"
	"fmt"

	"github.com/skillstack/searchsync/source"
)

// Static and compile-time check to ensure idIterator implements
// source.IDIterator.
var _ source.IDIterator = (*idIterator)(nil)

// idIterator is a source.IDIterator implementation for the cockroachDB
// row store.
type idIterator struct {
	rows    *sql.Rows
	id      int64
	lastErr error
}

// Next advances to the next id, returns false when no more ids are
// available or when an error occurs.
func (i *idIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	if err := i.rows.Scan(&i.id); err != nil {
		i.lastErr = fmt.Errorf("id iterator: %w", err)

		return false
	}

	return true
}

// ID returns the current primary key.
func (i *idIterator) ID() int64 {
	return i.id
}

// Error returns the last error encountered by the iterator.
func (i *idIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}

	return i.rows.Err()
}

// Close releases any resources allocated to the iterator.
func (i *idIterator) Close() error {
	return i.rows.Close()
}
