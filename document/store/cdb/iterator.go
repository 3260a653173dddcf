package cdb

import (
	"database/sql"
	"fmt"

	"github.com/skillstack/searchsync/document"
)

// Static and compile-time check to ensure docIterator implements
// document.Iterator.
var _ document.Iterator = (*docIterator)(nil)

// docIterator is a document.Iterator implementation for the cockroachDB
// backed store. A zero-valued iterator yields no results.
type docIterator struct {
	rows    *sql.Rows
	total   uint64
	doc     *document.Document
	lastErr error
}

// Next loads the next item, returns false when no more items
// are available or when an error occurs.
func (i *docIterator) Next() bool {
	if i.lastErr != nil || i.rows == nil || !i.rows.Next() {
		return false
	}

	doc, err := scanDoc(i.rows.Scan)
	if err != nil {
		i.lastErr = fmt.Errorf("search iterator: %w", err)

		return false
	}

	i.doc = doc

	return true
}

// Document returns the current document from the result set.
func (i *docIterator) Document() *document.Document {
	return i.doc
}

// TotalCount returns the approximated total number of search results.
func (i *docIterator) TotalCount() uint64 {
	return i.total
}

// Error returns the last error encountered by the iterator.
func (i *docIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}

	if i.rows == nil {
		return nil
	}

	return i.rows.Err()
}

// Close releases any resources allocated to the iterator.
func (i *docIterator) Close() error {
	if i.rows == nil {
		return nil
	}

	return i.rows.Close()
}
