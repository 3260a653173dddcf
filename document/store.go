package document

// Store should be implemented by objects that can persist and query
// synchronized documents. The store is exclusively owned by the
// synchronization engine; no other component writes to it.
type Store interface {
	// Upsert creates a new document or fully replaces an existing one
	// with the same (entity type, id) key. It never patches: every
	// field of a stored document is overwritten.
	Upsert(doc *Document) error

	// Get looks up a document by its (entity type, id) key.
	Get(entityType EntityType, id int64) (*Document, error)

	// Delete removes the document with the given key. Deleting an
	// absent key is not an error.
	Delete(entityType EntityType, id int64) error

	// Search performs a tier-ranked look up based on query and returns
	// a result iterator if successful or an error otherwise.
	Search(q Query) (Iterator, error)

	// Close releases any resources allocated to the store.
	Close() error
}

// Iterator should be implemented by objects that can paginate search
// results.
type Iterator interface {
	// Next loads the next item, returns false when no more items
	// are available or when an error occurs.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources allocated to the iterator.
	Close() error

	// Document returns the current document from the result set.
	Document() *Document

	// TotalCount returns the approximated total number of search
	// results.
	TotalCount() uint64
}

// Query defines properties for a document search.
type Query struct {
	// Expression holds the terms to match against the tiered token
	// index. Matches in a higher tier rank above matches confined to a
	// lower tier.
	Expression string

	// Offset determines the cursor value for pagination.
	Offset uint64
}
