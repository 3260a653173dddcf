package memory

import (
	"fmt"

	"github.com/blevesearch/bleve"

	"github.com/skillstack/searchsync/document"
)

// Static and compile-time check to ensure docIterator implements
// document.Iterator.
var _ document.Iterator = (*docIterator)(nil)

// docIterator is a document.Iterator implementation for the in-memory
// store.
type docIterator struct {
	// Pointer to the owning InMemoryStore instance.
	store *InMemoryStore
	// Search request object, re-used to fetch subsequent pages.
	searchReq *bleve.SearchRequest
	// Cumulative index tracks the absolute position in the result list.
	cumIdx uint64
	// Search result index tracks the position in the current page.
	searchResIdx int
	// Search result object.
	searchRes *bleve.SearchResult
	// Current document.
	doc *document.Document
	// Last error encountered by the iterator.
	lastErr error
}

// Next loads the next item, returns false when no more items
// are available or when an error occurs.
func (i *docIterator) Next() bool {
	if i.lastErr != nil || i.searchRes == nil || i.cumIdx >= i.searchRes.Total {
		return false
	}

	// Check if we need to fetch the next result batch and if so, update
	// the search request cursor and perform a new search.
	if i.searchResIdx >= i.searchRes.Hits.Len() {
		i.searchReq.From += i.searchReq.Size
		i.searchRes, i.lastErr = i.store.idx.Search(i.searchReq)
		if i.lastErr != nil {
			return false
		}

		i.searchResIdx = 0
	}

	nextKey := i.searchRes.Hits[i.searchResIdx].ID

	i.store.mu.RLock()
	doc, exists := i.store.docs[nextKey]
	i.store.mu.RUnlock()

	if !exists {
		i.lastErr = fmt.Errorf("get: %w", document.ErrNotFound)

		return false
	}

	i.doc = copyDoc(doc)
	i.searchResIdx++
	i.cumIdx++

	return true
}

// Document returns the current document from the result set.
func (i *docIterator) Document() *document.Document {
	return i.doc
}

// TotalCount returns the approximated total number of search results.
func (i *docIterator) TotalCount() uint64 {
	if i.searchRes == nil {
		return 0
	}

	return i.searchRes.Total
}

// Error returns the last error encountered by the iterator.
func (i *docIterator) Error() error {
	return i.lastErr
}

// Close releases any resources allocated to the iterator.
func (i *docIterator) Close() error {
	i.store = nil
	i.searchReq = nil

	if i.searchRes != nil {
		i.cumIdx = i.searchRes.Total
	}

	return nil
}
