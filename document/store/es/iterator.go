package es

import (
	"github.com/elastic/go-elasticsearch/v8"

	"github.com/skillstack/searchsync/document"
)

// Static and compile-time check to ensure esIterator implements
// document.Iterator.
var _ document.Iterator = (*esIterator)(nil)

// esIterator is a document.Iterator implementation for an
// elasticsearch-backed store.
type esIterator struct {
	client *elasticsearch.Client
	// Search request object, re-used to fetch subsequent pages.
	searchReq map[string]interface{}
	// Cumulative index tracks the absolute position in the result list.
	cumIdx uint64
	// Search result index tracks the position in the current page.
	searchResIdx int
	// Search result object.
	searchRes *esSearchRes
	// Current document.
	doc *document.Document
	// Last error encountered by the iterator.
	lastErr error
}

// Next loads the next item, returns false when no more items
// are available or when an error occurs.
func (i *esIterator) Next() bool {
	if i.lastErr != nil || i.searchRes == nil ||
		i.cumIdx >= i.searchRes.Hits.Total.Count {

		return false
	}

	// Check if we need to fetch the next result batch and if so, update
	// the search request cursor and perform a new search.
	if i.searchResIdx >= len(i.searchRes.Hits.HitList) {
		i.searchReq["from"] = i.searchReq["from"].(uint64) + batchSize
		i.searchRes, i.lastErr = performSearch(i.client, i.searchReq)
		if i.lastErr != nil {
			return false
		}

		i.searchResIdx = 0
	}

	i.doc = esDocToDoc(&i.searchRes.Hits.HitList[i.searchResIdx].DocSource)
	i.searchResIdx++
	i.cumIdx++

	return true
}

// Document returns the current document from the result set.
func (i *esIterator) Document() *document.Document {
	return i.doc
}

// TotalCount returns the approximated total number of search results.
func (i *esIterator) TotalCount() uint64 {
	if i.searchRes == nil {
		return 0
	}

	return i.searchRes.Hits.Total.Count
}

// Error returns the last error encountered by the iterator.
func (i *esIterator) Error() error {
	return i.lastErr
}

// Close releases any resources allocated to the iterator.
func (i *esIterator) Close() error {
	i.client = nil
	i.searchReq = nil

	if i.searchRes != nil {
		i.cumIdx = i.searchRes.Hits.Total.Count
	}

	return nil
}
