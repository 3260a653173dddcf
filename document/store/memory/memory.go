package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/search/query"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
)

// Size of each page of results that is cached locally by the iterator.
const batchSize = 10

// Static and compile-time check to ensure InMemoryStore implements
// document.Store.
var _ document.Store = (*InMemoryStore)(nil)

// bleveDoc is the searchable shape of a document: one text field per
// index tier, reconstructed from the engine-built search vector so that
// query-time boosts mirror the tier weights exactly.
type bleveDoc struct {
	TierA string
	TierB string
	TierC string
	TierD string
}

// InMemoryStore is a document.Store implementation that uses a bleve
// instance to catalogue and search documents but keeps all state in
// memory.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*document.Document
	idx  bleve.Index
}

// NewInMemoryStore instantiates and returns a document store that uses
// an in-memory bleve instance to index documents.
func NewInMemoryStore() (*InMemoryStore, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, err
	}

	return &InMemoryStore{
		idx:  idx,
		docs: make(map[string]*document.Document),
	}, nil
}

// Close releases / frees any previously allocated resources.
func (s *InMemoryStore) Close() error {
	return s.idx.Close()
}

// Upsert creates a new document or fully replaces an existing one with
// the same (entity type, id) key.
func (s *InMemoryStore) Upsert(doc *document.Document) error {
	if doc.Type == "" || doc.ID <= 0 {
		return fmt.Errorf("upsert: %w", document.ErrMissingKey)
	}

	dCopy := copyDoc(doc)
	key := document.Key(dCopy.Type, dCopy.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.idx.Index(key, makeBleveDoc(dCopy)); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	s.docs[key] = dCopy

	return nil
}

// Get looks up a document by its (entity type, id) key.
func (s *InMemoryStore) Get(entityType document.EntityType, id int64) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if doc, exists := s.docs[document.Key(entityType, id)]; exists {
		return copyDoc(doc), nil
	}

	return nil, fmt.Errorf("get: %w", document.ErrNotFound)
}

// Delete removes the document with the given key. Deleting an absent
// key is not an error.
func (s *InMemoryStore) Delete(entityType document.EntityType, id int64) error {
	key := document.Key(entityType, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[key]; !exists {
		return nil
	}

	if err := s.idx.Delete(key); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	delete(s.docs, key)

	return nil
}

// Search performs a tier-ranked look up based on query and returns a
// result iterator if successful or an error otherwise.
func (s *InMemoryStore) Search(q document.Query) (document.Iterator, error) {
	tiers := []struct {
		field string
		tier  searchvec.Tier
	}{
		{"TierA", searchvec.TierA},
		{"TierB", searchvec.TierB},
		{"TierC", searchvec.TierC},
		{"TierD", searchvec.TierD},
	}

	// One boosted match query per tier field: an equal-term match in a
	// higher tier always scores above one confined to a lower tier.
	queries := make([]query.Query, 0, len(tiers))
	for _, t := range tiers {
		mq := bleve.NewMatchQuery(q.Expression)
		mq.SetField(t.field)
		mq.SetBoost(t.tier.Weight())

		queries = append(queries, mq)
	}

	searchReq := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	searchReq.SortBy([]string{"-_score"})
	searchReq.Size = batchSize
	searchReq.From = int(q.Offset)

	sr, err := s.idx.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &docIterator{
		store:     s,
		searchReq: searchReq,
		searchRes: sr,
		cumIdx:    q.Offset,
	}, nil
}

func copyDoc(doc *document.Document) *document.Document {
	dCopy := new(document.Document)
	*dCopy = *doc

	if doc.Tags != nil {
		dCopy.Tags = append([]string(nil), doc.Tags...)
	}

	dCopy.Filters = copyAttrs(doc.Filters)
	dCopy.Metadata = copyAttrs(doc.Metadata)
	dCopy.Media = copyAttrs(doc.Media)

	if doc.SearchVector != nil {
		dCopy.SearchVector = make(searchvec.Vector, len(doc.SearchVector))
		for token, tier := range doc.SearchVector {
			dCopy.SearchVector[token] = tier
		}
	}

	return dCopy
}

func copyAttrs(attrs document.Attrs) document.Attrs {
	if attrs == nil {
		return nil
	}

	aCopy := make(document.Attrs, len(attrs))
	for k, v := range attrs {
		aCopy[k] = v
	}

	return aCopy
}

func makeBleveDoc(doc *document.Document) bleveDoc {
	return bleveDoc{
		TierA: strings.Join(doc.SearchVector.TierTokens(searchvec.TierA), " "),
		TierB: strings.Join(doc.SearchVector.TierTokens(searchvec.TierB), " "),
		TierC: strings.Join(doc.SearchVector.TierTokens(searchvec.TierC), " "),
		TierD: strings.Join(doc.SearchVector.TierTokens(searchvec.TierD), " "),
	}
}
