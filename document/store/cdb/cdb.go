package cdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
)

// The store expects a documents table with a composite primary key on
// (entity_type, entity_id), TEXT[] tags and JSONB columns for the
// attribute maps and the search vector.
var (
	upsertDocumentQuery = `
					INSERT INTO documents (
						entity_type, entity_id, slug, title, subtitle,
						summary, description, tags, filters, metadata,
						media, search_vector, updated_at
					)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
					ON CONFLICT (entity_type, entity_id)
					DO UPDATE SET
						slug=EXCLUDED.slug,
						title=EXCLUDED.title,
						subtitle=EXCLUDED.subtitle,
						summary=EXCLUDED.summary,
						description=EXCLUDED.description,
						tags=EXCLUDED.tags,
						filters=EXCLUDED.filters,
						metadata=EXCLUDED.metadata,
						media=EXCLUDED.media,
						search_vector=EXCLUDED.search_vector,
						updated_at=EXCLUDED.updated_at
					`

	getDocumentQuery = `
					SELECT entity_type, entity_id, slug, title, subtitle,
					       summary, description, tags, filters, metadata,
					       media, search_vector, updated_at
					FROM documents
					WHERE entity_type=$1 AND entity_id=$2
					`

	deleteDocumentQuery = "DELETE FROM documents WHERE entity_type=$1 AND entity_id=$2"

	// Matches documents whose vector contains any query token and
	// orders them by the strongest matched tier (lower is stronger),
	// breaking ties on recency.
	searchDocumentsQuery = `
					SELECT entity_type, entity_id, slug, title, subtitle,
					       summary, description, tags, filters, metadata,
					       media, search_vector, updated_at
					FROM documents
					WHERE search_vector ?| $1::TEXT[]
					ORDER BY (
						SELECT min((search_vector->>t)::INT)
						FROM unnest($1::TEXT[]) AS t
						WHERE search_vector ? t
					) ASC, updated_at DESC
					OFFSET $2
					`

	countDocumentsQuery = "SELECT count(*) FROM documents WHERE search_vector ?| $1::TEXT[]"
)

// Static and compile-time check to ensure CockroachDBStore implements
// document.Store.
var _ document.Store = (*CockroachDBStore)(nil)

// CockroachDBStore implements a persistent document store using a
// CockroachDB instance.
type CockroachDBStore struct {
	db *sql.DB
}

// NewCockroachDBStore returns a CockroachDBStore instance.
func NewCockroachDBStore(dsn string) (*CockroachDBStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return &CockroachDBStore{db}, nil
}

// Close terminates the connection to the cockroachDB instance.
func (s *CockroachDBStore) Close() error {
	return s.db.Close()
}

// Upsert creates a new document or fully replaces an existing one with
// the same (entity type, id) key.
func (s *CockroachDBStore) Upsert(doc *document.Document) error {
	if doc.Type == "" || doc.ID <= 0 {
		return fmt.Errorf("upsert: %w", document.ErrMissingKey)
	}

	filters, err := marshalAttrs(doc.Filters)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	metadata, err := marshalAttrs(doc.Metadata)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	media, err := marshalAttrs(doc.Media)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	vector, err := json.Marshal(doc.SearchVector)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	_, err = s.db.Exec(
		upsertDocumentQuery,
		doc.Type, doc.ID, doc.Slug, doc.Title, doc.Subtitle,
		doc.Summary, doc.Description, pq.Array(doc.Tags),
		filters, metadata, media, vector, doc.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	return nil
}

// Get looks up a document by its (entity type, id) key.
func (s *CockroachDBStore) Get(entityType document.EntityType, id int64) (*document.Document, error) {
	row := s.db.QueryRow(getDocumentQuery, entityType, id)

	doc, err := scanDoc(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("get: %w", document.ErrNotFound)
		}

		return nil, fmt.Errorf("get: %w", err)
	}

	return doc, nil
}

// Delete removes the document with the given key. Deleting an absent
// key is not an error.
func (s *CockroachDBStore) Delete(entityType document.EntityType, id int64) error {
	if _, err := s.db.Exec(deleteDocumentQuery, entityType, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// Search performs a tier-ranked look up based on query and returns a
// result iterator if successful or an error otherwise.
func (s *CockroachDBStore) Search(q document.Query) (document.Iterator, error) {
	tokens := queryTokens(q.Expression)
	if len(tokens) == 0 {
		return &docIterator{}, nil
	}

	var total uint64
	err := s.db.QueryRow(countDocumentsQuery, pq.Array(tokens)).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	rows, err := s.db.Query(searchDocumentsQuery, pq.Array(tokens), q.Offset)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &docIterator{rows: rows, total: total}, nil
}

// queryTokens normalizes a search expression into the lowercase tokens
// stored in document vectors.
func queryTokens(expression string) []string {
	postings := searchvec.Tokenize(expression, searchvec.TierD)

	tokens := make([]string, len(postings))
	for i, p := range postings {
		tokens[i] = p.Token
	}

	return tokens
}

func marshalAttrs(attrs document.Attrs) ([]byte, error) {
	if attrs == nil {
		attrs = document.NewAttrs()
	}

	return json.Marshal(attrs)
}

// scanDoc decodes one documents row via the provided scan function.
func scanDoc(scan func(dest ...interface{}) error) (*document.Document, error) {
	var (
		doc     document.Document
		filters []byte
		meta    []byte
		media   []byte
		vector  []byte
	)

	err := scan(
		&doc.Type, &doc.ID, &doc.Slug, &doc.Title, &doc.Subtitle,
		&doc.Summary, &doc.Description, pq.Array(&doc.Tags),
		&filters, &meta, &media, &vector, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(filters, &doc.Filters); err != nil {
		return nil, fmt.Errorf("decode filters: %w", err)
	}

	if err := json.Unmarshal(meta, &doc.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	if err := json.Unmarshal(media, &doc.Media); err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}

	if err := json.Unmarshal(vector, &doc.SearchVector); err != nil {
		return nil, fmt.Errorf("decode search vector: %w", err)
	}

	doc.UpdatedAt = doc.UpdatedAt.UTC()

	return &doc, nil
}
