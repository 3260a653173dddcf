package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
)

// Static and compile-time check to ensure ElasticsearchStore implements
// document.Store.
var _ document.Store = (*ElasticsearchStore)(nil)

// Size of each page of results that is cached locally by the iterator.
const batchSize = 10

// The name of the elasticsearch index to use.
const indexName = "documents"

// JSON data structure that defines the properties of an elasticsearch
// document. The Tier* fields hold the per-tier token text reconstructed
// from the search vector; query-time boosts on those fields mirror the
// tier weights exactly. The raw vector is stored unindexed.
var esMappings = `
{
  "mappings" : {
    "properties": {
      "EntityType": {"type": "keyword"},
      "EntityID": {"type": "long"},
      "Slug": {"type": "keyword"},
      "Title": {"type": "text"},
      "Subtitle": {"type": "text"},
      "Summary": {"type": "text"},
      "Description": {"type": "text"},
      "Tags": {"type": "keyword"},
      "Filters": {"type": "object", "dynamic": true},
      "Metadata": {"type": "object", "dynamic": true},
      "Media": {"type": "object", "dynamic": true},
      "SearchVector": {"type": "object", "enabled": false},
      "TierA": {"type": "text"},
      "TierB": {"type": "text"},
      "TierC": {"type": "text"},
      "TierD": {"type": "text"},
      "UpdatedAt": {"type": "date"}
    }
  }
}`

type esSearchRes struct {
	Hits esSearchResHits `json:"hits"`
}

type esSearchResHits struct {
	Total   esTotal        `json:"total"`
	HitList []esHitWrapper `json:"hits"`
}

type esTotal struct {
	Count uint64 `json:"value"`
}

type esHitWrapper struct {
	DocSource esDoc `json:"_source"`
}

type esGetRes struct {
	Found     bool  `json:"found"`
	DocSource esDoc `json:"_source"`
}

type esDoc struct {
	EntityType   string                    `json:"EntityType"`
	EntityID     int64                     `json:"EntityID"`
	Slug         string                    `json:"Slug,omitempty"`
	Title        string                    `json:"Title,omitempty"`
	Subtitle     string                    `json:"Subtitle,omitempty"`
	Summary      string                    `json:"Summary,omitempty"`
	Description  string                    `json:"Description,omitempty"`
	Tags         []string                  `json:"Tags,omitempty"`
	Filters      map[string]interface{}    `json:"Filters,omitempty"`
	Metadata     map[string]interface{}    `json:"Metadata,omitempty"`
	Media        map[string]interface{}    `json:"Media,omitempty"`
	SearchVector map[string]searchvec.Tier `json:"SearchVector,omitempty"`
	TierA        string                    `json:"TierA,omitempty"`
	TierB        string                    `json:"TierB,omitempty"`
	TierC        string                    `json:"TierC,omitempty"`
	TierD        string                    `json:"TierD,omitempty"`
	UpdatedAt    time.Time                 `json:"UpdatedAt"`
}

type esErrorRes struct {
	Error esError `json:"error"`
}

type esError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (e esError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Reason)
}

// ElasticsearchStore is a document.Store implementation that uses
// elasticsearch to persist and search documents.
type ElasticsearchStore struct {
	client      *elasticsearch.Client
	refreshOpts func(*esapi.IndexRequest)
	deleteOpts  func(*esapi.DeleteRequest)
}

// NewElasticsearchStore instantiates and returns a document store
// backed by an elasticsearch cluster. When shouldSyncUpdates is set,
// writes are refreshed synchronously so that subsequent searches
// observe them immediately.
func NewElasticsearchStore(
	esNodes []string, shouldSyncUpdates bool,
) (*ElasticsearchStore, error) {

	cfg := elasticsearch.Config{
		Addresses: esNodes,
	}

	c, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if err = initIndex(c); err != nil {
		return nil, err
	}

	refreshOpts := c.Index.WithRefresh("false")
	deleteOpts := c.Delete.WithRefresh("false")

	if shouldSyncUpdates {
		refreshOpts = c.Index.WithRefresh("true")
		deleteOpts = c.Delete.WithRefresh("true")
	}

	return &ElasticsearchStore{
		client:      c,
		refreshOpts: refreshOpts,
		deleteOpts:  deleteOpts,
	}, nil
}

// Close releases any resources held by the store. The underlying
// client keeps no persistent connections that require closing.
func (s *ElasticsearchStore) Close() error {
	return nil
}

// Upsert creates a new document or fully replaces an existing one with
// the same (entity type, id) key.
func (s *ElasticsearchStore) Upsert(doc *document.Document) error {
	if doc.Type == "" || doc.ID <= 0 {
		return fmt.Errorf("upsert: %w", document.ErrMissingKey)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(makeEsDoc(doc)); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	res, err := s.client.Index(
		indexName,
		&buf,
		s.client.Index.WithDocumentID(document.Key(doc.Type, doc.ID)),
		s.refreshOpts,
	)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	if err = unmarshalResponse(res, nil); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	return nil
}

// Get looks up a document by its (entity type, id) key.
func (s *ElasticsearchStore) Get(entityType document.EntityType, id int64) (*document.Document, error) {
	res, err := s.client.Get(indexName, document.Key(entityType, id))
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}

	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()

		return nil, fmt.Errorf("get: %w", document.ErrNotFound)
	}

	var getRes esGetRes
	if err = unmarshalResponse(res, &getRes); err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}

	if !getRes.Found {
		return nil, fmt.Errorf("get: %w", document.ErrNotFound)
	}

	return esDocToDoc(&getRes.DocSource), nil
}

// Delete removes the document with the given key. Deleting an absent
// key is not an error.
func (s *ElasticsearchStore) Delete(entityType document.EntityType, id int64) error {
	res, err := s.client.Delete(
		indexName,
		document.Key(entityType, id),
		s.deleteOpts,
	)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	// A 404 means the document is already gone; delete is idempotent.
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()

		return nil
	}

	if err = unmarshalResponse(res, nil); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// Search performs a tier-ranked look up based on query and returns a
// result iterator if successful or an error otherwise.
func (s *ElasticsearchStore) Search(q document.Query) (document.Iterator, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"type":  "best_fields",
				"query": q.Expression,
				"fields": []string{
					"TierA^8", "TierB^4", "TierC^2", "TierD^1",
				},
			},
		},
		"from": q.Offset,
		"size": batchSize,
	}

	searchRes, err := performSearch(s.client, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &esIterator{
		client:    s.client,
		searchReq: query,
		searchRes: searchRes,
		cumIdx:    q.Offset,
	}, nil
}

func performSearch(
	client *elasticsearch.Client, query map[string]interface{},
) (*esSearchRes, error) {
	var buf bytes.Buffer

	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	res, err := client.Search(
		client.Search.WithContext(context.Background()),
		client.Search.WithIndex(indexName),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}

	var esRes esSearchRes
	if err = unmarshalResponse(res, &esRes); err != nil {
		return nil, err
	}

	return &esRes, nil
}

func initIndex(client *elasticsearch.Client) error {
	mappingsReader := strings.NewReader(esMappings)

	res, err := client.Indices.Create(
		indexName,
		client.Indices.Create.WithBody(mappingsReader),
	)
	if err != nil {
		return fmt.Errorf("failed to create ES index: %w", err)
	}

	if res.IsError() {
		err = unmarshalResponse(res, nil)

		esErr, isEsErr := err.(esError)
		if isEsErr && esErr.Type == "resource_already_exists_exception" {
			return nil
		}

		return fmt.Errorf("failed to create ES index: %w", err)
	}

	return nil
}

func unmarshalResponse(res *esapi.Response, into interface{}) error {
	defer res.Body.Close()

	if res.IsError() {
		var errRes esErrorRes
		if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil {
			return err
		}

		return errRes.Error
	}

	if into == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(into)
}

func makeEsDoc(doc *document.Document) esDoc {
	return esDoc{
		EntityType:   string(doc.Type),
		EntityID:     doc.ID,
		Slug:         doc.Slug,
		Title:        doc.Title,
		Subtitle:     doc.Subtitle,
		Summary:      doc.Summary,
		Description:  doc.Description,
		Tags:         doc.Tags,
		Filters:      doc.Filters,
		Metadata:     doc.Metadata,
		Media:        doc.Media,
		SearchVector: doc.SearchVector,
		TierA:        strings.Join(doc.SearchVector.TierTokens(searchvec.TierA), " "),
		TierB:        strings.Join(doc.SearchVector.TierTokens(searchvec.TierB), " "),
		TierC:        strings.Join(doc.SearchVector.TierTokens(searchvec.TierC), " "),
		TierD:        strings.Join(doc.SearchVector.TierTokens(searchvec.TierD), " "),
		UpdatedAt:    doc.UpdatedAt,
	}
}

func esDocToDoc(d *esDoc) *document.Document {
	return &document.Document{
		Type:         document.EntityType(d.EntityType),
		ID:           d.EntityID,
		Slug:         d.Slug,
		Title:        d.Title,
		Subtitle:     d.Subtitle,
		Summary:      d.Summary,
		Description:  d.Description,
		Tags:         d.Tags,
		Filters:      document.Attrs(d.Filters),
		Metadata:     document.Attrs(d.Metadata),
		Media:        document.Attrs(d.Media),
		SearchVector: searchvec.Vector(d.SearchVector),
		UpdatedAt:    d.UpdatedAt,
	}
}
