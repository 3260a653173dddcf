package document

import (
	"fmt"
	"time"

	"github.com/skillstack/searchsync/searchvec"
)

// EntityType identifies the source table a document was projected from.
type EntityType string

// The set of source entity types that project into documents.
const (
	Courses     EntityType = "courses"
	Communities EntityType = "communities"
	Tutors      EntityType = "tutors"
	Tickets     EntityType = "tickets"
	Ebooks      EntityType = "ebooks"
	Ads         EntityType = "ads"
	Events      EntityType = "events"
)

// Document defines the synchronized, queryable projection of a single
// source entity. A document exists for as long as its source row exists
// and is eligible for indexing; every refresh fully replaces its fields.
type Document struct {
	// Type of the source entity this document was projected from.
	Type EntityType

	// ID is the primary key of the source row. Together with Type it
	// forms the immutable document key.
	ID int64

	// Slug is the URL-friendly identifier of the source entity
	// (if available).
	Slug string

	// Title of the document.
	Title string

	// Subtitle of the document (if available).
	Subtitle string

	// Summary of the document (if available).
	Summary string

	// Description of the document, stripped of markup.
	Description string

	// Tags holds the normalized tag set: trimmed, deduplicated by exact
	// string equality and free of empty entries. Order is unspecified.
	Tags []string

	// Filters holds facet-style attributes used for filtered look-ups.
	Filters Attrs

	// Metadata holds display-oriented denormalized attributes.
	Metadata Attrs

	// Media holds URLs to image / video / document assets.
	Media Attrs

	// SearchVector is the tiered token index built for this document.
	// It is opaque to callers and produced only by searchvec.Build.
	SearchVector searchvec.Vector

	// Last time the document was synchronized. Always the sync time,
	// never the source row's own timestamp.
	UpdatedAt time.Time
}

// Key returns the composite store key for an (entity type, id) pair.
func Key(entityType EntityType, id int64) string {
	return fmt.Sprintf("%s:%d", entityType, id)
}
