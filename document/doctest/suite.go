package doctest

import (
	"errors"
	"fmt"
	"time"

	check "gopkg.in/check.v1"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
)

// BaseSuite defines a set of re-usable document store related tests that
// can be executed against any concrete type that implements the
// document.Store interface.
type BaseSuite struct {
	store document.Store
}

// SetStore sets BaseSuite's store field.
func (s *BaseSuite) SetStore(store document.Store) {
	s.store = store
}

// TestUpsertAndGet verifies the upsert logic for new documents and the
// lookup logic by (entity type, id) key.
func (s *BaseSuite) TestUpsertAndGet(c *check.C) {
	doc := makeDoc(document.Courses, 1, "Intro to Testing", "Learn the basics of software testing")

	err := s.store.Upsert(doc)
	c.Assert(
		err, check.IsNil,
		check.Commentf("++++Store upsert++++: %v", err),
	)

	retrieved, err := s.store.Get(document.Courses, 1)
	c.Assert(err, check.IsNil)
	assertDocsEqual(c, retrieved, doc)

	// Perform a doc lookup for a non existing key.
	_, err = s.store.Get(document.Courses, 999)
	c.Assert(errors.Is(err, document.ErrNotFound), check.Equals, true)
}

// TestUpsertFullyReplaces verifies that a second upsert with the same key
// fully replaces the stored document, including fields that the update
// leaves empty.
func (s *BaseSuite) TestUpsertFullyReplaces(c *check.C) {
	doc := makeDoc(document.Ebooks, 7, "Original title", "Original description")
	doc.Metadata = document.NewAttrs().SetCount("page_count", 120)

	err := s.store.Upsert(doc)
	c.Assert(
		err, check.IsNil,
		check.Commentf("++++Store upsert++++: %v", err),
	)

	updated := makeDoc(document.Ebooks, 7, "Updated title", "")
	updated.Tags = nil
	updated.Metadata = nil

	err = s.store.Upsert(updated)
	c.Assert(
		err, check.IsNil,
		check.Commentf("++++Store upsert++++: %v", err),
	)

	retrieved, err := s.store.Get(document.Ebooks, 7)
	c.Assert(err, check.IsNil)
	assertDocsEqual(c, retrieved, updated)
	c.Assert(retrieved.Metadata, check.HasLen, 0)
}

// TestUpsertWithMissingKey verifies that documents without a complete
// (entity type, id) key are rejected.
func (s *BaseSuite) TestUpsertWithMissingKey(c *check.C) {
	err := s.store.Upsert(&document.Document{ID: 1})
	c.Assert(errors.Is(err, document.ErrMissingKey), check.Equals, true)

	err = s.store.Upsert(&document.Document{Type: document.Courses})
	c.Assert(errors.Is(err, document.ErrMissingKey), check.Equals, true)
}

// TestKeySpacePerEntityType verifies that documents of different entity
// types with the same numeric id do not collide.
func (s *BaseSuite) TestKeySpacePerEntityType(c *check.C) {
	course := makeDoc(document.Courses, 5, "A course", "")
	tutor := makeDoc(document.Tutors, 5, "A tutor", "")

	c.Assert(s.store.Upsert(course), check.IsNil)
	c.Assert(s.store.Upsert(tutor), check.IsNil)

	retrieved, err := s.store.Get(document.Courses, 5)
	c.Assert(err, check.IsNil)
	c.Assert(retrieved.Title, check.Equals, "A course")

	retrieved, err = s.store.Get(document.Tutors, 5)
	c.Assert(err, check.IsNil)
	c.Assert(retrieved.Title, check.Equals, "A tutor")
}

// TestDelete verifies the delete logic and its idempotency.
func (s *BaseSuite) TestDelete(c *check.C) {
	doc := makeDoc(document.Ads, 3, "Ad title", "")

	err := s.store.Upsert(doc)
	c.Assert(
		err, check.IsNil,
		check.Commentf("++++Store upsert++++: %v", err),
	)

	err = s.store.Delete(document.Ads, 3)
	c.Assert(
		err, check.IsNil,
		check.Commentf("++++Store delete++++: %v", err),
	)

	_, err = s.store.Get(document.Ads, 3)
	c.Assert(errors.Is(err, document.ErrNotFound), check.Equals, true)

	// Deleting an absent key is not an error.
	err = s.store.Delete(document.Ads, 3)
	c.Assert(err, check.IsNil)

	err = s.store.Delete(document.Ads, 999)
	c.Assert(err, check.IsNil)
}

// TestTierRankedSearch verifies that documents matching the query in a
// stronger tier rank above documents matching in a weaker tier.
func (s *BaseSuite) TestTierRankedSearch(c *check.C) {
	titleMatch := makeDoc(document.Courses, 10, "Gardening for beginners", "Soil, seeds and sunlight")
	descriptionMatch := makeDoc(document.Courses, 11, "Outdoor hobbies", "A chapter covers gardening techniques")

	c.Assert(s.store.Upsert(titleMatch), check.IsNil)
	c.Assert(s.store.Upsert(descriptionMatch), check.IsNil)

	it, err := s.store.Search(document.Query{Expression: "gardening"})
	c.Assert(
		err, check.IsNil,
		check.Commentf("++++Store search++++: %v", err),
	)

	results := iterateDocs(c, it)
	c.Assert(results, check.HasLen, 2)
	c.Assert(results[0].ID, check.Equals, int64(10))
	c.Assert(results[1].ID, check.Equals, int64(11))
}

// TestSearchWithOffset verifies the search logic when skipping some
// results.
func (s *BaseSuite) TestSearchWithOffset(c *check.C) {
	numOfDocs := 30

	for i := 1; i <= numOfDocs; i++ {
		doc := makeDoc(
			document.Events, int64(i),
			fmt.Sprintf("Event number %d", i),
			"A community gathering about woodworking",
		)

		err := s.store.Upsert(doc)
		c.Assert(
			err, check.IsNil,
			check.Commentf("++++Store upsert++++: %v", err),
		)
	}

	it, err := s.store.Search(document.Query{
		Expression: "woodworking",
		Offset:     20,
	})
	c.Assert(err, check.IsNil)

	results := iterateDocs(c, it)
	c.Assert(results, check.HasLen, numOfDocs-20)
	c.Assert(it.TotalCount(), check.Equals, uint64(numOfDocs))

	// Search with offset above the total number of results.
	it, err = s.store.Search(document.Query{
		Expression: "woodworking",
		Offset:     200,
	})
	c.Assert(err, check.IsNil)
	c.Assert(iterateDocs(c, it), check.HasLen, 0)
}

// TestSearchWithNoMatches verifies that a query matching no documents
// yields an empty result set rather than an error.
func (s *BaseSuite) TestSearchWithNoMatches(c *check.C) {
	doc := makeDoc(document.Tickets, 1, "Refund request", "Customer asks for a refund")
	c.Assert(s.store.Upsert(doc), check.IsNil)

	it, err := s.store.Search(document.Query{Expression: "zeppelin"})
	c.Assert(err, check.IsNil)
	c.Assert(iterateDocs(c, it), check.HasLen, 0)
}

// makeDoc assembles a document the same way the synchronizer does: the
// search vector is derived from the title, summary, description, tags
// and keywords.
func makeDoc(entityType document.EntityType, id int64, title, description string) *document.Document {
	tags := []string{"Testing", "QA"}
	summary := "A short summary for " + title

	return &document.Document{
		Type:        entityType,
		ID:          id,
		Slug:        fmt.Sprintf("%s-%d", entityType, id),
		Title:       title,
		Subtitle:    "A subtitle",
		Summary:     summary,
		Description: description,
		Tags:        tags,
		Filters:     document.NewAttrs().SetText("status", "published"),
		Metadata:    document.NewAttrs().SetFloat("rating", ptrFloat(4.5)),
		Media:       document.NewAttrs().SetText("cover_image_url", "https://cdn.example.com/cover.png"),
		SearchVector: searchvec.Build(
			title, summary, description, tags, []string{"extra", "keywords"},
		),
		UpdatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// assertDocsEqual compares two documents field by field. Timestamps are
// compared with time.Equal to tolerate backend specific time zone
// representations.
func assertDocsEqual(c *check.C, got, want *document.Document) {
	c.Assert(got.Type, check.Equals, want.Type)
	c.Assert(got.ID, check.Equals, want.ID)
	c.Assert(got.Slug, check.Equals, want.Slug)
	c.Assert(got.Title, check.Equals, want.Title)
	c.Assert(got.Subtitle, check.Equals, want.Subtitle)
	c.Assert(got.Summary, check.Equals, want.Summary)
	c.Assert(got.Description, check.Equals, want.Description)
	c.Assert(got.UpdatedAt.Equal(want.UpdatedAt), check.Equals, true)

	if len(want.Tags) != 0 {
		c.Assert(got.Tags, check.DeepEquals, want.Tags)
	} else {
		c.Assert(got.Tags, check.HasLen, 0)
	}

	assertAttrsEqual(c, got.Filters, want.Filters)
	assertAttrsEqual(c, got.Metadata, want.Metadata)
	assertAttrsEqual(c, got.Media, want.Media)
	c.Assert(got.SearchVector, check.DeepEquals, want.SearchVector)
}

func assertAttrsEqual(c *check.C, got, want document.Attrs) {
	if len(want) == 0 {
		c.Assert(got, check.HasLen, 0)

		return
	}

	c.Assert(got, check.DeepEquals, want)
}

func iterateDocs(c *check.C, it document.Iterator) []*document.Document {
	var docs []*document.Document
	for it.Next() {
		docs = append(docs, it.Document())
	}

	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	return docs
}

func ptrFloat(f float64) *float64 {
	return &f
}
