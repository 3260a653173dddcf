package syncer

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/juju/clock/testclock"
	check "gopkg.in/check.v1"

	"github.com/skillstack/searchsync/document"
	docstore "github.com/skillstack/searchsync/document/store/memory"
	"github.com/skillstack/searchsync/projector"
	"github.com/skillstack/searchsync/searchvec"
	"github.com/skillstack/searchsync/source"
	srcstore "github.com/skillstack/searchsync/source/store/memory"
	"github.com/skillstack/searchsync/syncer/mocks"
)

var _ = check.Suite(new(ConfigTestSuite))
var _ = check.Suite(new(SynchronizerTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type ConfigTestSuite struct{}

func (s *ConfigTestSuite) TestConfigValidation(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	originalConfig := Config{
		Registry: projector.NewRegistry(),
		Store:    mocks.NewMockStoreAPI(ctrl),
	}

	config := originalConfig
	c.Assert(config.validate(), check.IsNil)

	c.Assert(config.Clock, check.Not(check.IsNil), check.Commentf("default clock was not assigned"))
	c.Assert(config.Logger, check.Not(check.IsNil), check.Commentf("default logger was not assigned"))

	config = originalConfig
	config.Registry = nil
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*projector registry not provided.*")

	config = originalConfig
	config.Store = nil
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*document store API not provided.*")
}

// SynchronizerTestSuite runs the synchronizer against the in-memory row
// and document stores with every projection strategy registered.
type SynchronizerTestSuite struct {
	rows *srcstore.InMemoryStore
	docs *docstore.InMemoryStore
	clk  *testclock.Clock
	sync *Synchronizer
}

func (s *SynchronizerTestSuite) SetUpTest(c *check.C) {
	s.rows = srcstore.NewInMemoryStore()

	docs, err := docstore.NewInMemoryStore()
	c.Assert(err, check.IsNil)
	s.docs = docs

	registry := projector.NewRegistry()
	c.Assert(registry.Register(projector.NewCourseProjector(s.rows)), check.IsNil)
	c.Assert(registry.Register(projector.NewCommunityProjector(s.rows)), check.IsNil)
	c.Assert(registry.Register(projector.NewTutorProjector(s.rows)), check.IsNil)
	c.Assert(registry.Register(projector.NewTicketProjector(s.rows)), check.IsNil)
	c.Assert(registry.Register(projector.NewEbookProjector(s.rows)), check.IsNil)
	c.Assert(registry.Register(projector.NewAdProjector(s.rows)), check.IsNil)
	c.Assert(registry.Register(projector.NewEventProjector(s.rows)), check.IsNil)

	s.clk = testclock.NewClock(time.Now().Truncate(time.Second))

	s.sync, err = New(Config{
		Registry: registry,
		Store:    s.docs,
		Clock:    s.clk,
	})
	c.Assert(err, check.IsNil)
}

func (s *SynchronizerTestSuite) TearDownTest(c *check.C) {
	c.Assert(s.docs.Close(), check.IsNil)
}

// TestRefreshUpsertsDocument verifies the end-to-end refresh path from a
// committed course row to a queryable document.
func (s *SynchronizerTestSuite) TestRefreshUpsertsDocument(c *check.C) {
	summary := "Learn the basics"

	err := s.rows.SaveCourse(&source.Course{
		ID:      42,
		Slug:    "intro-to-testing",
		Title:   "Intro to Testing",
		Summary: &summary,
		Status:  "published",
		Tags:    []string{"Testing", " testing ", "QA"},
	})
	c.Assert(err, check.IsNil)

	err = s.sync.Refresh(document.Courses, 42)
	c.Assert(err, check.IsNil)

	doc, err := s.docs.Get(document.Courses, 42)
	c.Assert(err, check.IsNil)

	c.Assert(doc.Title, check.Equals, "Intro to Testing")
	c.Assert(doc.Tags, check.DeepEquals, []string{"Testing", "testing", "QA"})
	c.Assert(doc.UpdatedAt.Equal(s.clk.Now().UTC()), check.Equals, true)

	// Title tokens land in the strongest tier.
	tier, exists := doc.SearchVector.TierOf("intro")
	c.Assert(exists, check.Equals, true)
	c.Assert(tier, check.Equals, searchvec.TierA)

	tier, _ = doc.SearchVector.TierOf("testing")
	c.Assert(tier, check.Equals, searchvec.TierA)

	// Summary-only tokens land in tier B.
	tier, _ = doc.SearchVector.TierOf("basics")
	c.Assert(tier, check.Equals, searchvec.TierB)

	// The refreshed document is immediately searchable.
	it, err := s.docs.Search(document.Query{Expression: "testing"})
	c.Assert(err, check.IsNil)

	c.Assert(it.Next(), check.Equals, true)
	c.Assert(it.Document().ID, check.Equals, int64(42))
	c.Assert(it.Close(), check.IsNil)
}

// TestRefreshIsIdempotent verifies that refreshing an unchanged row
// reproduces the same document.
func (s *SynchronizerTestSuite) TestRefreshIsIdempotent(c *check.C) {
	err := s.rows.SaveTutor(&source.Tutor{
		ID: 5, Slug: "jane", DisplayName: "Jane Doe",
		Skills: []string{"Physics"},
	})
	c.Assert(err, check.IsNil)

	c.Assert(s.sync.Refresh(document.Tutors, 5), check.IsNil)

	first, err := s.docs.Get(document.Tutors, 5)
	c.Assert(err, check.IsNil)

	c.Assert(s.sync.Refresh(document.Tutors, 5), check.IsNil)

	second, err := s.docs.Get(document.Tutors, 5)
	c.Assert(err, check.IsNil)
	c.Assert(second, check.DeepEquals, first)
}

// TestRefreshDeletesAbsentRows verifies that a refresh for a deleted or
// ineligible row removes the document.
func (s *SynchronizerTestSuite) TestRefreshDeletesAbsentRows(c *check.C) {
	err := s.rows.SaveAd(&source.Ad{ID: 3, Name: "Spring campaign", Status: "active"})
	c.Assert(err, check.IsNil)

	c.Assert(s.sync.Refresh(document.Ads, 3), check.IsNil)

	_, err = s.docs.Get(document.Ads, 3)
	c.Assert(err, check.IsNil)

	// Archiving the campaign makes it ineligible.
	err = s.rows.SaveAd(&source.Ad{ID: 3, Name: "Spring campaign", Status: "archived"})
	c.Assert(err, check.IsNil)

	c.Assert(s.sync.Refresh(document.Ads, 3), check.IsNil)

	_, err = s.docs.Get(document.Ads, 3)
	c.Assert(errors.Is(err, document.ErrNotFound), check.Equals, true)

	// Refreshing a key that never produced a document is a no-op.
	c.Assert(s.sync.Refresh(document.Ads, 404), check.IsNil)
}

// TestRefreshWithUnknownEntityType verifies that an unregistered entity
// type surfaces as an error and leaves the store untouched.
func (s *SynchronizerTestSuite) TestRefreshWithUnknownEntityType(c *check.C) {
	// Seed a document under the rogue type tag directly.
	rogue := document.EntityType("widgets")
	err := s.docs.Upsert(&document.Document{Type: rogue, ID: 1, Title: "Existing widget"})
	c.Assert(err, check.IsNil)

	err = s.sync.Refresh(rogue, 1)
	c.Assert(errors.Is(err, document.ErrUnknownEntityType), check.Equals, true)

	// The pre-existing document must survive the failed refresh.
	doc, err := s.docs.Get(rogue, 1)
	c.Assert(err, check.IsNil)
	c.Assert(doc.Title, check.Equals, "Existing widget")
}

// TestRefreshPropagatesStoreErrors verifies that document store failures
// abort the refresh.
func (s *SynchronizerTestSuite) TestRefreshPropagatesStoreErrors(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	storeErr := errors.New("store unavailable")

	mockStore := mocks.NewMockStoreAPI(ctrl)
	mockStore.EXPECT().Upsert(gomock.Any()).Return(storeErr)
	mockStore.EXPECT().Delete(document.Ebooks, int64(2)).Return(storeErr)

	registry := projector.NewRegistry()
	c.Assert(registry.Register(projector.NewEbookProjector(s.rows)), check.IsNil)

	sync, err := New(Config{Registry: registry, Store: mockStore, Clock: s.clk})
	c.Assert(err, check.IsNil)

	c.Assert(s.rows.SaveEbook(&source.Ebook{ID: 1, Title: "A book", Status: "published"}), check.IsNil)

	err = sync.Refresh(document.Ebooks, 1)
	c.Assert(errors.Is(err, storeErr), check.Equals, true)

	err = sync.Refresh(document.Ebooks, 2)
	c.Assert(errors.Is(err, storeErr), check.Equals, true)
}

// TestResyncAllRebuildsEveryDocument verifies that a full sweep
// reproduces the document for every live row and skips ineligible ones.
func (s *SynchronizerTestSuite) TestResyncAllRebuildsEveryDocument(c *check.C) {
	deletedAt := time.Now().UTC()

	c.Assert(s.rows.SaveCourse(&source.Course{ID: 1, Slug: "c", Title: "A course", Status: "published"}), check.IsNil)
	c.Assert(s.rows.SaveTutor(&source.Tutor{ID: 2, Slug: "t", DisplayName: "A tutor"}), check.IsNil)
	c.Assert(s.rows.SaveAd(&source.Ad{ID: 3, Name: "Archived ad", Status: "archived"}), check.IsNil)
	c.Assert(s.rows.SaveCommunity(&source.Community{
		ID: 4, Slug: "gone", Name: "Gone", Visibility: "public", DeletedAt: &deletedAt,
	}), check.IsNil)

	c.Assert(s.sync.ResyncAll(), check.IsNil)

	_, err := s.docs.Get(document.Courses, 1)
	c.Assert(err, check.IsNil)

	_, err = s.docs.Get(document.Tutors, 2)
	c.Assert(err, check.IsNil)

	// The archived ad was swept but never produced a document.
	_, err = s.docs.Get(document.Ads, 3)
	c.Assert(errors.Is(err, document.ErrNotFound), check.Equals, true)

	// The tombstoned community was excluded from the sweep entirely.
	_, err = s.docs.Get(document.Communities, 4)
	c.Assert(errors.Is(err, document.ErrNotFound), check.Equals, true)
}

// TestResyncAllReproducesLiveRefreshes verifies that a full sweep and a
// per-row refresh converge on the same document.
func (s *SynchronizerTestSuite) TestResyncAllReproducesLiveRefreshes(c *check.C) {
	c.Assert(s.rows.SaveEbook(&source.Ebook{
		ID: 7, Slug: "b", Title: "A book", Tags: []string{"History"}, Status: "published",
	}), check.IsNil)

	c.Assert(s.sync.Refresh(document.Ebooks, 7), check.IsNil)

	fromRefresh, err := s.docs.Get(document.Ebooks, 7)
	c.Assert(err, check.IsNil)

	c.Assert(s.sync.ResyncAll(), check.IsNil)

	fromResync, err := s.docs.Get(document.Ebooks, 7)
	c.Assert(err, check.IsNil)
	c.Assert(fromResync, check.DeepEquals, fromRefresh)
}

// TestResyncAllCollectsFailures verifies that one broken row does not
// stall the rest of the sweep.
func (s *SynchronizerTestSuite) TestResyncAllCollectsFailures(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	storeErr := errors.New("store unavailable")

	c.Assert(s.rows.SaveTutor(&source.Tutor{ID: 1, Slug: "a", DisplayName: "A"}), check.IsNil)
	c.Assert(s.rows.SaveTutor(&source.Tutor{ID: 2, Slug: "b", DisplayName: "B"}), check.IsNil)

	mockStore := mocks.NewMockStoreAPI(ctrl)
	gomock.InOrder(
		mockStore.EXPECT().Upsert(gomock.Any()).Return(storeErr),
		mockStore.EXPECT().Upsert(gomock.Any()).Return(nil),
	)

	registry := projector.NewRegistry()
	c.Assert(registry.Register(projector.NewTutorProjector(s.rows)), check.IsNil)

	sync, err := New(Config{Registry: registry, Store: mockStore, Clock: s.clk})
	c.Assert(err, check.IsNil)

	// The failure for the first row is reported but the second row is
	// still refreshed.
	err = sync.ResyncAll()
	c.Assert(errors.Is(err, storeErr), check.Equals, true)
}
