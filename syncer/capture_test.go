package syncer

import (
	"errors"
	"time"

	"github.com/juju/clock/testclock"
	check "gopkg.in/check.v1"

	"github.com/skillstack/searchsync/document"
	docstore "github.com/skillstack/searchsync/document/store/memory"
	"github.com/skillstack/searchsync/projector"
	"github.com/skillstack/searchsync/source"
	srcstore "github.com/skillstack/searchsync/source/store/memory"
)

var _ = check.Suite(new(DispatcherTestSuite))

// DispatcherTestSuite wires the change capture dispatcher to the
// in-memory row store's commit hook, mirroring the production setup
// where source writes synchronize their documents inline.
type DispatcherTestSuite struct {
	rows *srcstore.InMemoryStore
	docs *docstore.InMemoryStore

	// Entity table names forwarded to the dispatcher, in commit order.
	dispatched []string
}

func (s *DispatcherTestSuite) SetUpTest(c *check.C) {
	s.rows = srcstore.NewInMemoryStore()

	docs, err := docstore.NewInMemoryStore()
	c.Assert(err, check.IsNil)
	s.docs = docs

	registry := projector.NewRegistry()
	c.Assert(registry.Register(projector.NewCourseProjector(s.rows)), check.IsNil)
	c.Assert(registry.Register(projector.NewCommunityProjector(s.rows)), check.IsNil)

	sync, err := New(Config{
		Registry: registry,
		Store:    s.docs,
		Clock:    testclock.NewClock(time.Now()),
	})
	c.Assert(err, check.IsNil)

	dispatcher := NewDispatcher(sync, nil)

	// Only entity tables that project into documents notify the
	// dispatcher; join-only tables such as users are skipped.
	indexed := map[string]document.EntityType{
		"courses":     document.Courses,
		"communities": document.Communities,
	}

	s.dispatched = nil
	s.rows.SetCommitHook(func(entity string, id int64, op srcstore.Op) error {
		entityType, tracked := indexed[entity]
		if !tracked {
			return nil
		}

		s.dispatched = append(s.dispatched, entity)

		return dispatcher.EntityCommitted(entityType, id, Op(op))
	})
}

func (s *DispatcherTestSuite) TearDownTest(c *check.C) {
	c.Assert(s.docs.Close(), check.IsNil)
}

// TestCommittedInsertCreatesDocument verifies that saving a row makes
// its document observable before the save call returns.
func (s *DispatcherTestSuite) TestCommittedInsertCreatesDocument(c *check.C) {
	err := s.rows.SaveCourse(&source.Course{
		ID: 1, Slug: "intro", Title: "Intro to Testing", Status: "published",
	})
	c.Assert(err, check.IsNil)

	doc, err := s.docs.Get(document.Courses, 1)
	c.Assert(err, check.IsNil)
	c.Assert(doc.Title, check.Equals, "Intro to Testing")
}

// TestCommittedUpdateReplacesDocument verifies that updating a row fully
// replaces its document.
func (s *DispatcherTestSuite) TestCommittedUpdateReplacesDocument(c *check.C) {
	err := s.rows.SaveCourse(&source.Course{
		ID: 1, Slug: "intro", Title: "Intro to Testing", Status: "published",
	})
	c.Assert(err, check.IsNil)

	err = s.rows.SaveCourse(&source.Course{
		ID: 1, Slug: "intro", Title: "Advanced Testing", Status: "published",
	})
	c.Assert(err, check.IsNil)

	doc, err := s.docs.Get(document.Courses, 1)
	c.Assert(err, check.IsNil)
	c.Assert(doc.Title, check.Equals, "Advanced Testing")
}

// TestCommittedDeleteRemovesDocument verifies that deleting a row
// removes its document in the same call.
func (s *DispatcherTestSuite) TestCommittedDeleteRemovesDocument(c *check.C) {
	err := s.rows.SaveCourse(&source.Course{
		ID: 1, Slug: "intro", Title: "Intro to Testing", Status: "published",
	})
	c.Assert(err, check.IsNil)

	c.Assert(s.rows.DeleteCourse(1), check.IsNil)

	_, err = s.docs.Get(document.Courses, 1)
	c.Assert(errors.Is(err, document.ErrNotFound), check.Equals, true)
}

// TestSoftDeleteRemovesDocument verifies that tombstoning a community
// row drops its document even though the row still exists.
func (s *DispatcherTestSuite) TestSoftDeleteRemovesDocument(c *check.C) {
	err := s.rows.SaveCommunity(&source.Community{
		ID: 2, Slug: "makers", Name: "Makers", Visibility: "public",
	})
	c.Assert(err, check.IsNil)

	_, err = s.docs.Get(document.Communities, 2)
	c.Assert(err, check.IsNil)

	deletedAt := time.Now().UTC()
	err = s.rows.SaveCommunity(&source.Community{
		ID: 2, Slug: "makers", Name: "Makers", Visibility: "public",
		DeletedAt: &deletedAt,
	})
	c.Assert(err, check.IsNil)

	_, err = s.docs.Get(document.Communities, 2)
	c.Assert(errors.Is(err, document.ErrNotFound), check.Equals, true)
}

// TestJoinOnlyTablesAreNotDispatched verifies that user writes never
// reach the synchronizer.
func (s *DispatcherTestSuite) TestJoinOnlyTablesAreNotDispatched(c *check.C) {
	err := s.rows.SaveUser(&source.User{ID: 1, FirstName: "Jane", LastName: "Doe"})
	c.Assert(err, check.IsNil)

	c.Assert(s.rows.DeleteUser(1), check.IsNil)
	c.Assert(s.dispatched, check.HasLen, 0)

	// A write to an indexed table is forwarded.
	err = s.rows.SaveCourse(&source.Course{
		ID: 1, Slug: "intro", Title: "Intro to Testing", Status: "published",
	})
	c.Assert(err, check.IsNil)
	c.Assert(s.dispatched, check.DeepEquals, []string{"courses"})
}

// TestFailedRefreshAbortsSourceWrite verifies the inline capture
// semantics: when document synchronization fails, the triggering row
// write is rolled back.
func (s *DispatcherTestSuite) TestFailedRefreshAbortsSourceWrite(c *check.C) {
	s.rows.SetCommitHook(func(entity string, id int64, op srcstore.Op) error {
		if entity != "tutors" {
			return nil
		}

		return errors.New("refresh failed")
	})

	err := s.rows.SaveTutor(&source.Tutor{ID: 9, Slug: "jane", DisplayName: "Jane"})
	c.Assert(err, check.NotNil)

	_, err = s.rows.FindTutor(9)
	c.Assert(errors.Is(err, source.ErrNotFound), check.Equals, true)
}
