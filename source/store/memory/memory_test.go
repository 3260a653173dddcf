package memory

import (
	"errors"
	"testing"
	"time"

	check "gopkg.in/check.v1"

	"github.com/skillstack/searchsync/source"
)

// Initialize and register a pointer instance of the inMemoryStoreTestSuite
// to be executed by check testing package.
var _ = check.Suite(new(inMemoryStoreTestSuite))

// Test registers the [check] library with the go testing library and enables
// the running of the test suite using the go testing library.
func Test(t *testing.T) {
	check.TestingT(t)
}

// inMemoryStoreTestSuite groups the in-memory row store tests.
type inMemoryStoreTestSuite struct {
	store *InMemoryStore
}

// SetUpTest runs before each test in the test suite. it's
// responsible for setting up the necessary environment for
// running that specific test. ie database reset.
func (s *inMemoryStoreTestSuite) SetUpTest(c *check.C) {
	s.store = NewInMemoryStore()
}

// TestSaveAndFind verifies that a saved row can be looked up by id and
// that look-ups return a copy of the stored row.
func (s *inMemoryStoreTestSuite) TestSaveAndFind(c *check.C) {
	course := &source.Course{
		ID:     1,
		Slug:   "intro-to-testing",
		Title:  "Intro to Testing",
		Status: "published",
		Tags:   []string{"Testing", "QA"},
	}

	err := s.store.SaveCourse(course)
	c.Assert(err, check.IsNil)

	retrieved, err := s.store.FindCourse(1)
	c.Assert(err, check.IsNil)
	c.Assert(retrieved, check.DeepEquals, course)

	// Mutating the returned row must not affect the stored copy.
	retrieved.Title = "Mutated title"

	again, err := s.store.FindCourse(1)
	c.Assert(err, check.IsNil)
	c.Assert(again.Title, check.Equals, "Intro to Testing")
}

// TestFindMissingRow verifies the not-found error for absent rows.
func (s *inMemoryStoreTestSuite) TestFindMissingRow(c *check.C) {
	_, err := s.store.FindTutor(42)
	c.Assert(errors.Is(err, source.ErrNotFound), check.Equals, true)
}

// TestSaveWithMissingID verifies that rows without a valid id are
// rejected.
func (s *inMemoryStoreTestSuite) TestSaveWithMissingID(c *check.C) {
	err := s.store.SaveEbook(&source.Ebook{Title: "No id"})
	c.Assert(errors.Is(err, source.ErrMissingID), check.Equals, true)
}

// TestDelete verifies the delete logic and that deleting an absent row
// is a no-op.
func (s *inMemoryStoreTestSuite) TestDelete(c *check.C) {
	err := s.store.SaveAd(&source.Ad{ID: 3, Name: "Spring campaign", Status: "active"})
	c.Assert(err, check.IsNil)

	err = s.store.DeleteAd(3)
	c.Assert(err, check.IsNil)

	_, err = s.store.FindAd(3)
	c.Assert(errors.Is(err, source.ErrNotFound), check.Equals, true)

	err = s.store.DeleteAd(3)
	c.Assert(err, check.IsNil)
}

// TestIDsAreSorted verifies that id iterators yield ids in ascending
// order.
func (s *inMemoryStoreTestSuite) TestIDsAreSorted(c *check.C) {
	for _, id := range []int64{5, 1, 3} {
		err := s.store.SaveTicket(&source.Ticket{
			ID:       id,
			Subject:  "Ticket subject",
			Category: "billing",
			Status:   "open",
			Priority: "normal",
		})
		c.Assert(err, check.IsNil)
	}

	it, err := s.store.TicketIDs()
	c.Assert(err, check.IsNil)
	c.Assert(iterateIDs(c, it), check.DeepEquals, []int64{1, 3, 5})
}

// TestCommunityIDsSkipTombstones verifies that soft-deleted communities
// are excluded from the id sweep while remaining retrievable by id.
func (s *inMemoryStoreTestSuite) TestCommunityIDsSkipTombstones(c *check.C) {
	deletedAt := time.Now().UTC()

	err := s.store.SaveCommunity(&source.Community{ID: 1, Slug: "live", Name: "Live community", Visibility: "public"})
	c.Assert(err, check.IsNil)

	err = s.store.SaveCommunity(&source.Community{
		ID: 2, Slug: "gone", Name: "Deleted community", Visibility: "public",
		DeletedAt: &deletedAt,
	})
	c.Assert(err, check.IsNil)

	it, err := s.store.CommunityIDs()
	c.Assert(err, check.IsNil)
	c.Assert(iterateIDs(c, it), check.DeepEquals, []int64{1})

	// The tombstoned row is still visible to direct look-ups.
	community, err := s.store.FindCommunity(2)
	c.Assert(err, check.IsNil)
	c.Assert(community.DeletedAt, check.NotNil)
}

// TestCommitHookReceivesOps verifies that the commit hook observes every
// write with the correct operation kind.
func (s *inMemoryStoreTestSuite) TestCommitHookReceivesOps(c *check.C) {
	type captured struct {
		entity string
		id     int64
		op     Op
	}

	var got []captured
	s.store.SetCommitHook(func(entity string, id int64, op Op) error {
		got = append(got, captured{entity, id, op})

		return nil
	})

	tutor := &source.Tutor{ID: 9, Slug: "jane", DisplayName: "Jane"}

	c.Assert(s.store.SaveTutor(tutor), check.IsNil)
	c.Assert(s.store.SaveTutor(tutor), check.IsNil)
	c.Assert(s.store.DeleteTutor(9), check.IsNil)

	// Deleting an absent row must not fire the hook.
	c.Assert(s.store.DeleteTutor(9), check.IsNil)

	c.Assert(got, check.DeepEquals, []captured{
		{"tutors", 9, OpInsert},
		{"tutors", 9, OpUpdate},
		{"tutors", 9, OpDelete},
	})
}

// TestCommitHookErrorAbortsWrite verifies that a hook failure rolls the
// row store back to its previous state.
func (s *inMemoryStoreTestSuite) TestCommitHookErrorAbortsWrite(c *check.C) {
	event := &source.Event{ID: 4, Slug: "meetup", Title: "Monthly meetup", Status: "scheduled", StartsAt: time.Now().UTC()}
	c.Assert(s.store.SaveEvent(event), check.IsNil)

	hookErr := errors.New("index write failed")
	s.store.SetCommitHook(func(entity string, id int64, op Op) error {
		return hookErr
	})

	// A failed update leaves the original row in place.
	updated := &source.Event{ID: 4, Slug: "meetup", Title: "Renamed meetup", Status: "scheduled", StartsAt: event.StartsAt}
	err := s.store.SaveEvent(updated)
	c.Assert(errors.Is(err, hookErr), check.Equals, true)

	retrieved, err := s.store.FindEvent(4)
	c.Assert(err, check.IsNil)
	c.Assert(retrieved.Title, check.Equals, "Monthly meetup")

	// A failed insert leaves no row behind.
	err = s.store.SaveEvent(&source.Event{ID: 5, Slug: "other", Title: "Other", Status: "scheduled", StartsAt: event.StartsAt})
	c.Assert(errors.Is(err, hookErr), check.Equals, true)

	_, err = s.store.FindEvent(5)
	c.Assert(errors.Is(err, source.ErrNotFound), check.Equals, true)

	// A failed delete restores the row.
	err = s.store.DeleteEvent(4)
	c.Assert(errors.Is(err, hookErr), check.Equals, true)

	retrieved, err = s.store.FindEvent(4)
	c.Assert(err, check.IsNil)
	c.Assert(retrieved.Title, check.Equals, "Monthly meetup")
}

// TestCommitHookMayReadBackIntoStore verifies that a hook can look rows
// up in the store that invoked it. The synchronizer does exactly this
// on every capture event: the hooked write must not still hold the
// store mutex when the hook runs.
func (s *inMemoryStoreTestSuite) TestCommitHookMayReadBackIntoStore(c *check.C) {
	s.store.SetCommitHook(func(entity string, id int64, op Op) error {
		if op == OpDelete {
			_, err := s.store.FindCourse(id)
			c.Assert(errors.Is(err, source.ErrNotFound), check.Equals, true)

			return nil
		}

		course, err := s.store.FindCourse(id)
		c.Assert(err, check.IsNil)
		c.Assert(course.Title, check.Equals, "Intro to Testing")

		it, err := s.store.CourseIDs()
		c.Assert(err, check.IsNil)
		c.Assert(iterateIDs(c, it), check.DeepEquals, []int64{id})

		return nil
	})

	err := s.store.SaveCourse(&source.Course{
		ID: 1, Slug: "intro", Title: "Intro to Testing", Status: "published",
	})
	c.Assert(err, check.IsNil)

	c.Assert(s.store.DeleteCourse(1), check.IsNil)
}

func iterateIDs(c *check.C, it source.IDIterator) []int64 {
	ids := make([]int64, 0)
	for it.Next() {
		ids = append(ids, it.ID())
	}

	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	return ids
}
