package memory

import (
	"fmt"
	"sync"

	"github.com/skillstack/searchsync/source"
)

// Entity table names used for commit hook notifications.
const (
	entityCourses     = "courses"
	entityUsers       = "users"
	entityCommunities = "communities"
	entityTutors      = "tutors"
	entityTickets     = "tickets"
	entityEbooks      = "ebooks"
	entityAds         = "ads"
	entityEvents      = "events"
)

// Op identifies the row store operation delivered to a commit hook.
type Op string

// The operations a commit hook can be notified about.
const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// CommitHook is invoked synchronously for every row save / delete,
// before the call returns to the writer. The store mutex is NOT held
// while the hook runs, so the hook is free to read rows back out of the
// store. A hook error aborts the write: the store restores its previous
// state, mirroring a transaction that rolls back when inline index
// maintenance fails.
type CommitHook func(entity string, id int64, op Op) error

// Static and compile-time check to ensure InMemoryStore implements
// source.Store.
var _ source.Store = (*InMemoryStore)(nil)

// InMemoryStore is a source.Store implementation that keeps every row
// table in memory. It backs tests and single-node deployments and is
// the seeding target for change capture wiring.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows map[string]map[int64]interface{}
	hook CommitHook
}

// NewInMemoryStore instantiates and returns an empty in-memory row
// store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rows: make(map[string]map[int64]interface{}),
	}
}

// SetCommitHook installs the hook invoked on every committed row write.
// Passing nil detaches the current hook.
func (s *InMemoryStore) SetCommitHook(hook CommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hook = hook
}

// save stores a row and notifies the commit hook. On hook failure the
// previous row state is restored and the hook error returned.
func (s *InMemoryStore) save(entity string, id int64, row interface{}) error {
	if id <= 0 {
		return fmt.Errorf("save %s: %w", entity, source.ErrMissingID)
	}

	s.mu.Lock()

	table, exists := s.rows[entity]
	if !exists {
		table = make(map[int64]interface{})
		s.rows[entity] = table
	}

	prev, existed := table[id]
	table[id] = row
	hook := s.hook

	// The hook reads rows back out of this store while synchronizing
	// documents, so it must run with the mutex released.
	s.mu.Unlock()

	op := OpInsert
	if existed {
		op = OpUpdate
	}

	if hook != nil {
		if err := hook(entity, id, op); err != nil {
			s.mu.Lock()
			if existed {
				table[id] = prev
			} else {
				delete(table, id)
			}
			s.mu.Unlock()

			return fmt.Errorf("save %s: commit hook: %w", entity, err)
		}
	}

	return nil
}

// remove deletes a row and notifies the commit hook. Removing an absent
// row is a no-op and does not fire the hook. On hook failure the row is
// restored and the hook error returned.
func (s *InMemoryStore) remove(entity string, id int64) error {
	s.mu.Lock()

	table, exists := s.rows[entity]
	if !exists {
		s.mu.Unlock()

		return nil
	}

	prev, existed := table[id]
	if !existed {
		s.mu.Unlock()

		return nil
	}

	delete(table, id)
	hook := s.hook
	s.mu.Unlock()

	if hook != nil {
		if err := hook(entity, id, OpDelete); err != nil {
			s.mu.Lock()
			table[id] = prev
			s.mu.Unlock()

			return fmt.Errorf("delete %s: commit hook: %w", entity, err)
		}
	}

	return nil
}

func (s *InMemoryStore) find(entity string, id int64) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row, exists := s.rows[entity][id]; exists {
		return row, nil
	}

	return nil, fmt.Errorf("find %s: %w", entity, source.ErrNotFound)
}

// ids returns an iterator over the sorted ids of all rows in a table
// that pass the live predicate. A nil predicate accepts every row.
func (s *InMemoryStore) ids(entity string, live func(row interface{}) bool) (source.IDIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []int64
	for id, row := range s.rows[entity] {
		if live != nil && !live(row) {
			continue
		}

		list = append(list, id)
	}

	return newIDIterator(list), nil
}

// SaveCourse creates or replaces a course row.
func (s *InMemoryStore) SaveCourse(c *source.Course) error {
	cp := *c

	return s.save(entityCourses, c.ID, &cp)
}

// DeleteCourse removes a course row.
func (s *InMemoryStore) DeleteCourse(id int64) error {
	return s.remove(entityCourses, id)
}

// FindCourse performs a course row look-up by id.
func (s *InMemoryStore) FindCourse(id int64) (*source.Course, error) {
	row, err := s.find(entityCourses, id)
	if err != nil {
		return nil, err
	}

	cp := *row.(*source.Course)

	return &cp, nil
}

// CourseIDs returns an iterator over all course row ids.
func (s *InMemoryStore) CourseIDs() (source.IDIterator, error) {
	return s.ids(entityCourses, nil)
}

// SaveUser creates or replaces a user row.
func (s *InMemoryStore) SaveUser(u *source.User) error {
	cp := *u

	return s.save(entityUsers, u.ID, &cp)
}

// DeleteUser removes a user row.
func (s *InMemoryStore) DeleteUser(id int64) error {
	return s.remove(entityUsers, id)
}

// FindUser performs a user row look-up by id.
func (s *InMemoryStore) FindUser(id int64) (*source.User, error) {
	row, err := s.find(entityUsers, id)
	if err != nil {
		return nil, err
	}

	cp := *row.(*source.User)

	return &cp, nil
}

// SaveCommunity creates or replaces a community row.
func (s *InMemoryStore) SaveCommunity(c *source.Community) error {
	cp := *c

	return s.save(entityCommunities, c.ID, &cp)
}

// DeleteCommunity removes a community row.
func (s *InMemoryStore) DeleteCommunity(id int64) error {
	return s.remove(entityCommunities, id)
}

// FindCommunity performs a community row look-up by id. Soft-deleted
// rows are returned as stored; eligibility is decided by the caller.
func (s *InMemoryStore) FindCommunity(id int64) (*source.Community, error) {
	row, err := s.find(entityCommunities, id)
	if err != nil {
		return nil, err
	}

	cp := *row.(*source.Community)

	return &cp, nil
}

// CommunityIDs returns an iterator over the ids of communities without
// a soft-delete tombstone.
func (s *InMemoryStore) CommunityIDs() (source.IDIterator, error) {
	return s.ids(entityCommunities, func(row interface{}) bool {
		return row.(*source.Community).DeletedAt == nil
	})
}

// SaveTutor creates or replaces a tutor profile row.
func (s *InMemoryStore) SaveTutor(t *source.Tutor) error {
	cp := *t

	return s.save(entityTutors, t.ID, &cp)
}

// DeleteTutor removes a tutor profile row.
func (s *InMemoryStore) DeleteTutor(id int64) error {
	return s.remove(entityTutors, id)
}

// FindTutor performs a tutor profile row look-up by id.
func (s *InMemoryStore) FindTutor(id int64) (*source.Tutor, error) {
	row, err := s.find(entityTutors, id)
	if err != nil {
		return nil, err
	}

	cp := *row.(*source.Tutor)

	return &cp, nil
}

// TutorIDs returns an iterator over all tutor profile row ids.
func (s *InMemoryStore) TutorIDs() (source.IDIterator, error) {
	return s.ids(entityTutors, nil)
}

// SaveTicket creates or replaces a support ticket row.
func (s *InMemoryStore) SaveTicket(t *source.Ticket) error {
	cp := *t

	return s.save(entityTickets, t.ID, &cp)
}

// DeleteTicket removes a support ticket row.
func (s *InMemoryStore) DeleteTicket(id int64) error {
	return s.remove(entityTickets, id)
}

// FindTicket performs a support ticket row look-up by id.
func (s *InMemoryStore) FindTicket(id int64) (*source.Ticket, error) {
	row, err := s.find(entityTickets, id)
	if err != nil {
		return nil, err
	}

	cp := *row.(*source.Ticket)

	return &cp, nil
}

// TicketIDs returns an iterator over all support ticket row ids.
func (s *InMemoryStore) TicketIDs() (source.IDIterator, error) {
	return s.ids(entityTickets, nil)
}

// SaveEbook creates or replaces an e-book row.
func (s *InMemoryStore) SaveEbook(e *source.Ebook) error {
	cp := *e

	return s.save(entityEbooks, e.ID, &cp)
}

// DeleteEbook removes an e-book row.
func (s *InMemoryStore) DeleteEbook(id int64) error {
	return s.remove(entityEbooks, id)
}

// FindEbook performs an e-book row look-up by id.
func (s *InMemoryStore) FindEbook(id int64) (*source.Ebook, error) {
	row, err := s.find(entityEbooks, id)
	if err != nil {
		return nil, err
	}

	cp := *row.(*source.Ebook)

	return &cp, nil
}

// EbookIDs returns an iterator over all e-book row ids.
func (s *InMemoryStore) EbookIDs() (source.IDIterator, error) {
	return s.ids(entityEbooks, nil)
}

// SaveAd creates or replaces an ad campaign row.
func (s *InMemoryStore) SaveAd(a *source.Ad) error {
	cp := *a

	return s.save(entityAds, a.ID, &cp)
}

// DeleteAd removes an ad campaign row.
func (s *InMemoryStore) DeleteAd(id int64) error {
	return s.remove(entityAds, id)
}

// FindAd performs an ad campaign row look-up by id.
func (s *InMemoryStore) FindAd(id int64) (*source.Ad, error) {
	row, err := s.find(entityAds, id)
	if err != nil {
		return nil, err
	}

	cp := *row.(*source.Ad)

	return &cp, nil
}

// AdIDs returns an iterator over all ad campaign row ids.
func (s *InMemoryStore) AdIDs() (source.IDIterator, error) {
	return s.ids(entityAds, nil)
}

// SaveEvent creates or replaces an event row.
func (s *InMemoryStore) SaveEvent(e *source.Event) error {
	cp := *e

	return s.save(entityEvents, e.ID, &cp)
}

// DeleteEvent removes an event row.
func (s *InMemoryStore) DeleteEvent(id int64) error {
	return s.remove(entityEvents, id)
}

// FindEvent performs an event row look-up by id.
func (s *InMemoryStore) FindEvent(id int64) (*source.Event, error) {
	row, err := s.find(entityEvents, id)
	if err != nil {
		return nil, err
	}

	cp := *row.(*source.Event)

	return &cp, nil
}

// EventIDs returns an iterator over all event row ids.
func (s *InMemoryStore) EventIDs() (source.IDIterator, error) {
	return s.ids(entityEvents, nil)
}
