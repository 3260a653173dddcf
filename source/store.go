package source

// IDIterator should be implemented by objects that can iterate over the
// primary keys of live source rows.
type IDIterator interface {
	// Next advances to the next id, returns false when no more ids are
	// available or when an error occurs.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources allocated to the iterator.
	Close() error

	// ID returns the current primary key.
	ID() int64
}

// Store aggregates the per-entity row look-ups and live-id scans needed
// to project and resync documents. Find methods return ErrNotFound for
// missing rows; the *IDs methods enumerate only rows that are eligible
// for indexing (soft-deleted communities are excluded).
type Store interface {
	FindCourse(id int64) (*Course, error)
	FindUser(id int64) (*User, error)
	FindCommunity(id int64) (*Community, error)
	FindTutor(id int64) (*Tutor, error)
	FindTicket(id int64) (*Ticket, error)
	FindEbook(id int64) (*Ebook, error)
	FindAd(id int64) (*Ad, error)
	FindEvent(id int64) (*Event, error)

	CourseIDs() (IDIterator, error)
	CommunityIDs() (IDIterator, error)
	TutorIDs() (IDIterator, error)
	TicketIDs() (IDIterator, error)
	EbookIDs() (IDIterator, error)
	AdIDs() (IDIterator, error)
	EventIDs() (IDIterator, error)
}
