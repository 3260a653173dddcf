package cdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/skillstack/searchsync/source"
)

var (
	findCourseQuery = `
					SELECT id, slug, title, summary, description, level,
					       category, status, language, price, currency,
					       rating, rating_count, enrollment_count, tags,
					       skills, languages, cover_image_url,
					       promo_video_url, instructor_id
					FROM courses WHERE id=$1
					`
	findUserQuery = `
					SELECT id, first_name, last_name, email, country,
					       avatar_url
					FROM users WHERE id=$1
					`
	findCommunityQuery = `
					SELECT id, slug, name, tagline, description, country,
					       visibility, member_count, tags, cover_image_url,
					       deleted_at
					FROM communities WHERE id=$1
					`
	findTutorQuery = `
					SELECT id, slug, display_name, headline, bio, skills,
					       languages, hourly_rate, currency, rating,
					       session_count, country, avatar_url, verified
					FROM tutors WHERE id=$1
					`
	findTicketQuery = `
					SELECT id, subject, category, status, priority, body,
					       requester_id
					FROM tickets WHERE id=$1
					`
	findEbookQuery = `
					SELECT id, slug, title, subtitle, summary, description,
					       author, tags, page_count, price, currency, status,
					       cover_image_url, file_url
					FROM ebooks WHERE id=$1
					`
	findAdQuery = `
					SELECT id, name, objective, status, daily_budget,
					       currency, target_keywords, landing_page_url,
					       creative_image_url, creative_video_url
					FROM ads WHERE id=$1
					`
	findEventQuery = `
					SELECT id, slug, title, summary, description, visibility,
					       status, starts_at, ends_at, venue, online,
					       capacity, community_id, cover_image_url
					FROM events WHERE id=$1
					`

	courseIDsQuery    = "SELECT id FROM courses ORDER BY id"
	communityIDsQuery = "SELECT id FROM communities WHERE deleted_at IS NULL ORDER BY id"
	tutorIDsQuery     = "SELECT id FROM tutors ORDER BY id"
	ticketIDsQuery    = "SELECT id FROM tickets ORDER BY id"
	ebookIDsQuery     = "SELECT id FROM ebooks ORDER BY id"
	adIDsQuery        = "SELECT id FROM ads ORDER BY id"
	eventIDsQuery     = "SELECT id FROM events ORDER BY id"
)

// Static and compile-time check to ensure CockroachDBStore implements
// source.Store.
var _ source.Store = (*CockroachDBStore)(nil)

// CockroachDBStore is a read-only source.Store implementation backed by
// the platform's CockroachDB row tables.
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

// FindCourse performs a course row look-up by id.
func (s *CockroachDBStore) FindCourse(id int64) (*source.Course, error) {
	c := new(source.Course)

	err := s.db.QueryRow(findCourseQuery, id).Scan(
		&c.ID, &c.Slug, &c.Title, &c.Summary, &c.Description, &c.Level,
		&c.Category, &c.Status, &c.Language, &c.Price, &c.Currency,
		&c.Rating, &c.RatingCount, &c.EnrollmentCount,
		pq.Array(&c.Tags), pq.Array(&c.Skills), pq.Array(&c.Languages),
		&c.CoverImageURL, &c.PromoVideoURL, &c.InstructorID,
	)
	if err != nil {
		return nil, wrapRowErr("find course", err)
	}

	return c, nil
}

// FindUser performs a user row look-up by id.
func (s *CockroachDBStore) FindUser(id int64) (*source.User, error) {
	u := new(source.User)

	err := s.db.QueryRow(findUserQuery, id).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Country,
		&u.AvatarURL,
	)
	if err != nil {
		return nil, wrapRowErr("find user", err)
	}

	return u, nil
}

// FindCommunity performs a community row look-up by id. Soft-deleted
// rows are returned as stored; eligibility is decided by the caller.
func (s *CockroachDBStore) FindCommunity(id int64) (*source.Community, error) {
	c := new(source.Community)

	err := s.db.QueryRow(findCommunityQuery, id).Scan(
		&c.ID, &c.Slug, &c.Name, &c.Tagline, &c.Description, &c.Country,
		&c.Visibility, &c.MemberCount, pq.Array(&c.Tags),
		&c.CoverImageURL, &c.DeletedAt,
	)
	if err != nil {
		return nil, wrapRowErr("find community", err)
	}

	return c, nil
}

// FindTutor performs a tutor profile row look-up by id.
func (s *CockroachDBStore) FindTutor(id int64) (*source.Tutor, error) {
	t := new(source.Tutor)

	err := s.db.QueryRow(findTutorQuery, id).Scan(
		&t.ID, &t.Slug, &t.DisplayName, &t.Headline, &t.Bio,
		pq.Array(&t.Skills), pq.Array(&t.Languages), &t.HourlyRate,
		&t.Currency, &t.Rating, &t.SessionCount, &t.Country,
		&t.AvatarURL, &t.Verified,
	)
	if err != nil {
		return nil, wrapRowErr("find tutor", err)
	}

	return t, nil
}

// FindTicket performs a support ticket row look-up by id.
func (s *CockroachDBStore) FindTicket(id int64) (*source.Ticket, error) {
	t := new(source.Ticket)

	err := s.db.QueryRow(findTicketQuery, id).Scan(
		&t.ID, &t.Subject, &t.Category, &t.Status, &t.Priority, &t.Body,
		&t.RequesterID,
	)
	if err != nil {
		return nil, wrapRowErr("find ticket", err)
	}

	return t, nil
}

// FindEbook performs an e-book row look-up by id.
func (s *CockroachDBStore) FindEbook(id int64) (*source.Ebook, error) {
	e := new(source.Ebook)

	err := s.db.QueryRow(findEbookQuery, id).Scan(
		&e.ID, &e.Slug, &e.Title, &e.Subtitle, &e.Summary,
		&e.Description, &e.Author, pq.Array(&e.Tags), &e.PageCount,
		&e.Price, &e.Currency, &e.Status, &e.CoverImageURL, &e.FileURL,
	)
	if err != nil {
		return nil, wrapRowErr("find ebook", err)
	}

	return e, nil
}

// FindAd performs an ad campaign row look-up by id.
func (s *CockroachDBStore) FindAd(id int64) (*source.Ad, error) {
	a := new(source.Ad)

	err := s.db.QueryRow(findAdQuery, id).Scan(
		&a.ID, &a.Name, &a.Objective, &a.Status, &a.DailyBudget,
		&a.Currency, pq.Array(&a.TargetKeywords), &a.LandingPageURL,
		&a.CreativeImageURL, &a.CreativeVideoURL,
	)
	if err != nil {
		return nil, wrapRowErr("find ad", err)
	}

	return a, nil
}

// FindEvent performs an event row look-up by id.
func (s *CockroachDBStore) FindEvent(id int64) (*source.Event, error) {
	e := new(source.Event)

	err := s.db.QueryRow(findEventQuery, id).Scan(
		&e.ID, &e.Slug, &e.Title, &e.Summary, &e.Description,
		&e.Visibility, &e.Status, &e.StartsAt, &e.EndsAt, &e.Venue,
		&e.Online, &e.Capacity, &e.CommunityID, &e.CoverImageURL,
	)
	if err != nil {
		return nil, wrapRowErr("find event", err)
	}

	return e, nil
}

// CourseIDs returns an iterator over all course row ids.
func (s *CockroachDBStore) CourseIDs() (source.IDIterator, error) {
	return s.idQuery("course ids", courseIDsQuery)
}

// CommunityIDs returns an iterator over the ids of communities without
// a soft-delete tombstone.
func (s *CockroachDBStore) CommunityIDs() (source.IDIterator, error) {
	return s.idQuery("community ids", communityIDsQuery)
}

// TutorIDs returns an iterator over all tutor profile row ids.
func (s *CockroachDBStore) TutorIDs() (source.IDIterator, error) {
	return s.idQuery("tutor ids", tutorIDsQuery)
}

// TicketIDs returns an iterator over all support ticket row ids.
func (s *CockroachDBStore) TicketIDs() (source.IDIterator, error) {
	return s.idQuery("ticket ids", ticketIDsQuery)
}

// EbookIDs returns an iterator over all e-book row ids.
func (s *CockroachDBStore) EbookIDs() (source.IDIterator, error) {
	return s.idQuery("ebook ids", ebookIDsQuery)
}

// AdIDs returns an iterator over all ad campaign row ids.
func (s *CockroachDBStore) AdIDs() (source.IDIterator, error) {
	return s.idQuery("ad ids", adIDsQuery)
}

// EventIDs returns an iterator over all event row ids.
func (s *CockroachDBStore) EventIDs() (source.IDIterator, error) {
	return s.idQuery("event ids", eventIDsQuery)
}

func (s *CockroachDBStore) idQuery(op, query string) (source.IDIterator, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &idIterator{rows: rows}, nil
}

func wrapRowErr(op string, err error) error {
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s: %w", op, source.ErrNotFound)
	}

	return fmt.Errorf("%s: %w", op, err)
}
