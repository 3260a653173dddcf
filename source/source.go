// Package source defines the read-only boundary to the platform's
// source-of-truth row stores. The synchronization engine holds read
// access to these rows plus the joins required for projection; all CRUD
// business logic is owned by the modules that write them.
package source

import (
	"strings"
	"time"
)

// Course is a published or draft course row.
type Course struct {
	ID              int64
	Slug            string
	Title           string
	Summary         *string
	Description     *string
	Level           *string
	Category        *string
	Status          string
	Language        *string
	Price           *float64
	Currency        *string
	Rating          *float64
	RatingCount     *int64
	EnrollmentCount int64
	Tags            []string
	Skills          []string
	Languages       []string
	CoverImageURL   *string
	PromoVideoURL   *string
	InstructorID    *int64
}

// User is the join row used for instructor and requester look-ups.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Country   *string
	AvatarURL *string
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Community is a learner community row. Communities are soft-deleted:
// a row with a DeletedAt tombstone still exists in storage but must be
// treated as absent by every consumer.
type Community struct {
	ID            int64
	Slug          string
	Name          string
	Tagline       *string
	Description   *string
	Country       *string
	Visibility    string
	MemberCount   int64
	Tags          []string
	CoverImageURL *string
	DeletedAt     *time.Time
}

// Tutor is a tutor profile row.
type Tutor struct {
	ID           int64
	Slug         string
	DisplayName  string
	Headline     *string
	Bio          *string
	Skills       []string
	Languages    []string
	HourlyRate   *float64
	Currency     *string
	Rating       *float64
	SessionCount int64
	Country      *string
	AvatarURL    *string
	Verified     bool
}

// Ticket is a support ticket row.
type Ticket struct {
	ID          int64
	Subject     string
	Category    string
	Status      string
	Priority    string
	Body        *string
	RequesterID *int64
}

// Ebook is an e-book row.
type Ebook struct {
	ID            int64
	Slug          string
	Title         string
	Subtitle      *string
	Summary       *string
	Description   *string
	Author        *string
	Tags          []string
	PageCount     *int64
	Price         *float64
	Currency      *string
	Status        string
	CoverImageURL *string
	FileURL       *string
}

// Ad is an ad campaign row. Archived campaigns are not eligible for
// indexing.
type Ad struct {
	ID               int64
	Name             string
	Objective        *string
	Status           string
	DailyBudget      *float64
	Currency         *string
	TargetKeywords   []string
	LandingPageURL   *string
	CreativeImageURL *string
	CreativeVideoURL *string
}

// Event is a community event row.
type Event struct {
	ID            int64
	Slug          string
	Title         string
	Summary       *string
	Description   *string
	Visibility    string
	Status        string
	StartsAt      time.Time
	EndsAt        *time.Time
	Venue         *string
	Online        bool
	Capacity      *int64
	CommunityID   *int64
	CoverImageURL *string
}
