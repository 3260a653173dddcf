package projector

import (
	"errors"
	"fmt"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
	"github.com/skillstack/searchsync/source"
)

// TutorAPI defines the minimum set of source row look-ups needed to
// project tutor profiles.
type TutorAPI interface {
	FindTutor(id int64) (*source.Tutor, error)
	TutorIDs() (source.IDIterator, error)
}

// Static and compile-time check to ensure TutorProjector implements
// Projector.
var _ Projector = (*TutorProjector)(nil)

// TutorProjector projects tutor profile rows into document fields.
type TutorProjector struct {
	api TutorAPI
}

// NewTutorProjector returns a tutor projection strategy backed by the
// provided source API.
func NewTutorProjector(api TutorAPI) *TutorProjector {
	return &TutorProjector{api: api}
}

// Type returns the entity type tag the projector handles.
func (p *TutorProjector) Type() document.EntityType {
	return document.Tutors
}

// IDs returns an iterator over all tutor profile row ids.
func (p *TutorProjector) IDs() (source.IDIterator, error) {
	return p.api.TutorIDs()
}

// Project maps the tutor profile row with the given id into document
// fields.
func (p *TutorProjector) Project(id int64) (*Fields, error) {
	tutor, err := p.api.FindTutor(id)
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project tutor: %w", err)
	}

	return &Fields{
		Slug:        tutor.Slug,
		Title:       tutor.DisplayName,
		Subtitle:    deref(tutor.Headline),
		Description: deref(tutor.Bio),
		Tags:        tutor.Skills,
		Keywords: searchvec.KeywordBag(
			[]string{deref(tutor.Country)},
			tutor.Skills, tutor.Languages,
		),
		Filters: document.NewAttrs().
			SetString("country", tutor.Country).
			SetBool("verified", tutor.Verified),
		Metadata: document.NewAttrs().
			SetFloat("rating", tutor.Rating).
			SetCount("session_count", tutor.SessionCount).
			SetFloat("hourly_rate", tutor.HourlyRate).
			SetString("currency", tutor.Currency),
		Media: document.NewAttrs().
			SetString("avatar_url", tutor.AvatarURL),
	}, nil
}
