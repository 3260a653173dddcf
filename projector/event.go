package projector

import (
	"errors"
	"fmt"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
	"github.com/skillstack/searchsync/source"
)

// EventAPI defines the minimum set of source row look-ups needed to
// project events.
type EventAPI interface {
	FindEvent(id int64) (*source.Event, error)
	FindCommunity(id int64) (*source.Community, error)
	EventIDs() (source.IDIterator, error)
}

// Static and compile-time check to ensure EventProjector implements
// Projector.
var _ Projector = (*EventProjector)(nil)

// EventProjector projects event rows, joined with their parent
// community row, into document fields. Cancelled events stay indexed;
// status is a filter, not an eligibility predicate.
type EventProjector struct {
	api EventAPI
}

// NewEventProjector returns an event projection strategy backed by the
// provided source API.
func NewEventProjector(api EventAPI) *EventProjector {
	return &EventProjector{api: api}
}

// Type returns the entity type tag the projector handles.
func (p *EventProjector) Type() document.EntityType {
	return document.Events
}

// IDs returns an iterator over all event row ids.
func (p *EventProjector) IDs() (source.IDIterator, error) {
	return p.api.EventIDs()
}

// Project maps the event row with the given id into document fields.
func (p *EventProjector) Project(id int64) (*Fields, error) {
	event, err := p.api.FindEvent(id)
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project event: %w", err)
	}

	// Left join: a missing or tombstoned parent community leaves the
	// community fields blank.
	var communityName, communityCountry string
	if event.CommunityID != nil {
		community, err := p.api.FindCommunity(*event.CommunityID)
		if err != nil && !errors.Is(err, source.ErrNotFound) {
			return nil, fmt.Errorf("project event: community: %w", err)
		}

		if community != nil && community.DeletedAt == nil {
			communityName = community.Name
			communityCountry = deref(community.Country)
		}
	}

	return &Fields{
		Slug:        event.Slug,
		Title:       event.Title,
		Subtitle:    communityName,
		Summary:     deref(event.Summary),
		Description: deref(event.Description),
		Tags:        []string{event.Visibility},
		Keywords: searchvec.KeywordBag(
			[]string{
				event.Visibility,
				event.Status,
				deref(event.Venue),
				communityName,
				communityCountry,
			},
		),
		Filters: document.NewAttrs().
			SetText("visibility", event.Visibility).
			SetText("status", event.Status).
			SetBool("online", event.Online).
			SetText("country", communityCountry),
		Metadata: document.NewAttrs().
			SetTime("starts_at", &event.StartsAt).
			SetTime("ends_at", event.EndsAt).
			SetString("venue", event.Venue).
			SetInt("capacity", event.Capacity).
			SetText("community_name", communityName),
		Media: document.NewAttrs().
			SetString("cover_image_url", event.CoverImageURL),
	}, nil
}
