package projector

import (
	"errors"
	"fmt"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
	"github.com/skillstack/searchsync/source"
)

// CommunityAPI defines the minimum set of source row look-ups needed to
// project communities.
type CommunityAPI interface {
	FindCommunity(id int64) (*source.Community, error)
	CommunityIDs() (source.IDIterator, error)
}

// Static and compile-time check to ensure CommunityProjector implements
// Projector.
var _ Projector = (*CommunityProjector)(nil)

// CommunityProjector projects community rows into document fields.
// Soft-deleted communities are treated as absent.
type CommunityProjector struct {
	api CommunityAPI
}

// NewCommunityProjector returns a community projection strategy backed
// by the provided source API.
func NewCommunityProjector(api CommunityAPI) *CommunityProjector {
	return &CommunityProjector{api: api}
}

// Type returns the entity type tag the projector handles.
func (p *CommunityProjector) Type() document.EntityType {
	return document.Communities
}

// IDs returns an iterator over the ids of communities without a
// soft-delete tombstone.
func (p *CommunityProjector) IDs() (source.IDIterator, error) {
	return p.api.CommunityIDs()
}

// Project maps the community row with the given id into document
// fields.
func (p *CommunityProjector) Project(id int64) (*Fields, error) {
	community, err := p.api.FindCommunity(id)
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project community: %w", err)
	}

	// A tombstoned row still exists in storage but is ineligible.
	if community.DeletedAt != nil {
		return nil, nil
	}

	return &Fields{
		Slug:        community.Slug,
		Title:       community.Name,
		Subtitle:    deref(community.Tagline),
		Description: deref(community.Description),
		Tags:        community.Tags,
		Keywords: searchvec.KeywordBag(
			[]string{
				deref(community.Country),
				community.Visibility,
			},
			community.Tags,
		),
		Filters: document.NewAttrs().
			SetString("country", community.Country).
			SetText("visibility", community.Visibility),
		Metadata: document.NewAttrs().
			SetCount("member_count", community.MemberCount),
		Media: document.NewAttrs().
			SetString("cover_image_url", community.CoverImageURL),
	}, nil
}
