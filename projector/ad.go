package projector

import (
	"errors"
	"fmt"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
	"github.com/skillstack/searchsync/source"
)

// adStatusArchived marks campaigns that are retired from delivery and
// must not be indexed.
const adStatusArchived = "archived"

// AdAPI defines the minimum set of source row look-ups needed to
// project ad campaigns.
type AdAPI interface {
	FindAd(id int64) (*source.Ad, error)
	AdIDs() (source.IDIterator, error)
}

// Static and compile-time check to ensure AdProjector implements
// Projector.
var _ Projector = (*AdProjector)(nil)

// AdProjector projects ad campaign rows into document fields. Archived
// campaigns are treated as absent.
type AdProjector struct {
	api AdAPI
}

// NewAdProjector returns an ad campaign projection strategy backed by
// the provided source API.
func NewAdProjector(api AdAPI) *AdProjector {
	return &AdProjector{api: api}
}

// Type returns the entity type tag the projector handles.
func (p *AdProjector) Type() document.EntityType {
	return document.Ads
}

// IDs returns an iterator over all ad campaign row ids.
func (p *AdProjector) IDs() (source.IDIterator, error) {
	return p.api.AdIDs()
}

// Project maps the ad campaign row with the given id into document
// fields.
func (p *AdProjector) Project(id int64) (*Fields, error) {
	ad, err := p.api.FindAd(id)
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project ad: %w", err)
	}

	if ad.Status == adStatusArchived {
		return nil, nil
	}

	return &Fields{
		Title:    ad.Name,
		Subtitle: deref(ad.Objective),
		Tags:     ad.TargetKeywords,
		Keywords: searchvec.KeywordBag(
			[]string{
				ad.Status,
				deref(ad.Objective),
			},
			ad.TargetKeywords,
		),
		Filters: document.NewAttrs().
			SetText("status", ad.Status).
			SetString("objective", ad.Objective),
		Metadata: document.NewAttrs().
			SetFloat("daily_budget", ad.DailyBudget).
			SetString("currency", ad.Currency),
		Media: document.NewAttrs().
			SetString("landing_page_url", ad.LandingPageURL).
			SetString("creative_image_url", ad.CreativeImageURL).
			SetString("creative_video_url", ad.CreativeVideoURL),
	}, nil
}
