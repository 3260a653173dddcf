package projector

import (
	"errors"
	"fmt"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
	"github.com/skillstack/searchsync/source"
)

// EbookAPI defines the minimum set of source row look-ups needed to
// project e-books.
type EbookAPI interface {
	FindEbook(id int64) (*source.Ebook, error)
	EbookIDs() (source.IDIterator, error)
}

// Static and compile-time check to ensure EbookProjector implements
// Projector.
var _ Projector = (*EbookProjector)(nil)

// EbookProjector projects e-book rows into document fields.
type EbookProjector struct {
	api EbookAPI
}

// NewEbookProjector returns an e-book projection strategy backed by the
// provided source API.
func NewEbookProjector(api EbookAPI) *EbookProjector {
	return &EbookProjector{api: api}
}

// Type returns the entity type tag the projector handles.
func (p *EbookProjector) Type() document.EntityType {
	return document.Ebooks
}

// IDs returns an iterator over all e-book row ids.
func (p *EbookProjector) IDs() (source.IDIterator, error) {
	return p.api.EbookIDs()
}

// Project maps the e-book row with the given id into document fields.
func (p *EbookProjector) Project(id int64) (*Fields, error) {
	ebook, err := p.api.FindEbook(id)
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project ebook: %w", err)
	}

	return &Fields{
		Slug:        ebook.Slug,
		Title:       ebook.Title,
		Subtitle:    deref(ebook.Subtitle),
		Summary:     deref(ebook.Summary),
		Description: deref(ebook.Description),
		Tags:        ebook.Tags,
		Keywords: searchvec.KeywordBag(
			[]string{
				deref(ebook.Author),
				ebook.Status,
			},
			ebook.Tags,
		),
		Filters: document.NewAttrs().
			SetText("status", ebook.Status),
		Metadata: document.NewAttrs().
			SetString("author", ebook.Author).
			SetInt("page_count", ebook.PageCount).
			SetFloat("price", ebook.Price).
			SetString("currency", ebook.Currency),
		Media: document.NewAttrs().
			SetString("cover_image_url", ebook.CoverImageURL).
			SetString("file_url", ebook.FileURL),
	}, nil
}
