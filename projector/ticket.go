package projector

import (
	"errors"
	"fmt"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
	"github.com/skillstack/searchsync/source"
)

// TicketAPI defines the minimum set of source row look-ups needed to
// project support tickets.
type TicketAPI interface {
	FindTicket(id int64) (*source.Ticket, error)
	FindUser(id int64) (*source.User, error)
	TicketIDs() (source.IDIterator, error)
}

// Static and compile-time check to ensure TicketProjector implements
// Projector.
var _ Projector = (*TicketProjector)(nil)

// TicketProjector projects support ticket rows, joined with their
// requester user row, into document fields.
type TicketProjector struct {
	api TicketAPI
}

// NewTicketProjector returns a ticket projection strategy backed by the
// provided source API.
func NewTicketProjector(api TicketAPI) *TicketProjector {
	return &TicketProjector{api: api}
}

// Type returns the entity type tag the projector handles.
func (p *TicketProjector) Type() document.EntityType {
	return document.Tickets
}

// IDs returns an iterator over all support ticket row ids.
func (p *TicketProjector) IDs() (source.IDIterator, error) {
	return p.api.TicketIDs()
}

// Project maps the support ticket row with the given id into document
// fields.
func (p *TicketProjector) Project(id int64) (*Fields, error) {
	ticket, err := p.api.FindTicket(id)
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project ticket: %w", err)
	}

	// Left join: a missing requester row leaves the email blank.
	var requesterEmail string
	if ticket.RequesterID != nil {
		requester, err := p.api.FindUser(*ticket.RequesterID)
		if err != nil && !errors.Is(err, source.ErrNotFound) {
			return nil, fmt.Errorf("project ticket: requester: %w", err)
		}

		if requester != nil {
			requesterEmail = requester.Email
		}
	}

	return &Fields{
		Title:       ticket.Subject,
		Subtitle:    ticket.Category,
		Description: deref(ticket.Body),
		Tags:        []string{ticket.Category},
		Keywords: searchvec.KeywordBag(
			[]string{
				ticket.Category,
				ticket.Status,
				ticket.Priority,
				requesterEmail,
			},
		),
		Filters: document.NewAttrs().
			SetText("category", ticket.Category).
			SetText("status", ticket.Status).
			SetText("priority", ticket.Priority),
		Metadata: document.NewAttrs().
			SetText("requester_email", requesterEmail),
		Media: document.NewAttrs(),
	}, nil
}
