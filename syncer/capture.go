package syncer

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/skillstack/searchsync/document"
)

// Op identifies the source table operation that triggered a change
// capture notification.
type Op string

// The operations a source-owning module can report.
const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Dispatcher is the change capture boundary. Source-owning modules call
// EntityCommitted synchronously, before their enclosing transaction
// commits, so a reader can never observe a source row without its
// corresponding document and a failed refresh aborts the triggering
// write. The boundary is a plain function call rather than a database
// trigger so any storage backend can host it.
type Dispatcher struct {
	sync   *Synchronizer
	logger *logrus.Entry
}

// NewDispatcher returns a change capture dispatcher that forwards
// committed row notifications to the given synchronizer.
func NewDispatcher(sync *Synchronizer, logger *logrus.Entry) *Dispatcher {
	if logger == nil {
		logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return &Dispatcher{
		sync:   sync,
		logger: logger,
	}
}

// EntityCommitted synchronizes the document for the affected row. Every
// operation resolves to a refresh: the projection itself decides
// between upsert and delete, which keeps the dispatch idempotent and
// tolerant of duplicate or re-ordered notifications for the same key.
func (d *Dispatcher) EntityCommitted(entityType document.EntityType, id int64, op Op) error {
	d.logger.WithFields(logrus.Fields{
		"entity_type": entityType,
		"entity_id":   id,
		"op":          op,
	}).Debug("change captured")

	return d.sync.Refresh(entityType, id)
}
