// Package syncer orchestrates document synchronization: refreshing the
// document for a single committed source row and rebuilding the full
// document set from scratch. It is the only component callers interact
// with directly.
package syncer

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/projector"
	"github.com/skillstack/searchsync/searchvec"
)

// StoreAPI defines the minimum set of document store operations needed
// to synchronize documents.
type StoreAPI interface {
	// Upsert creates a new document or fully replaces an existing one
	// with the same (entity type, id) key.
	Upsert(doc *document.Document) error

	// Delete removes the document with the given key. Deleting an
	// absent key is not an error.
	Delete(entityType document.EntityType, id int64) error
}

// Config defines configurations for the document synchronizer.
type Config struct {
	// Registry of projection strategies, one per entity type.
	Registry *projector.Registry

	// API for writing to the document store.
	Store StoreAPI

	// A clock instance used to stamp document update times. If not
	// specified, the default wall-clock will be used instead.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger
	// will be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.Registry == nil {
		err = multierror.Append(err, fmt.Errorf("projector registry not provided"))
	}

	if config.Store == nil {
		err = multierror.Append(err, fmt.Errorf("document store API not provided"))
	}

	if config.Clock == nil {
		config.Clock = clock.WallClock
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}

// Synchronizer keeps the document store consistent with the source
// entity tables. Both of its operations converge on the same idempotent
// upsert / delete calls keyed by primary key, so concurrent execution
// is safe per key (last writer wins).
type Synchronizer struct {
	config Config
}

// New creates and returns a fully configured document synchronizer.
func New(config Config) (*Synchronizer, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("synchronizer: config validation failed: %w", err)
	}

	return &Synchronizer{config: config}, nil
}

// Refresh projects the source row identified by (entityType, id) and
// upserts or deletes the corresponding document. It is idempotent:
// refreshing the same key twice with no source change produces the same
// document apart from its update time. Refresh is designed to be called
// inline, inside the transaction that wrote the source row, so a
// returned error aborts that write instead of leaving the index behind.
func (s *Synchronizer) Refresh(entityType document.EntityType, id int64) error {
	p, registered := s.config.Registry.Get(entityType)
	if !registered {
		// No registered strategy is a configuration error. The store
		// is left untouched so a typo'd or retired type can never
		// silently destroy an existing document.
		return fmt.Errorf("refresh %s/%d: %w", entityType, id, document.ErrUnknownEntityType)
	}

	fields, err := p.Project(id)
	if err != nil {
		return fmt.Errorf("refresh %s/%d: %w", entityType, id, err)
	}

	logger := s.config.Logger.WithFields(logrus.Fields{
		"entity_type": entityType,
		"entity_id":   id,
	})

	if fields == nil {
		// Source row is gone or ineligible: drop the document.
		if err := s.config.Store.Delete(entityType, id); err != nil {
			return fmt.Errorf("refresh %s/%d: delete: %w", entityType, id, err)
		}

		logger.Debug("document deleted")

		return nil
	}

	doc := buildDocument(entityType, id, fields, s.config.Clock.Now().UTC())
	if err := s.config.Store.Upsert(doc); err != nil {
		return fmt.Errorf("refresh %s/%d: upsert: %w", entityType, id, err)
	}

	logger.Debug("document upserted")

	return nil
}

// ResyncAll rebuilds every document from the current source state. It
// sweeps the registered entity types in sorted order and refreshes each
// live row; refresh failures are collected and reported together so one
// broken row cannot stall the rest of the sweep. The sweep may run
// concurrently with live refreshes; it does not provide snapshot
// isolation across entity types.
func (s *Synchronizer) ResyncAll() error {
	logger := s.config.Logger.WithField("sweep_id", uuid.New().String())
	logger.Info("full resync started")

	var result error

	for _, entityType := range s.config.Registry.Types() {
		p, _ := s.config.Registry.Get(entityType)

		it, err := p.IDs()
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("resync %s: %w", entityType, err))

			continue
		}

		var refreshed int
		for it.Next() {
			if err := s.Refresh(entityType, it.ID()); err != nil {
				result = multierror.Append(result, err)

				continue
			}

			refreshed++
		}

		if err := it.Error(); err != nil {
			result = multierror.Append(result, fmt.Errorf("resync %s: %w", entityType, err))
		}

		if err := it.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("resync %s: %w", entityType, err))
		}

		logger.WithFields(logrus.Fields{
			"entity_type": entityType,
			"refreshed":   refreshed,
		}).Info("entity type resynced")
	}

	logger.Info("full resync complete")

	return result
}

// buildDocument normalizes the projected fields and assembles the final
// document, including its tiered token index.
func buildDocument(
	entityType document.EntityType, id int64, fields *projector.Fields, now time.Time,
) *document.Document {

	tags := searchvec.Normalize(fields.Tags)

	return &document.Document{
		Type:        entityType,
		ID:          id,
		Slug:        fields.Slug,
		Title:       fields.Title,
		Subtitle:    fields.Subtitle,
		Summary:     fields.Summary,
		Description: fields.Description,
		Tags:        tags,
		Filters:     fields.Filters,
		Metadata:    fields.Metadata,
		Media:       fields.Media,
		SearchVector: searchvec.Build(
			fields.Title,
			fields.Summary,
			fields.Description,
			tags,
			fields.Keywords,
		),
		UpdatedAt: now,
	}
}
