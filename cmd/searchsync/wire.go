package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/skillstack/searchsync/config"
	"github.com/skillstack/searchsync/document"
	doccdb "github.com/skillstack/searchsync/document/store/cdb"
	doces "github.com/skillstack/searchsync/document/store/es"
	docmemory "github.com/skillstack/searchsync/document/store/memory"
	"github.com/skillstack/searchsync/projector"
	"github.com/skillstack/searchsync/source"
	srccdb "github.com/skillstack/searchsync/source/store/cdb"
	srcmemory "github.com/skillstack/searchsync/source/store/memory"
	"github.com/skillstack/searchsync/syncer"
)

// deps bundles the wired components shared by the run and resync
// commands.
type deps struct {
	docs document.Store
	rows source.Store
	sync *syncer.Synchronizer
}

func (d *deps) close(logger *logrus.Entry) {
	if err := d.docs.Close(); err != nil {
		logger.WithField("err", err).Error("failed to close document store")
	}

	if closer, ok := d.rows.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.WithField("err", err).Error("failed to close source store")
		}
	}
}

// wire assembles the document store, source store, projection registry
// and synchronizer described by the configuration. When the source
// store supports commit hooks, the change capture dispatcher is
// attached so that row writes synchronize their documents inline.
func wire(cfg *config.Config, logger *logrus.Entry) (*deps, error) {
	docs, err := newDocumentStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	rows, err := newSourceStore(cfg, logger)
	if err != nil {
		_ = docs.Close()

		return nil, err
	}

	registry := projector.NewRegistry()
	for _, p := range []projector.Projector{
		projector.NewCourseProjector(rows),
		projector.NewCommunityProjector(rows),
		projector.NewTutorProjector(rows),
		projector.NewTicketProjector(rows),
		projector.NewEbookProjector(rows),
		projector.NewAdProjector(rows),
		projector.NewEventProjector(rows),
	} {
		if err := registry.Register(p); err != nil {
			_ = docs.Close()

			return nil, err
		}
	}

	sync, err := syncer.New(syncer.Config{
		Registry: registry,
		Store:    docs,
		Logger:   logger.WithField("component", "syncer"),
	})
	if err != nil {
		_ = docs.Close()

		return nil, err
	}

	if memRows, ok := rows.(*srcmemory.InMemoryStore); ok {
		attachDispatcher(memRows, sync, logger)
	}

	return &deps{docs: docs, rows: rows, sync: sync}, nil
}

// attachDispatcher wires the change capture dispatcher into the
// in-memory source store's commit hook. Join-only tables such as users
// are not dispatched.
func attachDispatcher(rows *srcmemory.InMemoryStore, sync *syncer.Synchronizer, logger *logrus.Entry) {
	dispatcher := syncer.NewDispatcher(sync, logger.WithField("component", "capture"))

	indexed := map[string]document.EntityType{
		"courses":     document.Courses,
		"communities": document.Communities,
		"tutors":      document.Tutors,
		"tickets":     document.Tickets,
		"ebooks":      document.Ebooks,
		"ads":         document.Ads,
		"events":      document.Events,
	}

	rows.SetCommitHook(func(entity string, id int64, op srcmemory.Op) error {
		entityType, tracked := indexed[entity]
		if !tracked {
			return nil
		}

		return dispatcher.EntityCommitted(entityType, id, syncer.Op(op))
	})
}

func newDocumentStore(cfg *config.Config, logger *logrus.Entry) (document.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Info("using in-memory document store")

		return docmemory.NewInMemoryStore()
	case config.BackendES:
		logger.Info("using ES document store")

		return doces.NewElasticsearchStore(cfg.Store.ES.Nodes, cfg.Store.ES.SyncUpdates)
	case config.BackendCockroachDB:
		logger.Info("using CDB document store")

		return doccdb.NewCockroachDBStore(cfg.Store.CDB.DSN)
	default:
		return nil, fmt.Errorf("unsupported document store backend: %q", cfg.Store.Backend)
	}
}

func newSourceStore(cfg *config.Config, logger *logrus.Entry) (source.Store, error) {
	switch cfg.Source.Backend {
	case config.BackendMemory:
		logger.Info("using in-memory source store")

		return srcmemory.NewInMemoryStore(), nil
	case config.BackendCockroachDB:
		logger.Info("using CDB source store")

		return srccdb.NewCockroachDBStore(cfg.Source.CDB.DSN)
	default:
		return nil, fmt.Errorf("unsupported source store backend: %q", cfg.Source.Backend)
	}
}
