package resync

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
)

// SyncAPI defines the synchronizer operation the service schedules.
type SyncAPI interface {
	// ResyncAll rebuilds every document from the current source state.
	ResyncAll() error
}

// Config defines configurations for the periodic resync service.
type Config struct {
	// API for triggering full document resyncs.
	Sync SyncAPI

	// A clock instance used by the service loop. If not specified, the
	// default wall-clock will be used instead.
	Clock clock.Clock

	// The time between two full resync sweeps.
	ResyncInterval time.Duration

	// The logger to use. If not defined an output-discarding logger
	// will be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.Sync == nil {
		err = multierror.Append(err, fmt.Errorf("sync API not provided"))
	}

	if config.ResyncInterval <= 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for resync interval"))
	}

	if config.Clock == nil {
		config.Clock = clock.WallClock
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}
