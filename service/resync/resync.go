// Package resync implements the periodic full-resync safety net. Live
// change capture keeps documents fresh between sweeps; the service
// exists to repair drift from missed notifications or projection bug
// fixes that change how existing rows index.
package resync

import (
	"context"
	"fmt"
)

// Service periodically rebuilds the full document set.
type Service struct {
	config Config
}

// New creates and returns a fully configured resync service instance.
func New(config Config) (*Service, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("resync service: config validation failed: %w", err)
	}

	return &Service{config: config}, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "resync" }

// Run executes the service and blocks until the context gets cancelled
// or an error occurs. Sweep failures are logged rather than returned:
// a partially failed sweep leaves the affected documents one interval
// staler, which the next sweep repairs.
func (svc *Service) Run(ctx context.Context) error {
	svc.config.Logger.WithField(
		"resync_interval", svc.config.ResyncInterval.String(),
	).Info("started service")
	defer svc.config.Logger.Info("stopped service")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-svc.config.Clock.After(svc.config.ResyncInterval):
			startedAt := svc.config.Clock.Now()

			if err := svc.config.Sync.ResyncAll(); err != nil {
				svc.config.Logger.WithField("err", err).Error("resync sweep failed")

				continue
			}

			svc.config.Logger.WithField(
				"sweep_duration", svc.config.Clock.Now().Sub(startedAt).String(),
			).Info("resync sweep complete")
		}
	}
}
