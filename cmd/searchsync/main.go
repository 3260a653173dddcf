package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skillstack/searchsync/config"
	"github.com/skillstack/searchsync/service/resync"
)

const appName = "searchsync"

var configPath string

func main() {
	host, _ := os.Hostname()
	// Instantiate a root logger that will be passed to all components.
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"host": host,
	})

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Keeps the federated search document index in sync with the platform's source tables",
	}
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "configs/searchsync.yaml",
		"Path to the yaml configuration file",
	)

	rootCmd.AddCommand(
		newRunCmd(logger),
		newResyncCmd(logger),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.WithField("err", err).Error("shutting down due to an error")
		os.Exit(1)
	}
}

// newRunCmd returns the long-running mode: an initial full resync
// followed by periodic sweeps until an os signal stops the process.
// Change capture keeps documents fresh between sweeps when the source
// store supports commit hooks.
func newRunCmd(logger *logrus.Entry) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the synchronization engine with periodic full resyncs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			deps, err := wire(cfg, logger)
			if err != nil {
				return err
			}
			defer deps.close(logger)

			// Seed the document set before serving change capture.
			if err := deps.sync.ResyncAll(); err != nil {
				return err
			}

			svc, err := resync.New(resync.Config{
				Sync:           deps.sync,
				ResyncInterval: cfg.ResyncInterval(),
				Logger:         logger.WithField("service", "resync"),
			})
			if err != nil {
				return err
			}

			ctx, cancelFn := context.WithCancel(cmd.Context())
			defer cancelFn()

			// Launch a separate process to listen and respond to os
			// signals and trigger a graceful shutdown.
			go func() {
				signalChan := make(chan os.Signal, 1)
				signal.Notify(signalChan, syscall.SIGINT, syscall.SIGHUP)

				select {
				case s := <-signalChan:
					logger.WithField("signal", s.String()).Info("shutting down due to os signal")
					cancelFn()
				case <-ctx.Done():
				}
			}()

			if err := svc.Run(ctx); err != nil {
				return err
			}

			logger.Info("shutdown complete")

			return nil
		},
	}
}

// newResyncCmd returns the one-shot mode: rebuild every document once
// and exit.
func newResyncCmd(logger *logrus.Entry) *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Rebuild the full document set once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			deps, err := wire(cfg, logger)
			if err != nil {
				return err
			}
			defer deps.close(logger)

			return deps.sync.ResyncAll()
		},
	}
}
