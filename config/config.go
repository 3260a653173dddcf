// Package config loads and validates the yaml configuration consumed by
// the searchsync binary.
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Supported backend names.
const (
	BackendMemory      = "memory"
	BackendES          = "es"
	BackendCockroachDB = "cdb"
)

// Config holds the full runtime configuration.
type Config struct {
	Store struct {
		Backend string `koanf:"backend"`
		ES      struct {
			Nodes       []string `koanf:"nodes"`
			SyncUpdates bool     `koanf:"sync_updates"`
		} `koanf:"es"`
		CDB struct {
			DSN string `koanf:"dsn"`
		} `koanf:"cdb"`
	} `koanf:"store"`

	Source struct {
		Backend string `koanf:"backend"`
		CDB     struct {
			DSN string `koanf:"dsn"`
		} `koanf:"cdb"`
	} `koanf:"source"`

	Resync struct {
		IntervalSeconds int `koanf:"interval_seconds"`
	} `koanf:"resync"`
}

// ResyncInterval returns the configured time between full resync
// sweeps.
func (c *Config) ResyncInterval() time.Duration {
	return time.Duration(c.Resync.IntervalSeconds) * time.Second
}

// Load reads, unmarshals and validates the yaml configuration at path.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) validate() error {
	var err error

	switch c.Store.Backend {
	case "":
		c.Store.Backend = BackendMemory
	case BackendMemory:
	case BackendES:
		if len(c.Store.ES.Nodes) == 0 {
			err = multierror.Append(err, fmt.Errorf("es document store selected but no nodes provided"))
		}
	case BackendCockroachDB:
		if c.Store.CDB.DSN == "" {
			err = multierror.Append(err, fmt.Errorf("cdb document store selected but no dsn provided"))
		}
	default:
		err = multierror.Append(err, fmt.Errorf("unsupported document store backend %q", c.Store.Backend))
	}

	switch c.Source.Backend {
	case "":
		c.Source.Backend = BackendMemory
	case BackendMemory:
	case BackendCockroachDB:
		if c.Source.CDB.DSN == "" {
			err = multierror.Append(err, fmt.Errorf("cdb source store selected but no dsn provided"))
		}
	default:
		err = multierror.Append(err, fmt.Errorf("unsupported source store backend %q", c.Source.Backend))
	}

	if c.Resync.IntervalSeconds < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for resync interval"))
	}

	if c.Resync.IntervalSeconds == 0 {
		c.Resync.IntervalSeconds = 3600
	}

	return err
}
