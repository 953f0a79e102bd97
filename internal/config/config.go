// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package config

import (
	"time"

	"github.com/avetra/bizsync/models"
)

// StructuredConfig is the top-level configuration container for the sync
// daemon. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Server holds network address and timeout settings for the trigger
	// HTTP API.
	Server Server `envPrefix:"SERVER_"`

	// Storage holds configuration for the session registry database and
	// the local entity database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the remote-instance HTTP client settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the full-sync pipeline settings: the instance pair key,
	// entity dependency order, batching, phase budgets, and the
	// reconciliation rule set.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for the lease heartbeat and the
	// phase-timeout watchdog.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags. The JSON file
	// is the only way to supply structured values such as the
	// expected-difference rule set and schema-revision renames.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Server holds network and timeout settings for the inbound HTTP layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds the handling of a single trigger API request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for both persistence backends.
type Storage struct {
	// Registry holds the session-registry (PostgreSQL) connection settings.
	Registry DB `envPrefix:"REGISTRY_"`

	// Local holds the local entity database (SQLite) settings.
	Local DB `envPrefix:"LOCAL_"`
}

// DB holds a single database connection setting.
type DB struct {
	// DSN is the data source name understood by the backend's driver.
	// Env: STORAGE_REGISTRY_DSN / STORAGE_LOCAL_DSN
	DSN string `env:"DSN"`
}

// Adapter holds the remote-instance HTTP client settings.
type Adapter struct {
	// RemoteAddress is the base URL of the remote deployment's sync API.
	// Env: ADAPTER_REMOTE_ADDRESS
	RemoteAddress string `env:"REMOTE_ADDRESS"`

	// RequestTimeout bounds one outbound request to the remote instance.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the full-sync pipeline settings.
type Sync struct {
	// PairKey identifies the {local, remote} instance pair for the
	// single-active-session rule. Defaults to the remote address.
	// Env: SYNC_PAIR_KEY
	PairKey string `env:"PAIR_KEY"`

	// EntityOrder is the fixed cross-type dependency order: referenced
	// types listed before referencing types. Supplied by configuration,
	// never inferred.
	// Env: SYNC_ENTITY_ORDER (comma-separated)
	EntityOrder []string `env:"ENTITY_ORDER" envSeparator:","`

	// BatchSize is the number of envelopes applied per atomic batch on
	// the incremental path.
	// Env: SYNC_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`

	// MaxBatchRetries bounds how often a failing incremental batch is
	// retried before the session is failed.
	// Env: SYNC_MAX_BATCH_RETRIES
	MaxBatchRetries int `env:"MAX_BATCH_RETRIES"`

	// Phases holds the per-phase duration budgets.
	Phases PhaseBudgets `envPrefix:"PHASE_"`

	// Rules is the expected-difference rule set consumed by the
	// reconciliation engine. JSON file only.
	Rules []models.DifferenceRule `env:"-"`

	// Renames maps entityType → oldField → newField and drives the
	// convert phase when a bulk snapshot was taken in an older schema
	// revision. JSON file only.
	Renames map[string]map[string]string `env:"-"`
}

// PhaseBudgets holds the maximum duration of each pipeline phase. A phase
// exceeding its budget fails the session with a phase-timeout error.
type PhaseBudgets struct {
	Backup   time.Duration `env:"BACKUP_TIMEOUT"`
	Transfer time.Duration `env:"TRANSFER_TIMEOUT"`
	Convert  time.Duration `env:"CONVERT_TIMEOUT"`
	Restore  time.Duration `env:"RESTORE_TIMEOUT"`
	Verify   time.Duration `env:"VERIFY_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// LeaseTTL is how long an ownership token stays valid without renewal.
	// Env: WORKERS_LEASE_TTL
	LeaseTTL time.Duration `env:"LEASE_TTL"`

	// HeartbeatInterval is how often the driver renews its lease.
	// Must be shorter than LeaseTTL.
	// Env: WORKERS_HEARTBEAT_INTERVAL
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL"`

	// WatchdogInterval is how often the timeout watchdog scans active
	// sessions for exceeded phase budgets.
	// Env: WORKERS_WATCHDOG_INTERVAL
	WatchdogInterval time.Duration `env:"WATCHDOG_INTERVAL"`
}

// GetStructuredConfig builds the final configuration by layering, in order
// of increasing precedence: defaults, environment variables, command-line
// flags, and the optional JSON file named by either of the former.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

// validate checks that the final merged StructuredConfig satisfies the
// invariants the pipeline depends on.
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.HeartbeatInterval >= cfg.Workers.LeaseTTL {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Sync.BatchSize <= 0 || cfg.Sync.MaxBatchRetries < 0 {
		return ErrInvalidSyncConfigs
	}

	if len(cfg.Sync.EntityOrder) == 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

// applyDefaults fills unset fields so a minimal deployment only has to
// provide addresses and DSNs.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = "localhost:8080"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = 15 * time.Second
	}
	if cfg.Sync.PairKey == "" {
		cfg.Sync.PairKey = cfg.Adapter.RemoteAddress
	}
	if cfg.Sync.BatchSize == 0 {
		cfg.Sync.BatchSize = 100
	}
	if cfg.Sync.MaxBatchRetries == 0 {
		cfg.Sync.MaxBatchRetries = 3
	}
	if cfg.Sync.Phases.Backup == 0 {
		cfg.Sync.Phases.Backup = 10 * time.Minute
	}
	if cfg.Sync.Phases.Transfer == 0 {
		cfg.Sync.Phases.Transfer = 30 * time.Minute
	}
	if cfg.Sync.Phases.Convert == 0 {
		cfg.Sync.Phases.Convert = 10 * time.Minute
	}
	if cfg.Sync.Phases.Restore == 0 {
		cfg.Sync.Phases.Restore = 30 * time.Minute
	}
	if cfg.Sync.Phases.Verify == 0 {
		cfg.Sync.Phases.Verify = 15 * time.Minute
	}
	if cfg.Workers.LeaseTTL == 0 {
		cfg.Workers.LeaseTTL = 90 * time.Second
	}
	if cfg.Workers.HeartbeatInterval == 0 {
		cfg.Workers.HeartbeatInterval = 30 * time.Second
	}
	if cfg.Workers.WatchdogInterval == 0 {
		cfg.Workers.WatchdogInterval = time.Minute
	}
}
