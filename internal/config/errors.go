package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or inconsistent.
var (
	// ErrInvalidSyncConfigs indicates invalid sync pipeline settings
	// (for example, an empty entity order or a non-positive batch size).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a heartbeat interval not shorter than the lease TTL).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
