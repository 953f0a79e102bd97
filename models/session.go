// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package models

import "time"

// SyncDirection selects which instance is the source of truth for one
// full-sync attempt.
type SyncDirection string

const (
	// DirectionPush replicates the local instance onto the remote one.
	DirectionPush SyncDirection = "push"

	// DirectionPull replicates the remote instance onto the local one.
	DirectionPull SyncDirection = "pull"
)

// SyncMethod selects how bytes are moved between the two instances.
type SyncMethod string

const (
	// MethodBulk ships one compressed, checksummed snapshot blob.
	MethodBulk SyncMethod = "bulk"

	// MethodIncremental ships entity records one batch at a time,
	// ordered by per-type sequence numbers.
	MethodIncremental SyncMethod = "incremental"
)

// SyncPhase is one ordered stage of a sync session's lifecycle.
type SyncPhase string

const (
	PhasePending   SyncPhase = "pending"
	PhaseBackup    SyncPhase = "backup"
	PhaseTransfer  SyncPhase = "transfer"
	PhaseConvert   SyncPhase = "convert"
	PhaseRestore   SyncPhase = "restore"
	PhaseVerify    SyncPhase = "verify"
	PhaseCompleted SyncPhase = "completed"
	PhaseFailed    SyncPhase = "failed"
	PhaseCancelled SyncPhase = "cancelled"
)

// Terminal reports whether the phase ends the session. No transition may
// leave a terminal phase.
func (p SyncPhase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed || p == PhaseCancelled
}

// SyncSession is the durable record of one full-sync attempt. It is the
// single source of truth for the session's phase: only the driver process
// holding the session's lease may mutate it.
type SyncSession struct {
	// ID is an opaque session identifier (UUID string).
	ID string `json:"id"`

	// PairKey identifies the {source, destination} instance pair. At most
	// one non-terminal session may exist per pair.
	PairKey string `json:"pair_key"`

	Direction SyncDirection `json:"direction"`
	Method    SyncMethod    `json:"method"`
	Phase     SyncPhase     `json:"phase"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// EstimatedCompletion is derived from TransferSpeed and the remaining
	// work. Nil while the speed is zero or unknown.
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`

	// TransferSpeed is an exponentially weighted moving average of bytes
	// (bulk) or entities (incremental) per second.
	TransferSpeed float64 `json:"transfer_speed"`

	// Byte counters are maintained for the bulk method only.
	BytesTotal       int64 `json:"bytes_total"`
	BytesTransferred int64 `json:"bytes_transferred"`

	// Entity counters are maintained for the incremental method only.
	EntitiesTotal       int64 `json:"entities_total"`
	EntitiesTransferred int64 `json:"entities_transferred"`

	// Cursors records the last confirmed sequence number per entity type,
	// kept so a resumed sync requests only records past them.
	Cursors map[string]int64 `json:"cursors,omitempty"`

	// ErrorMessage is set only when Phase is "failed".
	ErrorMessage string `json:"error_message,omitempty"`

	// ReconciliationReportID is set once the verify phase has produced a
	// report for this session.
	ReconciliationReportID string `json:"reconciliation_report_id,omitempty"`
}

// SyncFilter narrows a sync to a subset of entity types. An empty filter
// means all configured types.
type SyncFilter struct {
	EntityTypes []string `json:"entity_types,omitempty"`
}
