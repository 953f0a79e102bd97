// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package service

import (
	"context"

	"github.com/avetra/bizsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mocks.go -package=mock

// SyncEngine owns the lifecycle of full-sync sessions: it validates and
// creates them, drives them asynchronously through the phase pipeline, and
// answers status, cancellation, report and validation queries.
type SyncEngine interface {
	// StartSync validates the request, enforces the one-active-session-
	// per-pair rule and launches the pipeline. Returns ErrValidation for
	// an unsupported combination and ErrConflict when the pair is busy.
	StartSync(ctx context.Context, req models.StartSyncRequest) (models.StartSyncResponse, error)

	// GetStatus returns the latest known session snapshot, including
	// counters of a phase that is currently failing.
	GetStatus(ctx context.Context, sessionID string) (models.SyncSession, error)

	// Cancel requests cooperative cancellation. Accepted is false with a
	// reason once restore has begun or the session is already terminal.
	Cancel(ctx context.Context, sessionID string) (models.CancelResponse, error)

	// GetReport returns a persisted reconciliation report.
	GetReport(ctx context.Context, reportID string) (models.ReconciliationReport, error)

	// Validate serves the validation report surface: either the report of
	// a past session, or an integrity check plus comparison of a raw
	// snapshot against the local instance.
	Validate(ctx context.Context, req models.ValidateRequest) (models.ValidateResponse, error)

	// ResumeActive re-drives non-terminal sessions found in the registry
	// after a process restart.
	ResumeActive(ctx context.Context) error

	// RenewLeases extends the ownership token covering the active runs.
	// Called by the heartbeat worker.
	RenewLeases(ctx context.Context) error

	// FailStalled fails registry sessions whose driver stopped updating
	// them past their phase budget. Called by the watchdog worker.
	FailStalled(ctx context.Context) error

	// Shutdown cancels active runs and waits for them to settle.
	Shutdown(ctx context.Context) error
}

// EntitySnapshot is the read surface the reconciliation engine needs from
// one side of a comparison. Both entity stores and decoded raw snapshots
// satisfy it.
type EntitySnapshot interface {
	Types(ctx context.Context) ([]string, error)
	All(ctx context.Context, entityType string) ([]models.EntityRecord, error)
}

// Reconciler compares two data sets after a restore and classifies every
// entity by cause.
type Reconciler interface {
	Compare(ctx context.Context, source, target EntitySnapshot, direction models.SyncDirection) (models.ReconciliationReport, error)
}
