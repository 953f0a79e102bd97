// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package store

import (
	"context"
	"time"

	"github.com/avetra/bizsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mocks.go -package=mock

// SessionRegistry is the durable record of past and active sync sessions,
// their reconciliation reports, and the per-pair ownership leases. It is an
// external collaborator: the engine treats it as the single source of truth
// for session state.
type SessionRegistry interface {
	// Save inserts or updates a session record.
	Save(ctx context.Context, session *models.SyncSession) error

	// Load returns the session for the given identifier or
	// ErrSessionNotFound.
	Load(ctx context.Context, sessionID string) (models.SyncSession, error)

	// ListActive returns every session whose phase is non-terminal.
	ListActive(ctx context.Context) ([]models.SyncSession, error)

	// SaveReport persists a reconciliation report. Reports are immutable;
	// SaveReport is called exactly once per report.
	SaveReport(ctx context.Context, report *models.ReconciliationReport) error

	// LoadReport returns the report for the given identifier or
	// ErrReportNotFound.
	LoadReport(ctx context.Context, reportID string) (models.ReconciliationReport, error)

	// AcquireLease grants ownership of the pair to owner for ttl, taking
	// over expired leases. Returns ErrLeaseHeld when a live lease belongs
	// to someone else.
	AcquireLease(ctx context.Context, pairKey, owner string, ttl time.Duration) error

	// RenewLease extends a lease the owner still holds, or returns
	// ErrLeaseLost.
	RenewLease(ctx context.Context, pairKey, owner string, ttl time.Duration) error

	// ReleaseLease drops the owner's lease. Releasing a lease that is not
	// held is not an error.
	ReleaseLease(ctx context.Context, pairKey, owner string) error
}

// EntityStore gives the sync pipeline keyed access to one instance's
// business entities in transfer form. The local SQLite implementation and
// the remote HTTP adapter both satisfy it so the pipeline stays
// direction-agnostic.
type EntityStore interface {
	// Types returns the entity types present in the store.
	Types(ctx context.Context) ([]string, error)

	// All returns every record of one entity type ordered by key.
	All(ctx context.Context, entityType string) ([]models.EntityRecord, error)

	// ChangesSince returns records of one entity type with Seq greater
	// than sinceSeq, in ascending sequence order.
	ChangesSince(ctx context.Context, entityType string, sinceSeq int64) ([]models.EntityRecord, error)

	// Apply upserts one batch of records atomically. A record whose
	// Parent does not exist fails the whole batch with
	// ErrMissingDependency. Returns the number of records written.
	Apply(ctx context.Context, records []models.EntityRecord) (int, error)

	// ReplaceAll atomically replaces the entire store contents with the
	// given records.
	ReplaceAll(ctx context.Context, records []models.EntityRecord) (int, error)

	// Exists reports whether a record with the given type and key is
	// present (and not soft-deleted).
	Exists(ctx context.Context, entityType, key string) (bool, error)
}
