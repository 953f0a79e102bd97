// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v5"

	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/models"
)

// sessionRegistry is the PostgreSQL-backed implementation of
// [SessionRegistry]. It persists sessions, reports, and leases in the
// sync_sessions, reconciliation_reports, and sync_leases tables using the
// embedded [*DB] connection.
//
// Write statements go through exec, which retries failures the
// [PostgresErrorClassifier] reports as transient (connection loss,
// deadlock, serialization) with bounded exponential backoff.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (session_id, pair_key, etc.).
type sessionRegistry struct {
	*DB
	logger     *logger.Logger
	classifier *PostgresErrorClassifier
}

// NewSessionRegistry constructs a [SessionRegistry] backed by the provided
// database connection and logger.
func NewSessionRegistry(db *DB, logger *logger.Logger) SessionRegistry {
	return &sessionRegistry{
		DB:         db,
		logger:     logger,
		classifier: NewPostgresErrorClassifier(),
	}
}

var sessionColumns = []string{
	"id", "pair_key", "direction", "method", "phase", "started_at", "updated_at",
	"estimated_completion", "transfer_speed", "bytes_total", "bytes_transferred",
	"entities_total", "entities_transferred", "cursors", "error_message", "report_id",
}

// writeRetryTries bounds attempts for registry writes that keep failing
// with a transient PostgreSQL error.
const writeRetryTries = 3

// exec runs one write statement, retrying while the classifier reports the
// failure as transient.
func (r *sessionRegistry) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	op := func() (sql.Result, error) {
		res, err := r.DB.ExecContext(ctx, query, args...)
		if err != nil && r.classifier.Classify(err) != Retryable {
			return nil, backoff.Permanent(err)
		}
		return res, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(writeRetryTries))
}

func (r *sessionRegistry) Save(ctx context.Context, session *models.SyncSession) error {
	log := logger.FromContext(ctx)

	var eta sql.NullTime
	if session.EstimatedCompletion != nil {
		eta = sql.NullTime{Time: *session.EstimatedCompletion, Valid: true}
	}

	cursors, err := json.Marshal(session.Cursors)
	if err != nil {
		return fmt.Errorf("encode session cursors: %w", err)
	}

	_, err = r.exec(ctx, saveSession,
		session.ID,
		session.PairKey,
		string(session.Direction),
		string(session.Method),
		string(session.Phase),
		session.StartedAt,
		session.UpdatedAt,
		eta,
		session.TransferSpeed,
		session.BytesTotal,
		session.BytesTransferred,
		session.EntitiesTotal,
		session.EntitiesTransferred,
		cursors,
		nullString(session.ErrorMessage),
		nullString(session.ReconciliationReportID),
	)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRegistry.Save").
			Str("session_id", session.ID).
			Str("pg_code", postgresError(err)).
			Msg("failed to save sync session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sessionRegistry) Load(ctx context.Context, sessionID string) (models.SyncSession, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, loadSession, sessionID)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SyncSession{}, ErrSessionNotFound
		}
		log.Err(err).
			Str("func", "sessionRegistry.Load").
			Str("session_id", sessionID).
			Msg("failed to load sync session")
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return session, nil
}

// ListActive returns sessions whose phase is non-terminal, newest first.
// The query is built with squirrel because the filter set varies between
// deployments (terminal phases are a closed set today but the registry is
// also queried with pair filters by operational tooling).
func (r *sessionRegistry) ListActive(ctx context.Context) ([]models.SyncSession, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(sessionColumns...).
		From("sync_sessions").
		Where(sq.NotEq{"phase": []string{
			string(models.PhaseCompleted),
			string(models.PhaseFailed),
			string(models.PhaseCancelled),
		}}).
		OrderBy("started_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "sessionRegistry.ListActive").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "sessionRegistry.ListActive").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	sessions := make([]models.SyncSession, 0, 4)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		sessions = append(sessions, session)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return sessions, nil
}

func (r *sessionRegistry) SaveReport(ctx context.Context, report *models.ReconciliationReport) error {
	log := logger.FromContext(ctx)

	findings, err := json.Marshal(report.Findings)
	if err != nil {
		return fmt.Errorf("encode report findings: %w", err)
	}

	_, err = r.exec(ctx, saveReport,
		report.ID,
		report.SessionID,
		report.CreatedAt,
		report.ExactMatches,
		report.ExpectedDifferences,
		report.UnexpectedMismatches,
		findings,
		string(report.Status),
	)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRegistry.SaveReport").
			Str("report_id", report.ID).
			Str("session_id", report.SessionID).
			Msg("failed to save reconciliation report")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sessionRegistry) LoadReport(ctx context.Context, reportID string) (models.ReconciliationReport, error) {
	log := logger.FromContext(ctx)

	var report models.ReconciliationReport
	var findings []byte
	var status string

	err := r.DB.QueryRowContext(ctx, loadReport, reportID).Scan(
		&report.ID,
		&report.SessionID,
		&report.CreatedAt,
		&report.ExactMatches,
		&report.ExpectedDifferences,
		&report.UnexpectedMismatches,
		&findings,
		&status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ReconciliationReport{}, ErrReportNotFound
		}
		log.Err(err).
			Str("func", "sessionRegistry.LoadReport").
			Str("report_id", reportID).
			Msg("failed to load reconciliation report")
		return models.ReconciliationReport{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err = json.Unmarshal(findings, &report.Findings); err != nil {
		return models.ReconciliationReport{}, fmt.Errorf("decode report findings: %w", err)
	}
	report.Status = models.ReportStatus(status)

	return report, nil
}

func (r *sessionRegistry) AcquireLease(ctx context.Context, pairKey, owner string, ttl time.Duration) error {
	log := logger.FromContext(ctx)

	res, err := r.exec(ctx, acquireLease, pairKey, owner, time.Now().Add(ttl))
	if err != nil {
		log.Err(err).
			Str("func", "sessionRegistry.AcquireLease").
			Str("pair_key", pairKey).
			Str("owner", owner).
			Msg("failed to acquire lease")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrLeaseHeld
	}

	return nil
}

func (r *sessionRegistry) RenewLease(ctx context.Context, pairKey, owner string, ttl time.Duration) error {
	res, err := r.exec(ctx, renewLease, pairKey, owner, time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrLeaseLost
	}

	return nil
}

func (r *sessionRegistry) ReleaseLease(ctx context.Context, pairKey, owner string) error {
	if _, err := r.exec(ctx, releaseLease, pairKey, owner); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (models.SyncSession, error) {
	var session models.SyncSession
	var direction, method, phase string
	var eta sql.NullTime
	var cursors []byte
	var errorMessage, reportID sql.NullString

	err := row.Scan(
		&session.ID,
		&session.PairKey,
		&direction,
		&method,
		&phase,
		&session.StartedAt,
		&session.UpdatedAt,
		&eta,
		&session.TransferSpeed,
		&session.BytesTotal,
		&session.BytesTransferred,
		&session.EntitiesTotal,
		&session.EntitiesTransferred,
		&cursors,
		&errorMessage,
		&reportID,
	)
	if err != nil {
		return models.SyncSession{}, err
	}

	session.Direction = models.SyncDirection(direction)
	session.Method = models.SyncMethod(method)
	session.Phase = models.SyncPhase(phase)
	if len(cursors) > 0 {
		if err = json.Unmarshal(cursors, &session.Cursors); err != nil {
			return models.SyncSession{}, fmt.Errorf("decode session cursors: %w", err)
		}
	}
	if eta.Valid {
		t := eta.Time
		session.EstimatedCompletion = &t
	}
	session.ErrorMessage = errorMessage.String
	session.ReconciliationReportID = reportID.String

	return session, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
