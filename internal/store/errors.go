package store

import "errors"

// Infrastructure errors shared by every SQL-backed store. Handlers map them
// to HTTP statuses; services match them with errors.Is.
var (
	ErrBuildingSQLQuery     = errors.New("error building SQL query")
	ErrExecutingQuery       = errors.New("error executing query")
	ErrBeginningTransaction = errors.New("error beginning transaction")
	ErrCommitingTransaction = errors.New("error commiting transaction")
	ErrScanningRow          = errors.New("error scanning row")
	ErrScanningRows         = errors.New("error scanning rows")
)

// Domain errors surfaced by the session registry and entity store.
var (
	// ErrSessionNotFound is returned when no session exists for the
	// requested identifier.
	ErrSessionNotFound = errors.New("sync session not found")

	// ErrReportNotFound is returned when no reconciliation report exists
	// for the requested identifier.
	ErrReportNotFound = errors.New("reconciliation report not found")

	// ErrLeaseHeld is returned by AcquireLease when another live driver
	// already owns the pair's lease.
	ErrLeaseHeld = errors.New("sync lease held by another driver")

	// ErrLeaseLost is returned by RenewLease when the caller no longer
	// owns the lease (expired and taken over, or released).
	ErrLeaseLost = errors.New("sync lease lost")

	// ErrMissingDependency is returned when a record references a parent
	// entity that does not exist on the destination.
	ErrMissingDependency = errors.New("missing dependency")
)
