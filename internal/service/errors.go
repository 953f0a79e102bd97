package service

import "errors"

var (
	// ErrValidation rejects a bad direction/method/filter combination
	// before any phase starts.
	ErrValidation = errors.New("invalid sync request")

	// ErrIntegrity means an incoming snapshot failed its checksum; the
	// transfer was aborted and no restore was attempted.
	ErrIntegrity = errors.New("snapshot integrity check failed")

	// ErrConflict means a sync is already in progress for this pair.
	ErrConflict = errors.New("sync already in progress for this pair")

	// ErrPhaseTimeout means a phase exceeded its duration budget.
	ErrPhaseTimeout = errors.New("phase exceeded its time budget")

	// ErrApply means a record or snapshot could not be written to the
	// destination.
	ErrApply = errors.New("apply to destination failed")

	// ErrTooLate refuses a cancellation requested after restore began,
	// where partial application cannot be safely unwound.
	ErrTooLate = errors.New("too late to cancel: restore has begun")

	// ErrIllegalTransition means a phase change not present in the
	// transition table was attempted.
	ErrIllegalTransition = errors.New("illegal phase transition")
)
