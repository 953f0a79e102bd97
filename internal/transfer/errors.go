package transfer

import "errors"

var (
	// ErrSequenceGap means an incremental stream delivered an envelope
	// that can no longer be ordered behind sequences already applied.
	ErrSequenceGap = errors.New("gap in envelope sequence")

	// ErrBatchApply means a batch could not be applied at the destination
	// after exhausting its retry budget.
	ErrBatchApply = errors.New("batch apply failed")

	// ErrNoSnapshot means a bulk phase ran before the phase that should
	// have produced its snapshot.
	ErrNoSnapshot = errors.New("no snapshot staged")
)
