// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package transfer

import (
	"context"
	"io"

	"github.com/avetra/bizsync/models"
)

//go:generate mockgen -source=strategy.go -destination=../mock/transfer_mocks.go -package=mock

// ProgressFunc reports pipeline progress. For bulk strategies done and
// total are bytes; for incremental they are entity counts. total is 0
// while still unknown.
type ProgressFunc func(done, total int64)

// CursorFunc reports the highest sequence confirmed applied at the
// destination for one entity type, so the owning session can persist its
// resume point.
type CursorFunc func(entityType string, seq int64)

// State carries one sync session's transfer inputs and the intermediate
// stream produced along the way. The engine constructs it at session start
// and threads it through every phase of the chosen strategy.
type State struct {
	Direction   models.SyncDirection
	EntityOrder []string
	Filter      *models.SyncFilter

	// Cursors holds the last sequence already applied at the destination
	// per entity type. A missing type starts from the beginning.
	Cursors map[string]int64

	// Transform adapts records written under an older schema revision to
	// the destination's expected shape. Nil when no conversion is
	// configured.
	Transform func(*models.EntityRecord)

	Progress ProgressFunc
	OnCursor CursorFunc

	// SpoolPath points at the verified framed snapshot on local disk
	// between the bulk phases. Owned by the strategy.
	SpoolPath  string
	BytesTotal int64

	// NextBatch yields the next ordered envelope batch of an incremental
	// stream, nil once the stream is exhausted. Transfer sets it so the
	// restore phase consumes the stream one window at a time instead of
	// holding it whole. Each yielded batch covers a single entity type.
	NextBatch func(ctx context.Context) ([]models.TransferEnvelope, error)

	// EntitiesTotal grows as change windows are fetched; it is complete
	// only once NextBatch is drained.
	EntitiesTotal int64
}

// Result summarizes a completed restore phase.
type Result struct {
	Applied int

	// Cursors holds the per-type resume point after the last applied
	// envelope. Bulk strategies report nil.
	Cursors map[string]int64
}

// Strategy moves one session's data between the two instances. Both
// variants satisfy the same contract so the engine can drive either
// through the same phase sequence: Backup stages the source data,
// Transfer moves it toward the destination, Convert adapts it to the
// destination's schema revision, and Restore applies it in atomic units.
// Phases that a variant has no work for report skipped.
type Strategy interface {
	Method() models.SyncMethod

	Backup(ctx context.Context, st *State) (skipped bool, err error)
	Transfer(ctx context.Context, st *State) error
	Convert(ctx context.Context, st *State) (skipped bool, err error)
	Restore(ctx context.Context, st *State) (Result, error)
}

// SnapshotEndpoint is the remote side of a bulk transfer. The HTTP
// adapter satisfies it.
type SnapshotEndpoint interface {
	PrepareSnapshot(ctx context.Context) (int64, error)
	DownloadSnapshot(ctx context.Context) (io.ReadCloser, int64, error)
	UploadSnapshot(ctx context.Context, src io.Reader, size int64) error
	RestoreSnapshot(ctx context.Context) (int, error)
}

// RecordSource feeds an incremental transfer. Both the local entity store
// and the remote adapter satisfy it.
type RecordSource interface {
	Types(ctx context.Context) ([]string, error)
	ChangesSince(ctx context.Context, entityType string, sinceSeq int64) ([]models.EntityRecord, error)
}

// RecordSink receives incremental batches. Apply is atomic per batch.
type RecordSink interface {
	Apply(ctx context.Context, records []models.EntityRecord) (int, error)
}

func (st *State) reportProgress(done, total int64) {
	if st.Progress != nil {
		st.Progress(done, total)
	}
}

func (st *State) reportCursor(entityType string, seq int64) {
	if st.OnCursor != nil {
		st.OnCursor(entityType, seq)
	}
}

func (st *State) cursorFor(entityType string) int64 {
	return st.Cursors[entityType]
}

func (st *State) transform(record *models.EntityRecord) {
	if st.Transform != nil {
		st.Transform(record)
	}
}

func (st *State) wantsType(entityType string) bool {
	if st.Filter == nil || len(st.Filter.EntityTypes) == 0 {
		return true
	}
	for _, t := range st.Filter.EntityTypes {
		if t == entityType {
			return true
		}
	}
	return false
}
