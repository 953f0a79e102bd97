// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package transfer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cenkalti/backoff/v5"

	"github.com/avetra/bizsync/internal/adapter"
	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/store"
	"github.com/avetra/bizsync/models"
)

// IncrementalConfig tunes the incremental strategy.
type IncrementalConfig struct {
	// EntityOrder lists entity types parent-first. Batches are produced
	// in this order so dependencies land before their dependents.
	EntityOrder []string

	// BatchSize is the number of envelopes applied per atomic batch.
	BatchSize int

	// MaxBatchRetries bounds apply attempts per batch before the
	// transfer fails.
	MaxBatchRetries uint
}

// incrementalStrategy moves individual changed records as ordered envelope
// batches. The stream is finite and restartable: every envelope carries its
// record's per-type change sequence, and the session keeps one cursor per
// entity type naming the last sequence confirmed applied.
type incrementalStrategy struct {
	source RecordSource
	sink   RecordSink
	cfg    IncrementalConfig
}

// NewIncremental builds the incremental transfer strategy reading changes
// from source and applying them to sink.
func NewIncremental(source RecordSource, sink RecordSink, cfg IncrementalConfig) Strategy {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxBatchRetries == 0 {
		cfg.MaxBatchRetries = 3
	}
	return &incrementalStrategy{source: source, sink: sink, cfg: cfg}
}

func (i *incrementalStrategy) Method() models.SyncMethod { return models.MethodIncremental }

// Backup has nothing to stage for record-level transfers.
func (i *incrementalStrategy) Backup(_ context.Context, _ *State) (bool, error) {
	return true, nil
}

// Transfer opens the lazy envelope stream. Each entity type's changes are
// fetched only when the stream reaches that type, asking the source for
// records past the type's confirmed cursor, so a resumed transfer re-reads
// nothing already applied and at most one type's change window is held at
// a time.
func (i *incrementalStrategy) Transfer(ctx context.Context, st *State) error {
	types, err := i.orderedTypes(ctx)
	if err != nil {
		return err
	}

	wanted := make([]string, 0, len(types))
	for _, t := range types {
		if st.wantsType(t) {
			wanted = append(wanted, t)
		}
	}

	var queue []models.TransferEnvelope
	next := 0
	st.NextBatch = func(ctx context.Context) ([]models.TransferEnvelope, error) {
		for len(queue) == 0 && next < len(wanted) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			window, fetchErr := i.fetchWindow(ctx, st, wanted[next])
			if fetchErr != nil {
				return nil, fetchErr
			}
			next++
			queue = window
		}
		if len(queue) == 0 {
			return nil, nil
		}

		n := min(len(queue), i.cfg.BatchSize)
		batch := queue[:n:n]
		queue = queue[n:]
		return batch, nil
	}

	logger.FromContext(ctx).Info().
		Str("func", "incrementalStrategy.Transfer").
		Int("entity_types", len(wanted)).
		Msg("change stream opened")

	return nil
}

// fetchWindow reads one entity type's changes past its cursor and shapes
// them into envelopes: transformed, sorted into sequence order, duplicate
// sequences dropped.
func (i *incrementalStrategy) fetchWindow(ctx context.Context, st *State, entityType string) ([]models.TransferEnvelope, error) {
	since := st.cursorFor(entityType)
	records, err := i.source.ChangesSince(ctx, entityType, since)
	if err != nil {
		return nil, fmt.Errorf("list %s changes: %w", entityType, err)
	}

	window := make([]models.TransferEnvelope, 0, len(records))
	for idx := range records {
		st.transform(&records[idx])
		window = append(window, models.TransferEnvelope{
			EntityType: entityType,
			Seq:        records[idx].Seq,
			Record:     records[idx],
		})
	}
	slices.SortStableFunc(window, func(a, b models.TransferEnvelope) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	window = slices.CompactFunc(window, func(a, b models.TransferEnvelope) bool {
		return a.Seq == b.Seq
	})

	st.EntitiesTotal += int64(len(window))
	logger.FromContext(ctx).Debug().
		Str("func", "incrementalStrategy.fetchWindow").
		Str("entity_type", entityType).
		Int64("since", since).
		Int("changes", len(window)).
		Msg("change window fetched")

	return window, nil
}

// Convert is folded into Transfer, which produces records already
// transformed.
func (i *incrementalStrategy) Convert(_ context.Context, _ *State) (bool, error) {
	return true, nil
}

// Restore drains the envelope stream and applies it to the sink in atomic
// batches. A delivery window may arrive shuffled; it is ordered before
// apply, and an envelope that can no longer be slotted behind a sequence
// already applied fails the transfer. Each batch gets a bounded
// exponential-backoff retry budget.
func (i *incrementalStrategy) Restore(ctx context.Context, st *State) (Result, error) {
	res := Result{Cursors: make(map[string]int64, len(st.Cursors))}
	if st.NextBatch == nil {
		return res, nil
	}

	applied := make(map[string]int64, len(st.Cursors))
	for t, seq := range st.Cursors {
		applied[t] = seq
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		batch, err := st.NextBatch(ctx)
		if err != nil {
			return res, err
		}
		if len(batch) == 0 {
			return res, nil
		}

		batch, err = orderWindow(batch, applied, st.Cursors)
		if err != nil {
			return res, err
		}
		if len(batch) == 0 {
			continue
		}

		if err = i.applyBatch(ctx, batch); err != nil {
			return res, err
		}
		res.Applied += len(batch)
		for _, env := range batch {
			if env.Seq > applied[env.EntityType] {
				applied[env.EntityType] = env.Seq
			}
			res.Cursors[env.EntityType] = applied[env.EntityType]
		}
		last := batch[len(batch)-1]
		st.reportCursor(last.EntityType, applied[last.EntityType])
		st.reportProgress(int64(res.Applied), st.EntitiesTotal)
	}
}

// orderWindow sorts one delivery window into sequence order and drops
// envelopes the destination already has. An envelope at or below its type's
// resume cursor is a redelivery and is skipped; one at or below a sequence
// applied during this run arrived after its successor and can no longer be
// ordered, which is a sequence gap.
func orderWindow(batch []models.TransferEnvelope, applied, resumed map[string]int64) ([]models.TransferEnvelope, error) {
	slices.SortStableFunc(batch, func(a, b models.TransferEnvelope) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	out := batch[:0]
	for _, env := range batch {
		if n := len(out); n > 0 && out[n-1].EntityType == env.EntityType && out[n-1].Seq == env.Seq {
			continue
		}
		if env.Seq <= resumed[env.EntityType] {
			continue
		}
		if env.Seq <= applied[env.EntityType] {
			return nil, fmt.Errorf("%w: %s seq %d arrived after seq %d was applied",
				ErrSequenceGap, env.EntityType, env.Seq, applied[env.EntityType])
		}
		out = append(out, env)
	}

	return out, nil
}

func (i *incrementalStrategy) applyBatch(ctx context.Context, batch []models.TransferEnvelope) error {
	records := make([]models.EntityRecord, len(batch))
	for idx, env := range batch {
		records[idx] = env.Record
	}

	op := func() (int, error) {
		n, err := i.sink.Apply(ctx, records)
		if err != nil && !retryableApplyError(err) {
			return n, backoff.Permanent(err)
		}
		return n, err
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(i.cfg.MaxBatchRetries))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBatchApply, err)
	}

	return nil
}

// retryableApplyError reports whether another attempt could succeed. A
// missing dependency or an outright rejection will not fix itself.
func retryableApplyError(err error) bool {
	switch {
	case errors.Is(err, store.ErrMissingDependency),
		errors.Is(err, adapter.ErrMissingDependency),
		errors.Is(err, adapter.ErrRemoteRejected):
		return false
	}
	return true
}

func (i *incrementalStrategy) orderedTypes(ctx context.Context) ([]string, error) {
	present, err := i.source.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entity types: %w", err)
	}

	presentSet := make(map[string]struct{}, len(present))
	for _, t := range present {
		presentSet[t] = struct{}{}
	}

	types := make([]string, 0, len(present))
	seen := make(map[string]struct{}, len(i.cfg.EntityOrder))
	for _, t := range i.cfg.EntityOrder {
		seen[t] = struct{}{}
		if _, ok := presentSet[t]; ok {
			types = append(types, t)
		}
	}
	for _, t := range present {
		if _, ok := seen[t]; !ok {
			types = append(types, t)
		}
	}

	return types, nil
}
