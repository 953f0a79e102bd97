// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/snapshot"
	"github.com/avetra/bizsync/internal/store"
	"github.com/avetra/bizsync/models"
)

// InstanceService is the server side of the sync protocol: the surface a
// peer deployment's adapter talks to. Record operations delegate to the
// local entity store; snapshot operations manage one prepared (outgoing)
// and one staged (incoming) spool file at a time.
type InstanceService interface {
	Types(ctx context.Context) ([]string, error)
	Records(ctx context.Context, entityType string) ([]models.EntityRecord, error)
	ChangesSince(ctx context.Context, entityType string, sinceSeq int64) ([]models.EntityRecord, error)
	ApplyBatch(ctx context.Context, records []models.EntityRecord) (int, error)
	ReplaceAll(ctx context.Context, records []models.EntityRecord) (int, error)
	Exists(ctx context.Context, entityType, key string) (bool, error)

	// PrepareSnapshot dumps the local store into an outgoing spool and
	// returns its framed size.
	PrepareSnapshot(ctx context.Context) (int64, error)

	// OpenSnapshot opens the prepared spool for download.
	OpenSnapshot(ctx context.Context) (io.ReadCloser, int64, error)

	// StageSnapshot spools an incoming snapshot to disk without applying
	// it.
	StageSnapshot(ctx context.Context, src io.Reader) (int64, error)

	// RestoreStaged verifies the staged snapshot and swaps it into the
	// local store as one atomic unit.
	RestoreStaged(ctx context.Context) (int, error)
}

type instanceService struct {
	local    store.EntityStore
	order    []string
	spoolDir string

	mu       sync.Mutex
	prepared string
	staged   string
}

// NewInstanceService builds the peer-facing service over the local entity
// store. spoolDir holds the snapshot spool files; empty means the system
// temp directory.
func NewInstanceService(local store.EntityStore, order []string, spoolDir string) InstanceService {
	return &instanceService{local: local, order: order, spoolDir: spoolDir}
}

func (s *instanceService) Types(ctx context.Context) ([]string, error) {
	return s.local.Types(ctx)
}

func (s *instanceService) Records(ctx context.Context, entityType string) ([]models.EntityRecord, error) {
	return s.local.All(ctx, entityType)
}

func (s *instanceService) ChangesSince(ctx context.Context, entityType string, sinceSeq int64) ([]models.EntityRecord, error) {
	return s.local.ChangesSince(ctx, entityType, sinceSeq)
}

func (s *instanceService) ApplyBatch(ctx context.Context, records []models.EntityRecord) (int, error) {
	return s.local.Apply(ctx, records)
}

func (s *instanceService) ReplaceAll(ctx context.Context, records []models.EntityRecord) (int, error) {
	return s.local.ReplaceAll(ctx, records)
}

func (s *instanceService) Exists(ctx context.Context, entityType, key string) (bool, error) {
	return s.local.Exists(ctx, entityType, key)
}

func (s *instanceService) PrepareSnapshot(ctx context.Context) (int64, error) {
	spool, err := os.CreateTemp(s.spoolDir, "bizsync-outgoing-*.bsnp")
	if err != nil {
		return 0, fmt.Errorf("create outgoing spool: %w", err)
	}
	defer spool.Close()

	enc, err := snapshot.NewEncoder(spool)
	if err != nil {
		_ = os.Remove(spool.Name())
		return 0, err
	}
	entities, err := store.NewEntityDumper(s.local, s.order).Dump(ctx, enc)
	if err != nil {
		_ = os.Remove(spool.Name())
		return 0, fmt.Errorf("dump snapshot: %w", err)
	}
	if err = enc.Close(); err != nil {
		_ = os.Remove(spool.Name())
		return 0, err
	}

	s.mu.Lock()
	if s.prepared != "" {
		_ = os.Remove(s.prepared)
	}
	s.prepared = spool.Name()
	s.mu.Unlock()

	logger.FromContext(ctx).Info().
		Str("func", "instanceService.PrepareSnapshot").
		Int("entities", entities).
		Int64("bytes", enc.BytesWritten()).
		Msg("outgoing snapshot prepared")

	return enc.BytesWritten(), nil
}

func (s *instanceService) OpenSnapshot(_ context.Context) (io.ReadCloser, int64, error) {
	s.mu.Lock()
	path := s.prepared
	s.mu.Unlock()
	if path == "" {
		return nil, 0, fmt.Errorf("%w: call prepare first", ErrValidation)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open prepared snapshot: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, info.Size(), nil
}

func (s *instanceService) StageSnapshot(ctx context.Context, src io.Reader) (int64, error) {
	spool, err := os.CreateTemp(s.spoolDir, "bizsync-incoming-*.bsnp")
	if err != nil {
		return 0, fmt.Errorf("create incoming spool: %w", err)
	}

	written, err := io.Copy(spool, src)
	if closeErr := spool.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(spool.Name())
		return 0, fmt.Errorf("stage snapshot: %w", err)
	}

	s.mu.Lock()
	if s.staged != "" {
		_ = os.Remove(s.staged)
	}
	s.staged = spool.Name()
	s.mu.Unlock()

	logger.FromContext(ctx).Info().
		Str("func", "instanceService.StageSnapshot").
		Int64("bytes", written).
		Msg("incoming snapshot staged")

	return written, nil
}

func (s *instanceService) RestoreStaged(ctx context.Context) (int, error) {
	s.mu.Lock()
	path := s.staged
	s.staged = ""
	s.mu.Unlock()
	if path == "" {
		return 0, fmt.Errorf("%w: no snapshot staged", ErrValidation)
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open staged snapshot: %w", err)
	}
	defer f.Close()

	dec, err := snapshot.Open(f, s.spoolDir)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	defer dec.Close()

	applied, err := store.NewEntityRestorer(s.local).Restore(ctx, dec)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrApply, err)
	}

	return applied, nil
}
