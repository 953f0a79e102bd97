// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package transfer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/snapshot"
	"github.com/avetra/bizsync/internal/store"
	"github.com/avetra/bizsync/models"
)

const spoolPattern = "bizsync-snapshot-*.bsnp"

// bulkStrategy moves the full dataset as one framed snapshot. Pushing dumps
// the local store into a spool file, ships it to the remote staging area and
// triggers an atomic restore there. Pulling asks the remote side to prepare
// a snapshot, downloads and verifies it, optionally rewrites it to the
// local schema revision and swaps it in via ReplaceAll.
type bulkStrategy struct {
	local    store.EntityStore
	remote   SnapshotEndpoint
	spoolDir string
}

// NewBulk builds the bulk transfer strategy. spoolDir is where snapshot
// spool files live between phases; empty means the system temp directory.
func NewBulk(local store.EntityStore, remote SnapshotEndpoint, spoolDir string) Strategy {
	return &bulkStrategy{local: local, remote: remote, spoolDir: spoolDir}
}

func (b *bulkStrategy) Method() models.SyncMethod { return models.MethodBulk }

func (b *bulkStrategy) Backup(ctx context.Context, st *State) (bool, error) {
	log := logger.FromContext(ctx)

	if st.Direction == models.DirectionPull {
		size, err := b.remote.PrepareSnapshot(ctx)
		if err != nil {
			return false, fmt.Errorf("prepare remote snapshot: %w", err)
		}
		st.BytesTotal = size
		log.Info().Str("func", "bulkStrategy.Backup").Int64("bytes", size).Msg("remote snapshot prepared")
		return false, nil
	}

	spool, err := os.CreateTemp(b.spoolDir, spoolPattern)
	if err != nil {
		return false, fmt.Errorf("create snapshot spool: %w", err)
	}
	defer spool.Close()

	enc, err := snapshot.NewEncoder(spool)
	if err != nil {
		removeSpool(spool.Name())
		return false, err
	}

	dumper := store.NewEntityDumper(b.local, st.EntityOrder).WithTransform(st.Transform)
	entities, err := dumper.Dump(ctx, enc)
	if err != nil {
		removeSpool(spool.Name())
		return false, fmt.Errorf("dump local snapshot: %w", err)
	}
	if err = enc.Close(); err != nil {
		removeSpool(spool.Name())
		return false, err
	}

	st.SpoolPath = spool.Name()
	st.BytesTotal = enc.BytesWritten()
	st.EntitiesTotal = int64(entities)
	st.reportProgress(0, st.BytesTotal)
	log.Info().Str("func", "bulkStrategy.Backup").
		Int("entities", entities).
		Int64("bytes", st.BytesTotal).
		Msg("local snapshot written")

	return false, nil
}

func (b *bulkStrategy) Transfer(ctx context.Context, st *State) error {
	if st.Direction == models.DirectionPull {
		return b.download(ctx, st)
	}
	return b.upload(ctx, st)
}

func (b *bulkStrategy) upload(ctx context.Context, st *State) error {
	if st.SpoolPath == "" {
		return ErrNoSnapshot
	}

	spool, err := os.Open(st.SpoolPath)
	if err != nil {
		return fmt.Errorf("open snapshot spool: %w", err)
	}
	defer spool.Close()

	src := &progressReader{r: spool, total: st.BytesTotal, report: st.reportProgress}
	if err = b.remote.UploadSnapshot(ctx, src, st.BytesTotal); err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}
	st.reportProgress(st.BytesTotal, st.BytesTotal)

	return nil
}

func (b *bulkStrategy) download(ctx context.Context, st *State) error {
	body, size, err := b.remote.DownloadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("download snapshot: %w", err)
	}
	defer body.Close()
	if size > 0 {
		st.BytesTotal = size
	}

	spool, err := os.CreateTemp(b.spoolDir, spoolPattern)
	if err != nil {
		return fmt.Errorf("create snapshot spool: %w", err)
	}

	src := &progressReader{r: body, total: st.BytesTotal, report: st.reportProgress}
	written, err := io.Copy(spool, src)
	if closeErr := spool.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		removeSpool(spool.Name())
		return fmt.Errorf("spool snapshot: %w", err)
	}
	st.BytesTotal = written

	// Verify framing and checksum now, before anything touches the
	// destination.
	if err = verifySpool(spool.Name(), b.spoolDir); err != nil {
		removeSpool(spool.Name())
		return err
	}

	st.SpoolPath = spool.Name()
	st.reportProgress(written, written)

	return nil
}

func (b *bulkStrategy) Convert(ctx context.Context, st *State) (bool, error) {
	// Push snapshots are written pre-converted by the backup dump.
	if st.Transform == nil || st.Direction == models.DirectionPush {
		return true, nil
	}
	if st.SpoolPath == "" {
		return false, ErrNoSnapshot
	}

	src, err := os.Open(st.SpoolPath)
	if err != nil {
		return false, fmt.Errorf("open snapshot spool: %w", err)
	}
	defer src.Close()

	dec, err := snapshot.Open(src, b.spoolDir)
	if err != nil {
		return false, err
	}
	defer dec.Close()

	out, err := os.CreateTemp(b.spoolDir, spoolPattern)
	if err != nil {
		return false, fmt.Errorf("create snapshot spool: %w", err)
	}
	defer out.Close()

	enc, err := snapshot.NewEncoder(out)
	if err != nil {
		removeSpool(out.Name())
		return false, err
	}

	rewritten, err := store.RewriteSnapshot(ctx, dec, enc, st.Transform)
	if err != nil {
		removeSpool(out.Name())
		return false, err
	}
	if err = enc.Close(); err != nil {
		removeSpool(out.Name())
		return false, err
	}

	removeSpool(st.SpoolPath)
	st.SpoolPath = out.Name()
	st.BytesTotal = enc.BytesWritten()
	logger.FromContext(ctx).Info().
		Str("func", "bulkStrategy.Convert").
		Int("entities", rewritten).
		Msg("snapshot rewritten for destination schema")

	return false, nil
}

func (b *bulkStrategy) Restore(ctx context.Context, st *State) (Result, error) {
	if st.Direction == models.DirectionPush {
		applied, err := b.remote.RestoreSnapshot(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("restore remote snapshot: %w", err)
		}
		st.Cleanup()
		return Result{Applied: applied}, nil
	}

	if st.SpoolPath == "" {
		return Result{}, ErrNoSnapshot
	}
	spool, err := os.Open(st.SpoolPath)
	if err != nil {
		return Result{}, fmt.Errorf("open snapshot spool: %w", err)
	}
	defer spool.Close()

	dec, err := snapshot.Open(spool, b.spoolDir)
	if err != nil {
		return Result{}, err
	}
	defer dec.Close()

	applied, err := store.NewEntityRestorer(b.local).Restore(ctx, dec)
	if err != nil {
		return Result{}, fmt.Errorf("restore local snapshot: %w", err)
	}
	st.Cleanup()

	return Result{Applied: applied}, nil
}

// verifySpool runs the full decoder open over the spool file and discards
// the handle. Open checks magic, version and the SHA-256 trailer.
func verifySpool(path, dir string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot spool: %w", err)
	}
	defer f.Close()

	dec, err := snapshot.Open(f, dir)
	if err != nil {
		return err
	}

	return dec.Close()
}

func removeSpool(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

// Cleanup removes the session's spool file, if any. Safe to call twice.
func (st *State) Cleanup() {
	removeSpool(st.SpoolPath)
	st.SpoolPath = ""
}

type progressReader struct {
	r      io.Reader
	done   int64
	total  int64
	report ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.done += int64(n)
		if p.report != nil {
			p.report(p.done, p.total)
		}
	}
	return n, err
}
