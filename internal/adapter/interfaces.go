// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package adapter

import (
	"context"
	"io"

	"github.com/avetra/bizsync/internal/store"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mocks.go -package=mock

// RemoteInstance is the sync engine's view of the remote deployment. It
// exposes the remote entities through the same [store.EntityStore] contract
// as the local SQLite store, so the pipeline swaps source and destination
// freely, plus the snapshot endpoints used by the bulk method.
//
// How the bytes actually move is out of scope for the engine; this
// interface is the seam.
type RemoteInstance interface {
	store.EntityStore

	// PrepareSnapshot asks the remote side to dump itself into a staged
	// snapshot and returns the framed snapshot size in bytes.
	PrepareSnapshot(ctx context.Context) (int64, error)

	// DownloadSnapshot streams the staged snapshot. The caller must close
	// the returned reader. The size is the total framed length, used for
	// progress estimation.
	DownloadSnapshot(ctx context.Context) (io.ReadCloser, int64, error)

	// UploadSnapshot ships a framed snapshot to the remote side's staging
	// area. Nothing is applied yet; RestoreSnapshot does that.
	UploadSnapshot(ctx context.Context, src io.Reader, size int64) error

	// RestoreSnapshot asks the remote side to verify and apply its staged
	// snapshot as one atomic unit, returning the number of entities
	// applied.
	RestoreSnapshot(ctx context.Context) (int, error)
}
