// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package models

// StartSyncRequest is posted by the web layer to trigger a full sync.
type StartSyncRequest struct {
	Direction SyncDirection `json:"direction"`
	Method    SyncMethod    `json:"method"`
	Filter    SyncFilter    `json:"filter,omitempty"`
}

// ValidateRequest asks for a reconciliation report outside the normal sync
// pipeline. Exactly one of SessionID or RawSnapshot must be set: SessionID
// returns the report attached to a past session, RawSnapshot runs an
// integrity check plus a comparison of the decoded snapshot against the
// local instance.
type ValidateRequest struct {
	SessionID   string `json:"session_id,omitempty"`
	RawSnapshot []byte `json:"raw_snapshot,omitempty"`
}

// RecordBatchRequest carries one atomic batch of entity records between
// instances on the incremental path.
type RecordBatchRequest struct {
	SessionID string             `json:"session_id"`
	Envelopes []TransferEnvelope `json:"envelopes"`
	Length    int                `json:"length"`
}

// ReplaceRecordsRequest atomically replaces an instance's entity set.
type ReplaceRecordsRequest struct {
	Records []EntityRecord `json:"records"`
	Length  int            `json:"length"`
}
