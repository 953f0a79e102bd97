package models

// StartSyncResponse acknowledges a newly created sync session.
type StartSyncResponse struct {
	SessionID string `json:"session_id"`
}

// CancelResponse reports whether a cancellation request took effect.
// Accepted is false when the session had already entered its restore
// phase, where partial application cannot be safely unwound.
type CancelResponse struct {
	SessionID string `json:"session_id"`
	Accepted  bool   `json:"accepted"`
	Reason    string `json:"reason,omitempty"`
}

// ValidateResponse is the validation report surface consumed by callers
// such as the admin UI.
type ValidateResponse struct {
	Summary       string       `json:"summary"`
	Findings      []Finding    `json:"findings"`
	OverallStatus ReportStatus `json:"overall_status"`
}

// RecordBatchResponse acknowledges an applied incremental batch.
type RecordBatchResponse struct {
	Applied int   `json:"applied"`
	Cursor  int64 `json:"cursor"`
}

// EntityTypesResponse lists the entity types known to an instance.
type EntityTypesResponse struct {
	Types  []string `json:"types"`
	Length int      `json:"length"`
}

// RecordsResponse carries entity records between instances.
type RecordsResponse struct {
	Records []EntityRecord `json:"records"`
	Length  int            `json:"length"`
}

// ExistsResponse answers a single dependency existence check.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// SnapshotInfoResponse describes a staged snapshot on the remote side.
type SnapshotInfoResponse struct {
	BytesTotal int64 `json:"bytes_total"`
}

// AppliedResponse reports how many entities a restore or replace wrote.
type AppliedResponse struct {
	Applied int `json:"applied"`
}
