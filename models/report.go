// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package models

import "time"

// FindingClass is the per-entity outcome of a reconciliation comparison.
type FindingClass string

const (
	// ClassExactMatch means both sides hold identical field values.
	ClassExactMatch FindingClass = "exact_match"

	// ClassExpectedDifference means the sides diverge only in ways a
	// configured rule declares to be a natural consequence of syncing
	// (server-set timestamps, sequence counters, post-push presence).
	ClassExpectedDifference FindingClass = "expected_difference"

	// ClassUnexpectedMismatch means the divergence is not covered by any
	// rule and indicates a defect in the transfer.
	ClassUnexpectedMismatch FindingClass = "unexpected_mismatch"
)

// ReportStatus summarizes a whole reconciliation run.
type ReportStatus string

const (
	// StatusClean means zero unexpected mismatches were found.
	StatusClean ReportStatus = "clean"

	// StatusDegraded means unexpected mismatches were found but every
	// entity type was compared end to end.
	StatusDegraded ReportStatus = "degraded"

	// StatusFailed means the comparison input could not be read, so the
	// counts are not trustworthy.
	StatusFailed ReportStatus = "failed"
)

// Finding records the comparison outcome for a single entity.
type Finding struct {
	EntityType     string       `json:"entity_type"`
	EntityID       string       `json:"entity_id"`
	Classification FindingClass `json:"classification"`
	SourceValue    string       `json:"source_value,omitempty"`
	TargetValue    string       `json:"target_value,omitempty"`

	// ReasonCode names the rule that produced the classification, or the
	// field list that diverged for an unexpected mismatch.
	ReasonCode string `json:"reason_code,omitempty"`
}

// ReconciliationReport is the immutable result of comparing source and
// target after a sync. It is created once, owned by exactly one
// SyncSession, and never modified afterwards.
type ReconciliationReport struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`

	ExactMatches         int `json:"exact_matches"`
	ExpectedDifferences  int `json:"expected_differences"`
	UnexpectedMismatches int `json:"unexpected_mismatches"`

	// Findings are ordered by the fixed entity-type comparison order,
	// then by entity ID, so two runs over the same data produce
	// byte-identical reports.
	Findings []Finding `json:"findings"`

	Status ReportStatus `json:"status"`
}

// Summarize recounts the findings and derives the overall status.
// Status is clean iff no unexpected mismatches exist.
func (r *ReconciliationReport) Summarize() {
	r.ExactMatches, r.ExpectedDifferences, r.UnexpectedMismatches = 0, 0, 0
	for _, f := range r.Findings {
		switch f.Classification {
		case ClassExactMatch:
			r.ExactMatches++
		case ClassExpectedDifference:
			r.ExpectedDifferences++
		case ClassUnexpectedMismatch:
			r.UnexpectedMismatches++
		}
	}

	if r.UnexpectedMismatches == 0 {
		r.Status = StatusClean
	} else {
		r.Status = StatusDegraded
	}
}
