// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/bizsync/models"
)

func reconcileRec(entityType, key string, fields map[string]string) models.EntityRecord {
	return models.EntityRecord{EntityType: entityType, Key: key, Fields: fields}
}

func TestReconciler_CleanRoundTrip(t *testing.T) {
	records := []models.EntityRecord{
		reconcileRec("product", "p-1", map[string]string{"name": "hammer", "price": "12.50"}),
		reconcileRec("product", "p-2", map[string]string{"name": "nails", "price": "3.20"}),
		reconcileRec("order", "o-1", map[string]string{"total": "15.70"}),
	}

	r := NewReconciler(nil, []string{"product", "order"})
	report, err := r.Compare(context.Background(), newMemorySnapshot(records), newMemorySnapshot(records), models.DirectionPush)
	require.NoError(t, err)

	assert.Equal(t, models.StatusClean, report.Status)
	assert.Equal(t, 3, report.ExactMatches)
	assert.Zero(t, report.ExpectedDifferences)
	assert.Zero(t, report.UnexpectedMismatches)
	assert.NotEmpty(t, report.ID)
}

func TestReconciler_FieldDriftClassification(t *testing.T) {
	source := newMemorySnapshot([]models.EntityRecord{
		reconcileRec("product", "p-1", map[string]string{"name": "hammer", "updated_at": "2026-03-01T10:00:00Z"}),
		reconcileRec("product", "p-2", map[string]string{"name": "nails", "price": "3.20"}),
	})
	target := newMemorySnapshot([]models.EntityRecord{
		reconcileRec("product", "p-1", map[string]string{"name": "hammer", "updated_at": "2026-03-01T10:00:05Z"}),
		reconcileRec("product", "p-2", map[string]string{"name": "nails", "price": "4.00"}),
	})

	rules := []models.DifferenceRule{
		{Fields: []string{"updated_at"}, Reason: "server_timestamp"},
	}
	r := NewReconciler(rules, []string{"product"})

	report, err := r.Compare(context.Background(), source, target, models.DirectionPush)
	require.NoError(t, err)

	require.Len(t, report.Findings, 2)
	assert.Equal(t, models.ClassExpectedDifference, report.Findings[0].Classification)
	assert.Equal(t, "server_timestamp", report.Findings[0].ReasonCode)

	assert.Equal(t, models.ClassUnexpectedMismatch, report.Findings[1].Classification)
	assert.Equal(t, "price", report.Findings[1].ReasonCode, "reason names the drifted fields")
	assert.Equal(t, models.StatusDegraded, report.Status)
}

func TestReconciler_NarrowestRuleWins(t *testing.T) {
	source := newMemorySnapshot([]models.EntityRecord{
		reconcileRec("product", "p-1", map[string]string{"updated_at": "a"}),
	})
	target := newMemorySnapshot([]models.EntityRecord{
		reconcileRec("product", "p-1", map[string]string{"updated_at": "b"}),
	})

	rules := []models.DifferenceRule{
		{EntityType: "", Fields: []string{"updated_at"}, Reason: "wildcard_timestamp"},
		{EntityType: "product", Fields: []string{"updated_at"}, Reason: "product_timestamp"},
	}
	r := NewReconciler(rules, []string{"product"})

	report, err := r.Compare(context.Background(), source, target, models.DirectionPull)
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, "product_timestamp", report.Findings[0].ReasonCode,
		"the type-specific rule beats the wildcard")
}

func TestReconciler_RuleMustCoverEveryDriftedField(t *testing.T) {
	source := newMemorySnapshot([]models.EntityRecord{
		reconcileRec("product", "p-1", map[string]string{"updated_at": "a", "price": "1"}),
	})
	target := newMemorySnapshot([]models.EntityRecord{
		reconcileRec("product", "p-1", map[string]string{"updated_at": "b", "price": "2"}),
	})

	rules := []models.DifferenceRule{
		{Fields: []string{"updated_at"}, Reason: "server_timestamp"},
	}
	r := NewReconciler(rules, []string{"product"})

	report, err := r.Compare(context.Background(), source, target, models.DirectionPush)
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, models.ClassUnexpectedMismatch, report.Findings[0].Classification)
	assert.Equal(t, "price,updated_at", report.Findings[0].ReasonCode)
}

func TestReconciler_PresenceRules(t *testing.T) {
	source := newMemorySnapshot([]models.EntityRecord{
		reconcileRec("product", "p-1", map[string]string{"name": "hammer"}),
		reconcileRec("invoice", "i-1", map[string]string{"total": "10"}),
	})
	target := newMemorySnapshot([]models.EntityRecord{
		reconcileRec("product", "p-2", map[string]string{"name": "nails"}),
	})

	rules := []models.DifferenceRule{
		{EntityType: "product", AllowSourceOnly: true, Reason: "awaiting_next_push"},
	}
	r := NewReconciler(rules, []string{"product", "invoice"})

	report, err := r.Compare(context.Background(), source, target, models.DirectionPush)
	require.NoError(t, err)

	require.Len(t, report.Findings, 3)

	// product p-1: source-only, covered by the presence rule.
	assert.Equal(t, models.ClassExpectedDifference, report.Findings[0].Classification)
	assert.Equal(t, "awaiting_next_push", report.Findings[0].ReasonCode)

	// product p-2: target-only, no rule allows it.
	assert.Equal(t, models.ClassUnexpectedMismatch, report.Findings[1].Classification)
	assert.Equal(t, "missing_in_source", report.Findings[1].ReasonCode)

	// invoice i-1: the product rule does not stretch to other types.
	assert.Equal(t, models.ClassUnexpectedMismatch, report.Findings[2].Classification)
	assert.Equal(t, "missing_in_target", report.Findings[2].ReasonCode)
}

func TestReconciler_DeletedFlagIsAField(t *testing.T) {
	source := newMemorySnapshot([]models.EntityRecord{
		{EntityType: "product", Key: "p-1", Fields: map[string]string{"name": "hammer"}, Deleted: true},
	})
	target := newMemorySnapshot([]models.EntityRecord{
		reconcileRec("product", "p-1", map[string]string{"name": "hammer"}),
	})

	r := NewReconciler(nil, []string{"product"})
	report, err := r.Compare(context.Background(), source, target, models.DirectionPush)
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, models.ClassUnexpectedMismatch, report.Findings[0].Classification)
	assert.Equal(t, "deleted", report.Findings[0].ReasonCode)
	assert.Equal(t, "(deleted)", report.Findings[0].SourceValue)
}

func TestReconciler_DeterministicFindingOrder(t *testing.T) {
	records := []models.EntityRecord{
		reconcileRec("order", "o-2", nil),
		reconcileRec("product", "p-9", nil),
		reconcileRec("order", "o-1", nil),
		reconcileRec("product", "p-1", nil),
		reconcileRec("warranty", "w-1", nil),
	}
	source := newMemorySnapshot(records)
	target := newMemorySnapshot(nil)

	r := NewReconciler(nil, []string{"product", "order"})

	first, err := r.Compare(context.Background(), source, target, models.DirectionPush)
	require.NoError(t, err)
	second, err := r.Compare(context.Background(), source, target, models.DirectionPush)
	require.NoError(t, err)

	ids := func(report models.ReconciliationReport) []string {
		out := make([]string, 0, len(report.Findings))
		for _, f := range report.Findings {
			out = append(out, f.EntityType+"/"+f.EntityID)
		}
		return out
	}

	want := []string{"product/p-1", "product/p-9", "order/o-1", "order/o-2", "warranty/w-1"}
	assert.Equal(t, want, ids(first), "configured order first, leftovers sorted")
	assert.Equal(t, ids(first), ids(second), "two runs over the same data agree")
}

func TestReconciler_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := newMemorySnapshot([]models.EntityRecord{reconcileRec("product", "p-1", nil)})
	r := NewReconciler(nil, nil)

	_, err := r.Compare(ctx, source, source, models.DirectionPush)
	require.ErrorIs(t, err, context.Canceled)
}
