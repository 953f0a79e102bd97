// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/models"
)

// compareConcurrency bounds how many entity types are compared at once.
const compareConcurrency = 4

// reconciler walks two data sets after a restore and classifies every
// entity as an exact match, an expected difference or an unexpected
// mismatch. Mismatches are data in the report, never errors; only a failure
// to read one of the sides is an error.
type reconciler struct {
	rules []models.DifferenceRule
	order []string
}

// NewReconciler builds the reconciliation engine with the configured
// expected-difference rules and entity-type comparison order.
func NewReconciler(rules []models.DifferenceRule, order []string) Reconciler {
	return &reconciler{rules: rules, order: order}
}

// Compare builds a keyed index of both sides per entity type and produces
// an immutable report. Entity types are compared concurrently with bounded
// goroutines, but findings are assembled in the fixed comparison order so
// two runs over the same data yield identical reports.
func (r *reconciler) Compare(ctx context.Context, source, target EntitySnapshot, direction models.SyncDirection) (models.ReconciliationReport, error) {
	types, err := r.comparisonOrder(ctx, source, target)
	if err != nil {
		return models.ReconciliationReport{}, err
	}

	perType := make([][]models.Finding, len(types))
	errs := make([]error, len(types))

	var wg sync.WaitGroup
	sem := make(chan struct{}, compareConcurrency)
	for i, entityType := range types {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, entityType string) {
			defer wg.Done()
			defer func() { <-sem }()
			perType[i], errs[i] = r.compareType(ctx, source, target, entityType)
		}(i, entityType)
	}
	wg.Wait()

	report := models.ReconciliationReport{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	for i, findings := range perType {
		if errs[i] != nil {
			return models.ReconciliationReport{}, fmt.Errorf("compare %s: %w", types[i], errs[i])
		}
		report.Findings = append(report.Findings, findings...)
	}
	report.Summarize()

	logger.FromContext(ctx).Info().
		Str("func", "reconciler.Compare").
		Str("direction", string(direction)).
		Int("exact", report.ExactMatches).
		Int("expected", report.ExpectedDifferences).
		Int("unexpected", report.UnexpectedMismatches).
		Str("status", string(report.Status)).
		Msg("reconciliation finished")

	return report, nil
}

func (r *reconciler) compareType(ctx context.Context, source, target EntitySnapshot, entityType string) ([]models.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sourceRecords, err := source.All(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	targetRecords, err := target.All(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("read target: %w", err)
	}

	sourceIndex := indexByKey(sourceRecords)
	targetIndex := indexByKey(targetRecords)

	keys := unionKeys(sourceIndex, targetIndex)
	findings := make([]models.Finding, 0, len(keys))
	for _, key := range keys {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		src, inSource := sourceIndex[key]
		tgt, inTarget := targetIndex[key]

		finding := models.Finding{EntityType: entityType, EntityID: key}
		switch {
		case inSource && inTarget:
			diff := diffFields(src, tgt)
			if len(diff) == 0 {
				finding.Classification = models.ClassExactMatch
				break
			}
			finding.SourceValue = renderFields(src)
			finding.TargetValue = renderFields(tgt)
			if rule, ok := r.bestRule(entityType, diff, presenceBoth); ok {
				finding.Classification = models.ClassExpectedDifference
				finding.ReasonCode = rule.Reason
			} else {
				finding.Classification = models.ClassUnexpectedMismatch
				finding.ReasonCode = strings.Join(diff, ",")
			}

		case inSource:
			finding.SourceValue = renderFields(src)
			if rule, ok := r.bestRule(entityType, nil, presenceSourceOnly); ok {
				finding.Classification = models.ClassExpectedDifference
				finding.ReasonCode = rule.Reason
			} else {
				finding.Classification = models.ClassUnexpectedMismatch
				finding.ReasonCode = "missing_in_target"
			}

		default:
			finding.TargetValue = renderFields(tgt)
			if rule, ok := r.bestRule(entityType, nil, presenceTargetOnly); ok {
				finding.Classification = models.ClassExpectedDifference
				finding.ReasonCode = rule.Reason
			} else {
				finding.Classification = models.ClassUnexpectedMismatch
				finding.ReasonCode = "missing_in_source"
			}
		}

		findings = append(findings, finding)
	}

	return findings, nil
}

type presence int

const (
	presenceBoth presence = iota
	presenceSourceOnly
	presenceTargetOnly
)

// bestRule picks the narrowest configured rule that can classify the
// difference: a field-level rule naming the exact entity type beats a
// type-level default, which beats the wildcard rule. Ties keep the first
// configured rule.
func (r *reconciler) bestRule(entityType string, diff []string, p presence) (models.DifferenceRule, bool) {
	var best models.DifferenceRule
	bestScore := -1

	for _, rule := range r.rules {
		typeScore := 0
		switch rule.EntityType {
		case entityType:
			typeScore = 2
		case "":
			typeScore = 1
		default:
			continue
		}

		fieldScore := 0
		switch p {
		case presenceBoth:
			if !rule.Covers(diff) {
				continue
			}
			fieldScore = 1
		case presenceSourceOnly:
			if !rule.AllowSourceOnly {
				continue
			}
		case presenceTargetOnly:
			if !rule.AllowTargetOnly {
				continue
			}
		}

		score := typeScore*2 + fieldScore
		if score > bestScore {
			best, bestScore = rule, score
		}
	}

	return best, bestScore >= 0
}

// comparisonOrder is the union of both sides' entity types: configured
// order first, leftovers sorted.
func (r *reconciler) comparisonOrder(ctx context.Context, source, target EntitySnapshot) ([]string, error) {
	sourceTypes, err := source.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source types: %w", err)
	}
	targetTypes, err := target.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("list target types: %w", err)
	}

	present := make(map[string]struct{}, len(sourceTypes)+len(targetTypes))
	for _, t := range sourceTypes {
		present[t] = struct{}{}
	}
	for _, t := range targetTypes {
		present[t] = struct{}{}
	}

	types := make([]string, 0, len(present))
	for _, t := range r.order {
		if _, ok := present[t]; ok {
			types = append(types, t)
			delete(present, t)
		}
	}
	rest := make([]string, 0, len(present))
	for t := range present {
		rest = append(rest, t)
	}
	sort.Strings(rest)

	return append(types, rest...), nil
}

func indexByKey(records []models.EntityRecord) map[string]models.EntityRecord {
	index := make(map[string]models.EntityRecord, len(records))
	for _, r := range records {
		index[r.Key] = r
	}
	return index
}

func unionKeys(a, b map[string]models.EntityRecord) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, dup := a[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// diffFields returns the sorted names of fields whose values differ, with
// a divergent soft-delete flag reported as the pseudo-field "deleted".
func diffFields(a, b models.EntityRecord) []string {
	names := make(map[string]struct{}, len(a.Fields)+len(b.Fields))
	for n := range a.Fields {
		names[n] = struct{}{}
	}
	for n := range b.Fields {
		names[n] = struct{}{}
	}

	var diff []string
	for n := range names {
		av, aok := a.Fields[n]
		bv, bok := b.Fields[n]
		if !aok || !bok || av != bv {
			diff = append(diff, n)
		}
	}
	if a.Deleted != b.Deleted {
		diff = append(diff, "deleted")
	}
	sort.Strings(diff)

	return diff
}

func renderFields(r models.EntityRecord) string {
	if r.Deleted {
		return "(deleted)"
	}

	parts := make([]string, 0, len(r.Fields))
	for _, name := range r.FieldNames() {
		parts = append(parts, name+"="+r.Fields[name])
	}
	return strings.Join(parts, ";")
}
