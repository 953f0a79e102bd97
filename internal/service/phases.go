// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package service

import (
	"fmt"

	"github.com/avetra/bizsync/models"
)

// pipelinePhases is the fixed forward order every session walks. Phases a
// strategy has no work for are still entered and left immediately, so the
// transition table stays closed.
var pipelinePhases = []models.SyncPhase{
	models.PhaseBackup,
	models.PhaseTransfer,
	models.PhaseConvert,
	models.PhaseRestore,
	models.PhaseVerify,
	models.PhaseCompleted,
}

// validTransitions is the closed transition table. Forward moves follow the
// fixed phase ordering; failed and cancelled are reachable from any
// non-terminal phase; terminal phases have no exits.
var validTransitions = map[models.SyncPhase][]models.SyncPhase{
	models.PhasePending:   {models.PhaseBackup, models.PhaseFailed, models.PhaseCancelled},
	models.PhaseBackup:    {models.PhaseTransfer, models.PhaseFailed, models.PhaseCancelled},
	models.PhaseTransfer:  {models.PhaseConvert, models.PhaseFailed, models.PhaseCancelled},
	models.PhaseConvert:   {models.PhaseRestore, models.PhaseFailed, models.PhaseCancelled},
	models.PhaseRestore:   {models.PhaseVerify, models.PhaseFailed, models.PhaseCancelled},
	models.PhaseVerify:    {models.PhaseCompleted, models.PhaseFailed, models.PhaseCancelled},
	models.PhaseCompleted: {},
	models.PhaseFailed:    {},
	models.PhaseCancelled: {},
}

// canTransition reports whether the table permits moving from one phase to
// another.
func canTransition(from, to models.SyncPhase) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transition mutates the session's phase after checking the table.
func transition(session *models.SyncSession, to models.SyncPhase) error {
	if !canTransition(session.Phase, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, session.Phase, to)
	}
	session.Phase = to
	return nil
}
