package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/bizsync/models"
)

func TestPhaseTransitions(t *testing.T) {
	tests := []struct {
		name string
		from models.SyncPhase
		to   models.SyncPhase
		ok   bool
	}{
		{"pending to backup", models.PhasePending, models.PhaseBackup, true},
		{"backup to transfer", models.PhaseBackup, models.PhaseTransfer, true},
		{"transfer to convert", models.PhaseTransfer, models.PhaseConvert, true},
		{"convert to restore", models.PhaseConvert, models.PhaseRestore, true},
		{"restore to verify", models.PhaseRestore, models.PhaseVerify, true},
		{"verify to completed", models.PhaseVerify, models.PhaseCompleted, true},

		{"no skipping ahead", models.PhasePending, models.PhaseTransfer, false},
		{"no moving backward", models.PhaseRestore, models.PhaseTransfer, false},
		{"pending straight to completed", models.PhasePending, models.PhaseCompleted, false},

		{"failed from pending", models.PhasePending, models.PhaseFailed, true},
		{"failed from transfer", models.PhaseTransfer, models.PhaseFailed, true},
		{"failed from verify", models.PhaseVerify, models.PhaseFailed, true},
		{"cancelled from backup", models.PhaseBackup, models.PhaseCancelled, true},
		{"cancelled from convert", models.PhaseConvert, models.PhaseCancelled, true},

		{"completed is terminal", models.PhaseCompleted, models.PhaseFailed, false},
		{"failed is terminal", models.PhaseFailed, models.PhaseBackup, false},
		{"cancelled is terminal", models.PhaseCancelled, models.PhaseCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, canTransition(tt.from, tt.to))
		})
	}
}

func TestTransition_MutatesOnlyWhenLegal(t *testing.T) {
	session := models.SyncSession{Phase: models.PhasePending}

	require.NoError(t, transition(&session, models.PhaseBackup))
	assert.Equal(t, models.PhaseBackup, session.Phase)

	err := transition(&session, models.PhaseRestore)
	require.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, models.PhaseBackup, session.Phase, "phase unchanged after a rejected transition")
}

func TestEveryNonTerminalPhaseCanFail(t *testing.T) {
	for from := range validTransitions {
		if from.Terminal() {
			continue
		}
		assert.True(t, canTransition(from, models.PhaseFailed), "phase %s must be able to fail", from)
		assert.True(t, canTransition(from, models.PhaseCancelled), "phase %s must be able to cancel", from)
	}
}
