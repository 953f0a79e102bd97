// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avetra/bizsync/internal/adapter"
	"github.com/avetra/bizsync/internal/config"
	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/snapshot"
	"github.com/avetra/bizsync/internal/store"
	"github.com/avetra/bizsync/internal/transfer"
	"github.com/avetra/bizsync/models"
)

// saveInterval throttles how often progress updates are flushed to the
// registry while a phase is running.
const saveInterval = time.Second

// StrategyFactory builds the transfer strategy for one session. The
// direction decides which instance feeds an incremental transfer.
type StrategyFactory func(direction models.SyncDirection, method models.SyncMethod) (transfer.Strategy, error)

// NewStrategyFactory wires the production strategies over the local entity
// store and the remote adapter.
func NewStrategyFactory(local store.EntityStore, remote adapter.RemoteInstance, cfg config.Sync, spoolDir string) StrategyFactory {
	return func(direction models.SyncDirection, method models.SyncMethod) (transfer.Strategy, error) {
		switch method {
		case models.MethodBulk:
			return transfer.NewBulk(local, remote, spoolDir), nil
		case models.MethodIncremental:
			incCfg := transfer.IncrementalConfig{
				EntityOrder:     cfg.EntityOrder,
				BatchSize:       cfg.BatchSize,
				MaxBatchRetries: uint(cfg.MaxBatchRetries),
			}
			if direction == models.DirectionPush {
				return transfer.NewIncremental(local, remote, incCfg), nil
			}
			return transfer.NewIncremental(remote, local, incCfg), nil
		default:
			return nil, fmt.Errorf("%w: unknown method %q", ErrValidation, method)
		}
	}
}

// Engine implements SyncEngine. The registry record is the single source of
// truth for a session's phase; the engine holds an ownership lease per pair
// so no two drivers can advance the same session.
type Engine struct {
	registry   store.SessionRegistry
	local      store.EntityStore
	remote     store.EntityStore
	strategies StrategyFactory
	reconciler Reconciler
	cfg        config.Sync
	workersCfg config.Workers
	log        *logger.Logger

	// owner identifies this driver process in lease records.
	owner string

	mu   sync.Mutex
	runs map[string]*sessionRun

	// starting marks a StartSync between its admission check and run
	// registration, so two simultaneous starts cannot both pass.
	starting bool
}

// sessionRun is the in-memory side of one active pipeline.
type sessionRun struct {
	mu      sync.Mutex
	session models.SyncSession
	tracker *speedTracker

	cancel          context.CancelFunc
	cancelRequested bool
	leaseLost       bool
	restoreStarted  bool

	lastSave time.Time
	done     chan struct{}
}

// NewEngine builds the session state machine. local and remote are the two
// instances' entity stores (the remote one through the HTTP adapter).
func NewEngine(registry store.SessionRegistry, local, remote store.EntityStore, strategies StrategyFactory, reconciler Reconciler, cfg config.Sync, workersCfg config.Workers, log *logger.Logger) *Engine {
	return &Engine{
		registry:   registry,
		local:      local,
		remote:     remote,
		strategies: strategies,
		reconciler: reconciler,
		cfg:        cfg,
		workersCfg: workersCfg,
		log:        log,
		owner:      uuid.NewString(),
		runs:       make(map[string]*sessionRun),
	}
}

func (e *Engine) StartSync(ctx context.Context, req models.StartSyncRequest) (models.StartSyncResponse, error) {
	log := e.log.GetChildLogger()

	if err := validateStartRequest(req); err != nil {
		return models.StartSyncResponse{}, err
	}

	// The lease acquisition and registry scan below are not atomic with run
	// registration, so admission is serialized here: one StartSync at a time
	// between the check and launch, and an in-process run is a conflict
	// before any registry round-trip.
	e.mu.Lock()
	if e.starting || len(e.runs) > 0 {
		e.mu.Unlock()
		return models.StartSyncResponse{}, fmt.Errorf("%w: a sync for pair %s is already running", ErrConflict, e.cfg.PairKey)
	}
	e.starting = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.starting = false
		e.mu.Unlock()
	}()

	err := e.registry.AcquireLease(ctx, e.cfg.PairKey, e.owner, e.workersCfg.LeaseTTL)
	if err != nil {
		if errors.Is(err, store.ErrLeaseHeld) {
			return models.StartSyncResponse{}, fmt.Errorf("%w: pair %s is owned by another driver", ErrConflict, e.cfg.PairKey)
		}
		return models.StartSyncResponse{}, err
	}

	active, err := e.registry.ListActive(ctx)
	if err != nil {
		e.releaseLeaseIfIdle(ctx)
		return models.StartSyncResponse{}, err
	}
	for _, s := range active {
		if s.PairKey == e.cfg.PairKey {
			e.releaseLeaseIfIdle(ctx)
			return models.StartSyncResponse{}, fmt.Errorf("%w: session %s is still %s", ErrConflict, s.ID, s.Phase)
		}
	}

	now := time.Now()
	session := models.SyncSession{
		ID:        uuid.NewString(),
		PairKey:   e.cfg.PairKey,
		Direction: req.Direction,
		Method:    req.Method,
		Phase:     models.PhasePending,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err = e.registry.Save(ctx, &session); err != nil {
		e.releaseLease(ctx)
		return models.StartSyncResponse{}, err
	}

	log.Info().Str("func", "Engine.StartSync").
		Str("session", session.ID).
		Str("direction", string(req.Direction)).
		Str("method", string(req.Method)).
		Msg("sync session created")

	e.launch(session, &req.Filter, false)

	return models.StartSyncResponse{SessionID: session.ID}, nil
}

// validateStartRequest rejects unsupported combinations before any phase
// starts. A filtered bulk sync is refused because bulk restore replaces the
// whole dataset and would wipe the unfiltered types.
func validateStartRequest(req models.StartSyncRequest) error {
	switch req.Direction {
	case models.DirectionPush, models.DirectionPull:
	default:
		return fmt.Errorf("%w: direction %q", ErrValidation, req.Direction)
	}
	switch req.Method {
	case models.MethodBulk, models.MethodIncremental:
	default:
		return fmt.Errorf("%w: method %q", ErrValidation, req.Method)
	}
	if req.Method == models.MethodBulk && len(req.Filter.EntityTypes) > 0 {
		return fmt.Errorf("%w: entity filter is not supported with the bulk method", ErrValidation)
	}
	return nil
}

// launch registers the run and starts the pipeline goroutine.
func (e *Engine) launch(session models.SyncSession, filter *models.SyncFilter, resume bool) {
	runCtx, cancel := context.WithCancel(e.log.WithContext(context.Background()))

	run := &sessionRun{
		session: session,
		tracker: newSpeedTracker(nil),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	e.mu.Lock()
	e.runs[session.ID] = run
	e.mu.Unlock()

	go e.drive(runCtx, run, filter, resume)
}

// drive walks the session through the phase pipeline. Every outcome ends in
// exactly one terminal phase.
func (e *Engine) drive(ctx context.Context, run *sessionRun, filter *models.SyncFilter, resume bool) {
	defer close(run.done)
	defer func() {
		e.mu.Lock()
		delete(e.runs, run.sessionID())
		e.mu.Unlock()
	}()

	log := logger.FromContext(ctx)

	strategy, err := e.strategies(run.direction(), run.method())
	if err != nil {
		e.fail(ctx, run, err)
		return
	}

	st := &transfer.State{
		Direction:   run.direction(),
		EntityOrder: e.cfg.EntityOrder,
		Filter:      filter,
		Cursors:     run.cursors(),
		Transform:   store.RenameTransform(e.cfg.Renames),
		Progress:    func(done, total int64) { e.observeProgress(ctx, run, done, total) },
		OnCursor:    func(entityType string, seq int64) { run.setCursor(entityType, seq) },
	}
	defer st.Cleanup()

	start := 0
	if resume {
		start = resumeIndex(run.phase())
		if run.method() == models.MethodIncremental && run.phase() == models.PhaseRestore {
			// The envelope stream is not durable; rebuild it from the
			// confirmed cursors before re-entering restore.
			if err = strategy.Transfer(ctx, st); err != nil {
				e.fail(ctx, run, e.classify(ctx, run, models.PhaseTransfer, err))
				return
			}
		}
	}

	steps := e.steps(strategy, st, run)
	for i := start; i < len(pipelinePhases)-1; i++ {
		phase := pipelinePhases[i]

		if run.wasCancelled() {
			e.finishCancelled(ctx, run)
			return
		}
		if err = e.enterPhase(ctx, run, phase); err != nil {
			e.fail(ctx, run, err)
			return
		}

		phaseCtx, cancelPhase := e.phaseContext(ctx, phase)
		err = steps[phase](phaseCtx)
		timedOut := phaseCtx.Err() != nil && errors.Is(phaseCtx.Err(), context.DeadlineExceeded)
		cancelPhase()

		if err != nil {
			switch {
			case run.wasCancelled() && errors.Is(err, context.Canceled):
				e.finishCancelled(ctx, run)
			case timedOut:
				e.fail(ctx, run, fmt.Errorf("%w: %s phase: %v", ErrPhaseTimeout, phase, err))
			case run.hasLostLease():
				e.fail(ctx, run, fmt.Errorf("%w: %v", store.ErrLeaseLost, err))
			case errors.Is(err, context.Canceled):
				// Driver shutdown. The session stays active in the
				// registry so a restarted driver can resume it.
				e.releaseLease(ctx)
				log.Info().Str("func", "Engine.drive").
					Str("session", run.sessionID()).
					Str("phase", string(phase)).
					Msg("run interrupted by shutdown, leaving session resumable")
			default:
				e.fail(ctx, run, e.classify(ctx, run, phase, err))
			}
			return
		}
	}

	e.finish(ctx, run, models.PhaseCompleted)
	log.Info().Str("func", "Engine.drive").
		Str("session", run.sessionID()).
		Msg("sync session completed")
}

type phaseStep func(ctx context.Context) error

// steps binds each pipeline phase to its strategy work.
func (e *Engine) steps(strategy transfer.Strategy, st *transfer.State, run *sessionRun) map[models.SyncPhase]phaseStep {
	return map[models.SyncPhase]phaseStep{
		models.PhaseBackup: func(ctx context.Context) error {
			_, err := strategy.Backup(ctx, st)
			if err == nil {
				run.updateTotals(st)
			}
			return err
		},
		models.PhaseTransfer: func(ctx context.Context) error {
			err := strategy.Transfer(ctx, st)
			if err == nil {
				run.updateTotals(st)
			}
			return err
		},
		models.PhaseConvert: func(ctx context.Context) error {
			_, err := strategy.Convert(ctx, st)
			return err
		},
		models.PhaseRestore: func(ctx context.Context) error {
			res, err := strategy.Restore(ctx, st)
			for entityType, seq := range res.Cursors {
				run.setCursor(entityType, seq)
			}
			if err == nil {
				run.updateTotals(st)
			}
			return err
		},
		models.PhaseVerify: func(ctx context.Context) error {
			return e.verify(ctx, run)
		},
	}
}

// verify runs reconciliation and attaches the report to the session.
// Mismatches the report finds are data, not verify-phase failures.
func (e *Engine) verify(ctx context.Context, run *sessionRun) error {
	source, target := e.endpoints(run.direction())

	report, err := e.reconciler.Compare(ctx, source, target, run.direction())
	if err != nil {
		return fmt.Errorf("run reconciliation: %w", err)
	}
	report.SessionID = run.sessionID()

	if err = e.registry.SaveReport(ctx, &report); err != nil {
		return fmt.Errorf("persist reconciliation report: %w", err)
	}

	run.mu.Lock()
	run.session.ReconciliationReportID = report.ID
	run.mu.Unlock()

	return nil
}

// endpoints maps the direction to reconciliation source and target.
func (e *Engine) endpoints(direction models.SyncDirection) (EntitySnapshot, EntitySnapshot) {
	if direction == models.DirectionPush {
		return e.local, e.remote
	}
	return e.remote, e.local
}

// classify maps low-level failures onto the session error taxonomy.
func (e *Engine) classify(ctx context.Context, run *sessionRun, phase models.SyncPhase, err error) error {
	switch {
	case errors.Is(err, snapshot.ErrChecksumMismatch),
		errors.Is(err, snapshot.ErrBadMagic),
		errors.Is(err, snapshot.ErrUnsupportedVersion),
		errors.Is(err, snapshot.ErrTruncated):
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	case errors.Is(err, transfer.ErrBatchApply),
		errors.Is(err, transfer.ErrSequenceGap),
		errors.Is(err, store.ErrMissingDependency),
		errors.Is(err, adapter.ErrMissingDependency):
		return fmt.Errorf("%w: %v", ErrApply, err)
	case run.hasLostLease():
		return fmt.Errorf("%w: %v", store.ErrLeaseLost, err)
	default:
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.classify").
			Str("session", run.sessionID()).
			Str("phase", string(phase)).
			Msg("unclassified phase failure")
		return err
	}
}

func (e *Engine) phaseContext(ctx context.Context, phase models.SyncPhase) (context.Context, context.CancelFunc) {
	budget := e.budget(phase)
	if budget <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, budget)
}

func (e *Engine) budget(phase models.SyncPhase) time.Duration {
	switch phase {
	case models.PhaseBackup:
		return e.cfg.Phases.Backup
	case models.PhaseTransfer:
		return e.cfg.Phases.Transfer
	case models.PhaseConvert:
		return e.cfg.Phases.Convert
	case models.PhaseRestore:
		return e.cfg.Phases.Restore
	case models.PhaseVerify:
		return e.cfg.Phases.Verify
	default:
		return 0
	}
}

// enterPhase advances the session through the transition table and
// persists the new phase. Re-entering the session's current phase is a
// resume, not a transition. Entering restore atomically closes the
// cancellation window.
func (e *Engine) enterPhase(ctx context.Context, run *sessionRun, phase models.SyncPhase) error {
	run.mu.Lock()
	if run.session.Phase != phase {
		if err := transition(&run.session, phase); err != nil {
			run.mu.Unlock()
			return err
		}
	}
	if phase == models.PhaseRestore {
		run.restoreStarted = true
	}
	run.session.UpdatedAt = time.Now()
	session := run.copyLocked()
	run.lastSave = run.session.UpdatedAt
	run.mu.Unlock()

	logger.FromContext(ctx).Debug().
		Str("func", "Engine.enterPhase").
		Str("session", session.ID).
		Str("phase", string(phase)).
		Msg("phase entered")

	return e.registry.Save(ctx, &session)
}

// observeProgress folds one progress sample into the session counters and
// flushes to the registry at most once per saveInterval.
func (e *Engine) observeProgress(ctx context.Context, run *sessionRun, done, total int64) {
	run.tracker.Observe(done)

	run.mu.Lock()
	if run.session.Method == models.MethodBulk {
		run.session.BytesTransferred = done
		if total > 0 {
			run.session.BytesTotal = total
		}
	} else {
		run.session.EntitiesTransferred = done
		if total > 0 {
			run.session.EntitiesTotal = total
		}
	}
	run.session.TransferSpeed, run.session.EstimatedCompletion = run.tracker.Estimate(done, total)
	run.session.UpdatedAt = time.Now()

	flush := run.session.UpdatedAt.Sub(run.lastSave) >= saveInterval
	if flush {
		run.lastSave = run.session.UpdatedAt
	}
	session := run.copyLocked()
	run.mu.Unlock()

	if flush {
		if err := e.registry.Save(ctx, &session); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "Engine.observeProgress").
				Str("session", session.ID).
				Msg("progress flush failed")
		}
	}
}

// fail moves the session to failed with the error message set, releasing
// the pair lease.
func (e *Engine) fail(ctx context.Context, run *sessionRun, cause error) {
	run.mu.Lock()
	if err := transition(&run.session, models.PhaseFailed); err == nil {
		run.session.ErrorMessage = cause.Error()
		run.session.UpdatedAt = time.Now()
	}
	session := run.copyLocked()
	run.mu.Unlock()

	if err := e.registry.Save(ctx, &session); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.fail").
			Str("session", session.ID).
			Msg("failed-state save did not persist")
	}
	e.releaseLease(ctx)

	logger.FromContext(ctx).Err(cause).
		Str("func", "Engine.fail").
		Str("session", session.ID).
		Msg("sync session failed")
}

func (e *Engine) finishCancelled(ctx context.Context, run *sessionRun) {
	e.finish(ctx, run, models.PhaseCancelled)
	logger.FromContext(ctx).Info().
		Str("func", "Engine.finishCancelled").
		Str("session", run.sessionID()).
		Msg("sync session cancelled")
}

func (e *Engine) finish(ctx context.Context, run *sessionRun, terminal models.SyncPhase) {
	run.mu.Lock()
	if err := transition(&run.session, terminal); err != nil {
		run.mu.Unlock()
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.finish").
			Str("session", run.session.ID).
			Msg("terminal transition rejected")
		return
	}
	run.session.UpdatedAt = time.Now()
	session := run.copyLocked()
	run.mu.Unlock()

	if err := e.registry.Save(ctx, &session); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.finish").
			Str("session", session.ID).
			Msg("terminal save did not persist")
	}
	e.releaseLease(ctx)
}

// releaseLeaseIfIdle drops the pair lease unless an active run still needs
// it. AcquireLease extends our own lease, so a rejected StartSync must not
// release what the running session holds.
func (e *Engine) releaseLeaseIfIdle(ctx context.Context) {
	e.mu.Lock()
	busy := len(e.runs) > 0
	e.mu.Unlock()
	if !busy {
		e.releaseLease(ctx)
	}
}

func (e *Engine) releaseLease(ctx context.Context) {
	if err := e.registry.ReleaseLease(ctx, e.cfg.PairKey, e.owner); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.releaseLease").
			Str("pair", e.cfg.PairKey).
			Msg("lease release failed")
	}
}

func (e *Engine) GetStatus(ctx context.Context, sessionID string) (models.SyncSession, error) {
	e.mu.Lock()
	run, ok := e.runs[sessionID]
	e.mu.Unlock()
	if ok {
		return run.snapshot(), nil
	}

	return e.registry.Load(ctx, sessionID)
}

func (e *Engine) Cancel(ctx context.Context, sessionID string) (models.CancelResponse, error) {
	e.mu.Lock()
	run, ok := e.runs[sessionID]
	e.mu.Unlock()

	if !ok {
		// No local driver. A terminal session cannot be cancelled; a
		// stranded non-terminal one (crashed driver) can be closed out
		// directly.
		session, err := e.registry.Load(ctx, sessionID)
		if err != nil {
			return models.CancelResponse{}, err
		}
		if session.Phase.Terminal() {
			return models.CancelResponse{
				SessionID: sessionID,
				Accepted:  false,
				Reason:    fmt.Sprintf("session already %s", session.Phase),
			}, nil
		}
		if session.Phase == models.PhaseRestore {
			return models.CancelResponse{SessionID: sessionID, Accepted: false, Reason: ErrTooLate.Error()}, nil
		}
		if err = transition(&session, models.PhaseCancelled); err != nil {
			return models.CancelResponse{}, err
		}
		session.UpdatedAt = time.Now()
		if err = e.registry.Save(ctx, &session); err != nil {
			return models.CancelResponse{}, err
		}
		return models.CancelResponse{SessionID: sessionID, Accepted: true}, nil
	}

	accepted, reason := run.requestCancel()
	if accepted {
		e.log.Info().Str("func", "Engine.Cancel").
			Str("session", sessionID).
			Msg("cancellation requested")
	}

	return models.CancelResponse{SessionID: sessionID, Accepted: accepted, Reason: reason}, nil
}

func (e *Engine) GetReport(ctx context.Context, reportID string) (models.ReconciliationReport, error) {
	return e.registry.LoadReport(ctx, reportID)
}

func (e *Engine) Validate(ctx context.Context, req models.ValidateRequest) (models.ValidateResponse, error) {
	switch {
	case req.SessionID != "" && len(req.RawSnapshot) > 0:
		return models.ValidateResponse{}, fmt.Errorf("%w: session_id and raw_snapshot are mutually exclusive", ErrValidation)
	case req.SessionID != "":
		return e.validateSession(ctx, req.SessionID)
	case len(req.RawSnapshot) > 0:
		return e.validateSnapshot(ctx, req.RawSnapshot)
	default:
		return models.ValidateResponse{}, fmt.Errorf("%w: session_id or raw_snapshot required", ErrValidation)
	}
}

func (e *Engine) validateSession(ctx context.Context, sessionID string) (models.ValidateResponse, error) {
	session, err := e.registry.Load(ctx, sessionID)
	if err != nil {
		return models.ValidateResponse{}, err
	}
	if session.ReconciliationReportID == "" {
		return models.ValidateResponse{}, fmt.Errorf("%w: session %s has no reconciliation report yet", ErrValidation, sessionID)
	}

	report, err := e.registry.LoadReport(ctx, session.ReconciliationReportID)
	if err != nil {
		return models.ValidateResponse{}, err
	}

	return validateResponseFromReport(report), nil
}

// validateSnapshot checks an uploaded snapshot's framing and checksum, then
// compares its contents against the local instance. Unreadable input is a
// failed report, not an engine error.
func (e *Engine) validateSnapshot(ctx context.Context, raw []byte) (models.ValidateResponse, error) {
	dec, err := snapshot.Open(bytes.NewReader(raw), "")
	if err != nil {
		return models.ValidateResponse{
			Summary:       fmt.Sprintf("snapshot unreadable: %v", err),
			OverallStatus: models.StatusFailed,
		}, nil
	}
	defer dec.Close()

	records, err := store.DecodeRecords(ctx, dec)
	if err != nil {
		return models.ValidateResponse{
			Summary:       fmt.Sprintf("snapshot payload unreadable: %v", err),
			OverallStatus: models.StatusFailed,
		}, nil
	}

	report, err := e.reconciler.Compare(ctx, newMemorySnapshot(records), e.local, models.DirectionPull)
	if err != nil {
		return models.ValidateResponse{}, err
	}

	return validateResponseFromReport(report), nil
}

func validateResponseFromReport(report models.ReconciliationReport) models.ValidateResponse {
	return models.ValidateResponse{
		Summary: fmt.Sprintf("%d exact matches, %d expected differences, %d unexpected mismatches",
			report.ExactMatches, report.ExpectedDifferences, report.UnexpectedMismatches),
		Findings:      report.Findings,
		OverallStatus: report.Status,
	}
}

// ResumeActive re-drives non-terminal registry sessions after a restart.
// Incremental sessions pick up from their confirmed cursors; a bulk session
// past backup lost its spool with the old process and is failed instead.
func (e *Engine) ResumeActive(ctx context.Context) error {
	sessions, err := e.registry.ListActive(ctx)
	if err != nil {
		return err
	}

	for _, session := range sessions {
		if session.PairKey != e.cfg.PairKey {
			continue
		}
		if err = e.registry.AcquireLease(ctx, session.PairKey, e.owner, e.workersCfg.LeaseTTL); err != nil {
			if errors.Is(err, store.ErrLeaseHeld) {
				continue
			}
			return err
		}

		if session.Method == models.MethodBulk && session.Phase != models.PhasePending && session.Phase != models.PhaseBackup {
			session.Phase = models.PhaseFailed
			session.ErrorMessage = "bulk session is not resumable after a driver restart"
			session.UpdatedAt = time.Now()
			if err = e.registry.Save(ctx, &session); err != nil {
				return err
			}
			e.releaseLease(ctx)
			continue
		}

		e.log.Info().Str("func", "Engine.ResumeActive").
			Str("session", session.ID).
			Str("phase", string(session.Phase)).
			Interface("cursors", session.Cursors).
			Msg("resuming session")
		e.launch(session, nil, true)
	}

	return nil
}

// resumeIndex maps the persisted phase to the pipeline index to re-enter.
// A pending session starts from the top.
func resumeIndex(phase models.SyncPhase) int {
	for i, p := range pipelinePhases {
		if p == phase {
			return i
		}
	}
	return 0
}

// RenewLeases extends the pair lease while runs are active. Losing the
// lease stops every run, even mid-restore: a superseded driver must not
// keep applying.
func (e *Engine) RenewLeases(ctx context.Context) error {
	e.mu.Lock()
	active := make([]*sessionRun, 0, len(e.runs))
	for _, run := range e.runs {
		active = append(active, run)
	}
	e.mu.Unlock()

	if len(active) == 0 {
		return nil
	}

	err := e.registry.RenewLease(ctx, e.cfg.PairKey, e.owner, e.workersCfg.LeaseTTL)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrLeaseLost) {
		return err
	}

	e.log.Error().Str("func", "Engine.RenewLeases").
		Str("pair", e.cfg.PairKey).
		Msg("ownership lease lost, stopping active runs")
	for _, run := range active {
		run.loseLease()
	}

	return err
}

// FailStalled closes out registry sessions stuck past their phase budget
// with no driver updating them.
func (e *Engine) FailStalled(ctx context.Context) error {
	sessions, err := e.registry.ListActive(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, session := range sessions {
		e.mu.Lock()
		_, driven := e.runs[session.ID]
		e.mu.Unlock()
		if driven {
			continue
		}

		budget := e.budget(session.Phase)
		if budget <= 0 || now.Sub(session.UpdatedAt) <= budget {
			continue
		}

		session.ErrorMessage = fmt.Sprintf("%s: %s phase stalled for %s", ErrPhaseTimeout, session.Phase, now.Sub(session.UpdatedAt).Truncate(time.Second))
		session.Phase = models.PhaseFailed
		session.UpdatedAt = now
		if err = e.registry.Save(ctx, &session); err != nil {
			return err
		}
		e.log.Warn().Str("func", "Engine.FailStalled").
			Str("session", session.ID).
			Msg("stalled session failed by watchdog")
	}

	return nil
}

// Shutdown cancels every active run and waits for them to settle.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	active := make([]*sessionRun, 0, len(e.runs))
	for _, run := range e.runs {
		active = append(active, run)
	}
	e.mu.Unlock()

	for _, run := range active {
		run.cancel()
	}
	for _, run := range active {
		select {
		case <-run.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// ─── sessionRun accessors ────────────────────────────────────────────────

func (r *sessionRun) sessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.ID
}

func (r *sessionRun) direction() models.SyncDirection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Direction
}

func (r *sessionRun) method() models.SyncMethod {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Method
}

func (r *sessionRun) phase() models.SyncPhase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Phase
}

func (r *sessionRun) cursors() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.session.Cursors)
}

func (r *sessionRun) setCursor(entityType string, seq int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session.Cursors == nil {
		r.session.Cursors = make(map[string]int64)
	}
	r.session.Cursors[entityType] = seq
}

// copyLocked snapshots the session for use outside the lock. The cursor map
// is cloned so a concurrent setCursor cannot race readers of the copy.
func (r *sessionRun) copyLocked() models.SyncSession {
	s := r.session
	s.Cursors = maps.Clone(s.Cursors)
	return s
}

func (r *sessionRun) snapshot() models.SyncSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyLocked()
}

func (r *sessionRun) updateTotals(st *transfer.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st.BytesTotal > 0 {
		r.session.BytesTotal = st.BytesTotal
	}
	if st.EntitiesTotal > 0 {
		r.session.EntitiesTotal = st.EntitiesTotal
	}
}

// requestCancel flips the cancellation flag if the restore phase has not
// begun. The flag and the restore marker share one lock, so the check and
// the flip are atomic against enterPhase.
func (r *sessionRun) requestCancel() (accepted bool, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.restoreStarted {
		return false, ErrTooLate.Error()
	}
	if r.session.Phase.Terminal() {
		return false, fmt.Sprintf("session already %s", r.session.Phase)
	}

	r.cancelRequested = true
	r.cancel()
	return true, ""
}

func (r *sessionRun) wasCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelRequested
}

func (r *sessionRun) loseLease() {
	r.mu.Lock()
	r.leaseLost = true
	r.mu.Unlock()
	r.cancel()
}

func (r *sessionRun) hasLostLease() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaseLost
}
