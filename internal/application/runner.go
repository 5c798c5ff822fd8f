package application

import (
	"context"
	"fmt"

	"notion-price-sync/internal/domain"

	"go.uber.org/zap"
)

// Syncer performs one complete sync pass.
type Syncer interface {
	Run(ctx context.Context) (domain.RunReport, error)
}

// SyncRunner wraps each sync pass with the run lock and a journal entry.
type SyncRunner struct {
	sync    Syncer
	runs    SyncRunRepo
	lock    RunLock
	lockKey string
	clock   Clock
	idgen   IDGen
	metrics Metrics
	log     *zap.Logger
}

type RunnerOption func(*SyncRunner)

func WithRunnerClock(c Clock) RunnerOption        { return func(r *SyncRunner) { r.clock = c } }
func WithRunnerIDGen(g IDGen) RunnerOption        { return func(r *SyncRunner) { r.idgen = g } }
func WithRunnerMetrics(m Metrics) RunnerOption    { return func(r *SyncRunner) { r.metrics = m } }
func WithRunnerLogger(l *zap.Logger) RunnerOption { return func(r *SyncRunner) { r.log = l } }
func WithLockKey(k string) RunnerOption           { return func(r *SyncRunner) { r.lockKey = k } }

func NewSyncRunner(sync Syncer, runs SyncRunRepo, lock RunLock, opts ...RunnerOption) *SyncRunner {
	r := &SyncRunner{sync: sync, runs: runs, lock: lock, lockKey: DefaultRunLockKey}
	for _, opt := range opts {
		opt(r)
	}
	if r.lock == nil {
		r.lock = NewLocalRunLock()
	}
	if r.clock == nil {
		r.clock = realClock{}
	}
	if r.idgen == nil {
		r.idgen = defaultIDGen{}
	}
	if r.metrics == nil {
		r.metrics = noopMetrics{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// RunOnce runs a sync pass inline.
func (r *SyncRunner) RunOnce(ctx context.Context) (domain.SyncRun, error) {
	run, err := r.Begin(ctx)
	if err != nil {
		return domain.SyncRun{}, err
	}
	return r.Execute(ctx, run)
}

// Begin takes the run lock and opens a journal entry. Every successful Begin
// must be followed by Execute, which releases the lock.
func (r *SyncRunner) Begin(ctx context.Context) (domain.SyncRun, error) {
	ok, err := r.lock.TryAcquire(ctx, r.lockKey)
	if err != nil {
		return domain.SyncRun{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return domain.SyncRun{}, ErrRunInProgress
	}
	run := domain.SyncRun{
		ID:        r.idgen.NewID(),
		Status:    domain.SyncRunStatusRunning,
		StartedAt: r.clock.Now(),
	}
	if err := r.runs.Create(ctx, run); err != nil {
		r.log.Warn("journal.create_failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	return run, nil
}

func (r *SyncRunner) Execute(ctx context.Context, run domain.SyncRun) (domain.SyncRun, error) {
	log := r.log.With(zap.String("run_id", run.ID))
	defer func() {
		if err := r.lock.Release(context.WithoutCancel(ctx), r.lockKey); err != nil {
			log.Warn("run_lock.release_failed", zap.Error(err))
		}
	}()

	log.Info("sync_start")
	report, err := r.sync.Run(ctx)

	finished := r.clock.Now()
	run.FinishedAt = &finished
	run.Updated = len(report.Updates)
	if err != nil {
		msg := err.Error()
		run.Status = domain.SyncRunStatusFailed
		run.Error = &msg
		log.Error("sync_failed", zap.Int("updated", run.Updated), zap.Error(err))
	} else {
		run.Status = domain.SyncRunStatusDone
		log.Info("sync_complete", zap.Int("updated", run.Updated), zap.Duration("took", finished.Sub(run.StartedAt)))
	}

	if jerr := r.runs.Finish(context.WithoutCancel(ctx), run); jerr != nil {
		log.Warn("journal.finish_failed", zap.Error(jerr))
	}
	r.metrics.RunFinished(string(run.Status), finished.Sub(run.StartedAt), finished)
	return run, err
}

func (r *SyncRunner) GetRun(ctx context.Context, id string) (domain.SyncRun, error) {
	return r.runs.GetByID(ctx, id)
}
