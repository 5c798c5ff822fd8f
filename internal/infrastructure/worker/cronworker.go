package worker

import (
	"context"
	"errors"
	"fmt"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var _ application.Worker = (*CronWorker)(nil)

type runner interface {
	RunOnce(ctx context.Context) (domain.SyncRun, error)
}

// CronWorker triggers a sync run on a standard five-field cron schedule.
// A failed run is logged and the schedule keeps going.
type CronWorker struct {
	runner     runner
	spec       string
	schedule   cron.Schedule
	runOnStart bool
	log        *zap.Logger
}

func NewCronWorker(r runner, spec string, runOnStart bool, log *zap.Logger) (*CronWorker, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CronWorker{runner: r, spec: spec, schedule: sched, runOnStart: runOnStart, log: log}, nil
}

func (w *CronWorker) Start(ctx context.Context) {
	log := w.log.With(zap.String("worker", "cron"), zap.String("schedule", w.spec))
	cl := cronLogger{s: log.Sugar()}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(w.schedule, cron.FuncJob(func() { w.runOnce(ctx, log) }))

	if w.runOnStart {
		w.runOnce(ctx, log)
	}

	c.Start()
	log.Info("cron_worker_started")
	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("cron_worker_stopped")
}

func (w *CronWorker) runOnce(ctx context.Context, log *zap.Logger) {
	if ctx.Err() != nil {
		return
	}
	run, err := w.runner.RunOnce(ctx)
	switch {
	case errors.Is(err, application.ErrRunInProgress):
		log.Info("cron_worker.skipped", zap.String("reason", "run in progress"))
	case err != nil:
		log.Warn("cron_worker.run_failed", zap.String("run_id", run.ID), zap.Error(err))
	default:
		log.Info("cron_worker.run_done", zap.String("run_id", run.ID), zap.Int("updated", run.Updated))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
