package bootstrap

import (
	"context"
	"fmt"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/config"
	"notion-price-sync/internal/domain"
	httpserver "notion-price-sync/internal/infrastructure/http"
	"notion-price-sync/internal/infrastructure/metrics"
	"notion-price-sync/internal/infrastructure/worker"

	"go.uber.org/zap"
)

// App is one fully wired process.
type App struct {
	Config  config.Config
	Service *application.SyncService
	Runner  *application.SyncRunner
	Log     *zap.Logger

	pings []pingFunc
}

// Build validates cfg and wires every component. The returned cleanup
// closes whatever was opened, in reverse order.
func Build(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, func() {}, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	hc := ProvideHTTPClient(cfg)
	crypto, etf, err := ProvideFeeds(cfg, hc)
	if err != nil {
		return nil, cleanup, err
	}
	store := ProvideStore(cfg, hc)

	runs, journalPing, closeJournal, err := ProvideJournal(ctx, log, cfg)
	cleanups = append(cleanups, closeJournal)
	if err != nil {
		return nil, cleanup, fmt.Errorf("run journal: %w", err)
	}
	lock, lockPing, closeLock, err := ProvideRunLock(cfg)
	cleanups = append(cleanups, closeLock)
	if err != nil {
		return nil, cleanup, fmt.Errorf("run lock: %w", err)
	}

	rec := metrics.Recorder{}
	svc := application.NewSyncService(
		domain.DefaultCatalog(cfg.NotionCryptoDBID, cfg.NotionETFDBID),
		crypto, etf, store,
		application.WithMetrics(rec),
		application.WithLogger(log),
	)
	runner := application.NewSyncRunner(svc, runs, lock,
		application.WithRunnerMetrics(rec),
		application.WithRunnerLogger(log),
	)

	app := &App{Config: cfg, Service: svc, Runner: runner, Log: log}
	for _, p := range []pingFunc{journalPing, lockPing} {
		if p != nil {
			app.pings = append(app.pings, p)
		}
	}
	return app, cleanup, nil
}

// Ready pings the journal database and the lock server when they are in use.
func (a *App) Ready(ctx context.Context) error {
	for _, p := range a.pings {
		if err := p(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Worker returns the cron trigger for this app's runner.
func (a *App) Worker() (application.Worker, error) {
	w, err := worker.NewCronWorker(a.Runner, a.Config.SyncSchedule, a.Config.SyncOnStart, a.Log.Named("worker"))
	if err != nil {
		return nil, err
	}
	return w, nil
}

// AdminServer returns the admin API bound to this app's runner. Triggered
// runs execute under ctx.
func (a *App) AdminServer(ctx context.Context) *httpserver.Server {
	srv := httpserver.NewServer(a.Runner, a.Log.Named("http"))
	srv.SetBaseContext(ctx)
	srv.SetReadyCheck(a.Ready)
	srv.SetMetricsHandler(metrics.Handler())
	return srv
}
