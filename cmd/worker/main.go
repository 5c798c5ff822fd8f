// Command worker runs the sync on a cron schedule and serves the admin API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"notion-price-sync/internal/bootstrap"
	"notion-price-sync/internal/config"
	infraconfig "notion-price-sync/internal/infrastructure/config"
	httpserver "notion-price-sync/internal/infrastructure/http"
	"notion-price-sync/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		cleanup()
		logger.Fatal("bootstrap", zap.Error(err))
	}
	defer cleanup()

	w, err := app.Worker()
	if err != nil {
		logger.Fatal("init worker", zap.Error(err))
	}

	admin := app.AdminServer(ctx)
	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           httpserver.NewRouter(admin),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", zap.Error(err))
			stop()
		}
	}()

	// blocks until ctx is cancelled
	w.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	admin.Wait()
	logger.Info("server stopped")
}
