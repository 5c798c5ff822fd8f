// Command sync performs a single pass and exits non-zero if any step failed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"notion-price-sync/internal/bootstrap"
	"notion-price-sync/internal/config"
	"notion-price-sync/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if err := run(ctx, logger); err != nil {
		stop()
		logger.Error("sync exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	stop()
}

func run(ctx context.Context, logger *zap.Logger) error {
	app, cleanup, err := bootstrap.Build(ctx, config.Load(), logger)
	defer cleanup()
	if err != nil {
		return err
	}
	_, err = app.Runner.RunOnce(ctx)
	return err
}
