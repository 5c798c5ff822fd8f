package logx

import (
	"fmt"
	"strings"
	"sync"

	"notion-price-sync/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.Logger
)

// New builds a logger for env at the given level. env "local" logs to a
// console encoder, anything else logs JSON.
func New(env, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if env == "local" {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapCfg.Build(zap.AddCaller(), zap.Fields(zap.String("service", "notion-price-sync"), zap.String("env", env)))
}

// L returns the process logger, built from ENV and LOG_LEVEL on first use.
// An unparsable LOG_LEVEL falls back to info.
func L() *zap.Logger {
	once.Do(func() {
		cfg := config.Load()
		l, err := New(cfg.Env, cfg.LogLevel)
		if err != nil {
			l, err = New(cfg.Env, "info")
		}
		if err != nil {
			panic(err)
		}
		logger = l
	})
	return logger
}

// For returns the process logger tagged with a component name.
func For(component string) *zap.Logger {
	return L().With(zap.String("component", component))
}
