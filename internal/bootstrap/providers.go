package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/config"
	"notion-price-sync/internal/infrastructure/logx"
	"notion-price-sync/internal/infrastructure/memstore"
	"notion-price-sync/internal/infrastructure/notion"
	"notion-price-sync/internal/infrastructure/pg"
	"notion-price-sync/internal/infrastructure/provider"
	redisstore "notion-price-sync/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// fakePrice is what every instrument reads as under FEEDS=fake.
const fakePrice = 1.2345

var ErrMissingDBURL = errors.New("DATABASE_URL is required for STORAGE=pg")

type pingFunc func(ctx context.Context) error

func ProvideHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.RequestTimeout}
}

func ProvideFeeds(cfg config.Config, hc *http.Client) (application.CryptoPriceFeed, application.SecurityQuoteFeed, error) {
	switch cfg.Feeds {
	case "live":
		cg := provider.NewCoinGecko(cfg.CoinGeckoAPIBase, cfg.CoinGeckoAPIKey, hc, logx.For("coingecko"))
		cg.MaxAttempts = cfg.RateLimitTries
		cg.Step = cfg.RateLimitStep
		return cg, provider.NewYahoo(cfg.YahooAPIBase, hc, logx.For("yahoo")), nil
	case "fake":
		f := provider.NewFake(fakePrice)
		return f, f, nil
	default:
		return nil, nil, fmt.Errorf("unknown FEEDS %q", cfg.Feeds)
	}
}

func ProvideStore(cfg config.Config, hc *http.Client) *notion.Client {
	return notion.NewClient(cfg.NotionAPIBase, cfg.NotionToken, cfg.NotionVersion, cfg.NotionRPS, hc, logx.For("notion"))
}

// ProvideJournal returns the run journal and, for pg, a ping for readiness.
func ProvideJournal(ctx context.Context, log *zap.Logger, cfg config.Config) (application.SyncRunRepo, pingFunc, func(), error) {
	switch cfg.Storage {
	case "memory":
		return memstore.NewSyncRunRepo(0), nil, func() {}, nil
	case "pg":
		if cfg.DatabaseURL == "" {
			return nil, nil, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return pg.NewSyncRunRepo(db), db.Ping, cleanup, nil
	default:
		return nil, nil, func() {}, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}
}

func ProvideRunLock(cfg config.Config) (application.RunLock, pingFunc, func(), error) {
	switch cfg.RunLock {
	case "none":
		return application.NewLocalRunLock(), nil, func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		lock := redisstore.New(client, cfg.RunLockTTL)
		return lock, lock.Ping, func() { _ = client.Close() }, nil
	default:
		return nil, nil, func() {}, fmt.Errorf("unknown RUN_LOCK %q", cfg.RunLock)
	}
}
