package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	infraconfig "notion-price-sync/internal/infrastructure/config"
)

// ErrMissingConfig is returned by Validate when a required variable is unset.
var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	// Common
	Env      string
	LogLevel string
	Port     string
	// Notion
	NotionToken      string
	NotionCryptoDBID string
	NotionETFDBID    string
	NotionAPIBase    string
	NotionVersion    string
	NotionRPS        float64
	// Price feeds
	Feeds            string
	CoinGeckoAPIBase string
	CoinGeckoAPIKey  string
	YahooAPIBase     string
	RequestTimeout   time.Duration
	RateLimitStep    time.Duration
	RateLimitTries   int
	// Schedule
	SyncSchedule string
	SyncOnStart  bool
	// Run journal
	Storage     string
	DatabaseURL string
	// Run lock
	RunLock       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RunLockTTL    time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func floatDef(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func boolDef(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func msDef(key string, def time.Duration) time.Duration {
	ms := atoiDef(getEnv(key, ""), int(def/time.Millisecond))
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:              getEnv("ENV", "local"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Port:             getEnv("PORT", infraconfig.DefaultHTTPPort),
		NotionToken:      os.Getenv("NOTION_TOKEN"),
		NotionCryptoDBID: os.Getenv("NOTION_CRYPTO_DB_ID"),
		NotionETFDBID:    os.Getenv("NOTION_ETF_DB_ID"),
		NotionAPIBase:    getEnv("NOTION_API_BASE", infraconfig.DefaultNotionAPIBase),
		NotionVersion:    getEnv("NOTION_VERSION", infraconfig.DefaultNotionVersion),
		NotionRPS:        floatDef(getEnv("NOTION_RPS", ""), infraconfig.DefaultNotionRPS),
		Feeds:            strings.ToLower(getEnv("FEEDS", "live")),
		CoinGeckoAPIBase: getEnv("COINGECKO_API_BASE", infraconfig.DefaultCoinGeckoAPIBase),
		CoinGeckoAPIKey:  getEnv("COINGECKO_API_KEY", ""),
		YahooAPIBase:     getEnv("YAHOO_API_BASE", infraconfig.DefaultYahooAPIBase),
		RequestTimeout:   msDef("REQUEST_TIMEOUT_MS", infraconfig.DefaultRequestTimeout),
		RateLimitStep:    msDef("RATE_LIMIT_STEP_MS", infraconfig.DefaultRateLimitStep),
		RateLimitTries:   atoiDef(getEnv("RATE_LIMIT_ATTEMPTS", ""), infraconfig.DefaultRateLimitAttempts),
		SyncSchedule:     getEnv("SYNC_SCHEDULE", infraconfig.DefaultSyncSchedule),
		SyncOnStart:      boolDef(getEnv("SYNC_ON_START", ""), true),
		Storage:          strings.ToLower(getEnv("STORAGE", "memory")),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RunLock:          strings.ToLower(getEnv("RUN_LOCK", "none")),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          atoiDef(getEnv("REDIS_DB", "0"), 0),
		RunLockTTL:       msDef("RUN_LOCK_TTL_MS", infraconfig.DefaultRunLockTTL),
	}
}

// Validate reports every missing required variable in a single error.
func (c Config) Validate() error {
	var missing []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	require("NOTION_TOKEN", c.NotionToken)
	require("NOTION_CRYPTO_DB_ID", c.NotionCryptoDBID)
	require("NOTION_ETF_DB_ID", c.NotionETFDBID)
	if c.Storage == "pg" {
		require("DATABASE_URL", c.DatabaseURL)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	if c.RateLimitTries <= 0 {
		return fmt.Errorf("RATE_LIMIT_ATTEMPTS must be positive, got %d", c.RateLimitTries)
	}
	return nil
}
