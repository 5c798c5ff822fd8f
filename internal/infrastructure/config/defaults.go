package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1

	DefaultNotionAPIBase    = "https://api.notion.com"
	DefaultNotionVersion    = "2022-06-28"
	DefaultNotionRPS        = 3.0
	DefaultCoinGeckoAPIBase = "https://api.coingecko.com/api/v3"
	DefaultYahooAPIBase     = "https://query1.finance.yahoo.com"
	DefaultUserAgent        = "notion-sync/1.0"

	DefaultRequestTimeout    = 20 * time.Second
	DefaultRateLimitStep     = 2 * time.Second
	DefaultRateLimitAttempts = 6

	DefaultSyncSchedule = "*/30 * * * *"
	DefaultRunLockTTL   = 10 * time.Minute
)
