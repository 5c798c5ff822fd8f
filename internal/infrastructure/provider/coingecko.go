package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"
	infraconfig "notion-price-sync/internal/infrastructure/config"
	"notion-price-sync/internal/infrastructure/httpx"
	"notion-price-sync/internal/infrastructure/metrics"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	coinGeckoService   = "coingecko"
	coinGeckoPricePath = "/simple/price"
)

var errRateLimited = errors.New("coingecko: rate limited (429)")

// CoinGecko reads spot prices from the CoinGecko simple price endpoint.
// A 429 is retried with a linearly growing wait; any other failure is final.
type CoinGecko struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client

	MaxAttempts int
	Step        time.Duration
	// Timer drives the wait between attempts; nil uses a real timer.
	Timer backoff.Timer
	Log   *zap.Logger
}

var _ application.CryptoPriceFeed = (*CoinGecko)(nil)

func NewCoinGecko(baseURL, apiKey string, hc *http.Client, log *zap.Logger) *CoinGecko {
	return &CoinGecko{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		Client:      &httpx.Client{Service: coinGeckoService, HTTP: hc},
		MaxAttempts: infraconfig.DefaultRateLimitAttempts,
		Step:        infraconfig.DefaultRateLimitStep,
		Log:         log,
	}
}

func (p *CoinGecko) SimplePrices(ctx context.Context, coinIDs []string, currency string) (domain.PriceTable, error) {
	if len(coinIDs) == 0 {
		return nil, errors.New("coingecko: no coin ids requested")
	}
	if currency == "" {
		return nil, errors.New("coingecko: quote currency is required")
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	client := p.Client
	if client == nil {
		client = &httpx.Client{Service: coinGeckoService}
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = infraconfig.DefaultRateLimitAttempts
	}
	step := p.Step
	if step <= 0 {
		step = infraconfig.DefaultRateLimitStep
	}

	u, err := url.Parse(p.BaseURL + coinGeckoPricePath)
	if err != nil {
		return nil, fmt.Errorf("coingecko: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("ids", strings.Join(coinIDs, ","))
	q.Set("vs_currencies", currency)
	u.RawQuery = q.Encode()

	var (
		out     domain.PriceTable
		attempt int
	)
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("coingecko: create request: %w", err))
		}
		req.Header.Set("User-Agent", infraconfig.DefaultUserAgent)
		if p.APIKey != "" {
			req.Header.Set(p.apiKeyHeader(), p.APIKey)
		}

		var body rawPriceTable
		err = client.DoJSON(ctx, req, &body)
		var se *httpx.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
			metrics.RateLimited(coinGeckoService)
			return errRateLimited
		}
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %w", domain.ErrUpstreamFailed, err))
		}
		out = body.table()
		return nil
	}
	notify := func(_ error, wait time.Duration) {
		log.Warn("coingecko.rate_limited",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("sleep", wait),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(&linearBackOff{step: step}, uint64(maxAttempts-1)), ctx)
	if err := backoff.RetryNotifyWithTimer(op, b, notify, p.Timer); err != nil {
		if errors.Is(err, errRateLimited) {
			return nil, fmt.Errorf("%w: coingecko returned 429 on all %d attempts", domain.ErrRateLimitExhausted, attempt)
		}
		return nil, err
	}
	return out, nil
}

// rawPriceTable keeps null prices distinguishable from zero.
type rawPriceTable map[string]map[string]*float64

// table drops null prices so Lookup reports them as absent.
func (r rawPriceTable) table() domain.PriceTable {
	out := make(domain.PriceTable, len(r))
	for id, byCurrency := range r {
		prices := make(map[string]float64, len(byCurrency))
		for cur, p := range byCurrency {
			if p != nil {
				prices[cur] = *p
			}
		}
		out[id] = prices
	}
	return out
}

func (p *CoinGecko) apiKeyHeader() string {
	if strings.Contains(p.BaseURL, "pro-api.coingecko.com") {
		return "x-cg-pro-api-key"
	}
	return "x-cg-demo-api-key"
}
