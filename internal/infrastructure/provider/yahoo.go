package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"
	infraconfig "notion-price-sync/internal/infrastructure/config"
	"notion-price-sync/internal/infrastructure/httpx"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	yahooService   = "yahoo"
	yahooChartPath = "/v8/finance/chart/"
)

// Yahoo reads the last traded price of a listed security from the chart API.
type Yahoo struct {
	BaseURL string
	Client  *httpx.Client
	Log     *zap.Logger
}

var _ application.SecurityQuoteFeed = (*Yahoo)(nil)

func NewYahoo(baseURL string, hc *http.Client, log *zap.Logger) *Yahoo {
	return &Yahoo{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &httpx.Client{Service: yahooService, HTTP: hc},
		Log:     log,
	}
}

// LastPrice asks for today's 1m chart and reads the price off its metadata.
// regularMarketPrice wins; previousClose is used when the live price is absent.
// A chart error or an empty result set means no price, not a failure.
func (p *Yahoo) LastPrice(ctx context.Context, ticker string) (domain.SecurityQuote, bool, error) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	client := p.Client
	if client == nil {
		client = &httpx.Client{Service: yahooService}
	}
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return domain.SecurityQuote{}, false, fmt.Errorf("yahoo: empty ticker")
	}

	u, err := url.Parse(p.BaseURL + yahooChartPath + url.PathEscape(ticker))
	if err != nil {
		return domain.SecurityQuote{}, false, fmt.Errorf("yahoo: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("interval", "1m")
	q.Set("range", "1d")
	q.Set("includePrePost", "false")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.SecurityQuote{}, false, fmt.Errorf("yahoo: create request: %w", err)
	}
	req.Header.Set("User-Agent", infraconfig.DefaultUserAgent)

	body, err := client.Do(ctx, req)
	if err != nil {
		return domain.SecurityQuote{}, false, fmt.Errorf("%w: %w", domain.ErrUpstreamFailed, err)
	}
	if !gjson.ValidBytes(body) {
		return domain.SecurityQuote{}, false, fmt.Errorf("%w: yahoo: invalid JSON for %s", domain.ErrUpstreamFailed, ticker)
	}

	chart := gjson.GetBytes(body, "chart")
	if e := chart.Get("error"); e.Exists() && e.Type != gjson.Null {
		log.Warn("yahoo.chart_error", zap.String("ticker", ticker), zap.String("error", e.Raw))
		return domain.SecurityQuote{}, false, nil
	}
	result := chart.Get("result")
	if !result.IsArray() || len(result.Array()) == 0 {
		log.Warn("yahoo.empty_result", zap.String("ticker", ticker))
		return domain.SecurityQuote{}, false, nil
	}

	meta := result.Array()[0].Get("meta")
	if live := meta.Get("regularMarketPrice"); live.Type == gjson.Number && live.Float() != 0 {
		return domain.SecurityQuote{Ticker: ticker, Price: live.Float(), Source: domain.PriceSourceLive}, true, nil
	}
	if prev := meta.Get("previousClose"); prev.Type == gjson.Number {
		log.Info("yahoo.previous_close_fallback", zap.String("ticker", ticker))
		return domain.SecurityQuote{Ticker: ticker, Price: prev.Float(), Source: domain.PriceSourcePreviousClose}, true, nil
	}
	return domain.SecurityQuote{}, false, nil
}
