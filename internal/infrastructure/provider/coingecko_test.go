package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"notion-price-sync/internal/domain"
	"notion-price-sync/internal/infrastructure/httpx"
	"notion-price-sync/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

// recordingTimer fires immediately and remembers every requested wait.
type recordingTimer struct {
	waits []time.Duration
	c     chan time.Time
}

func (t *recordingTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}
func (t *recordingTimer) Stop()               {}
func (t *recordingTimer) C() <-chan time.Time { return t.c }

// statusSequence answers with codes[i] on call i and the last code after that.
func statusSequence(t *testing.T, calls *int32, codes []int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		code := codes[len(codes)-1]
		if int(n) <= len(codes) {
			code = codes[n-1]
		}
		if code != http.StatusOK {
			http.Error(w, `{"status":{"error_code":429}}`, code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newCoinGecko(baseURL string, timer *recordingTimer) *provider.CoinGecko {
	p := provider.NewCoinGecko(baseURL, "", &http.Client{Timeout: 2 * time.Second}, nil)
	p.Timer = timer
	return p
}

func TestSimplePrices_ReturnsMappingUnmodified(t *testing.T) {
	t.Parallel()
	var gotPath, gotIDs, gotVS, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotIDs = r.URL.Query().Get("ids")
		gotVS = r.URL.Query().Get("vs_currencies")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"bitcoin":{"aud":97250.5},"world-liberty-financial":{"aud":0.2431}}`))
	}))
	defer ts.Close()

	got, err := newCoinGecko(ts.URL, &recordingTimer{}).SimplePrices(context.Background(), []string{"bitcoin", "world-liberty-financial"}, "aud")
	require.NoError(t, err)
	require.Equal(t, domain.PriceTable{
		"bitcoin":                 {"aud": 97250.5},
		"world-liberty-financial": {"aud": 0.2431},
	}, got)
	require.Equal(t, "/simple/price", gotPath)
	require.Equal(t, "bitcoin,world-liberty-financial", gotIDs)
	require.Equal(t, "aud", gotVS)
	require.Equal(t, "notion-sync/1.0", gotUA)
}

func TestSimplePrices_DoesNotValidateMissingIDs(t *testing.T) {
	t.Parallel()
	var calls int32
	ts := statusSequence(t, &calls, []int{200}, `{"bitcoin":{"aud":1}}`)

	got, err := newCoinGecko(ts.URL, &recordingTimer{}).SimplePrices(context.Background(), []string{"bitcoin", "dogecoin"}, "aud")
	require.NoError(t, err)
	_, ok := got.Lookup("dogecoin", "aud")
	require.False(t, ok)
}

func TestSimplePrices_NullPriceIsAbsent(t *testing.T) {
	t.Parallel()
	var calls int32
	ts := statusSequence(t, &calls, []int{200}, `{"bitcoin":{"aud":null},"world-liberty-financial":{"aud":0}}`)

	got, err := newCoinGecko(ts.URL, &recordingTimer{}).SimplePrices(context.Background(), []string{"bitcoin", "world-liberty-financial"}, "aud")
	require.NoError(t, err)
	_, ok := got.Lookup("bitcoin", "aud")
	require.False(t, ok)
	p, ok := got.Lookup("world-liberty-financial", "aud")
	require.True(t, ok)
	require.Zero(t, p)
}

func TestSimplePrices_RetriesAfter429(t *testing.T) {
	t.Parallel()
	var calls int32
	ts := statusSequence(t, &calls, []int{429, 429, 200}, `{"bitcoin":{"aud":97250.5}}`)
	timer := &recordingTimer{}

	got, err := newCoinGecko(ts.URL, timer).SimplePrices(context.Background(), []string{"bitcoin"}, "aud")
	require.NoError(t, err)
	require.InDelta(t, 97250.5, got["bitcoin"]["aud"], 1e-9)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, timer.waits)
}

func TestSimplePrices_ExhaustsAfterSixAttempts(t *testing.T) {
	t.Parallel()
	var calls int32
	ts := statusSequence(t, &calls, []int{429}, "")
	timer := &recordingTimer{}

	_, err := newCoinGecko(ts.URL, timer).SimplePrices(context.Background(), []string{"bitcoin"}, "aud")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrRateLimitExhausted)
	require.Equal(t, int32(6), atomic.LoadInt32(&calls))
	require.Len(t, timer.waits, 5)
	for i := 1; i < len(timer.waits); i++ {
		require.Greater(t, timer.waits[i], timer.waits[i-1])
	}
}

func TestSimplePrices_NoRetryOnOtherStatus(t *testing.T) {
	t.Parallel()
	var calls int32
	ts := statusSequence(t, &calls, []int{http.StatusBadGateway}, "")
	timer := &recordingTimer{}

	_, err := newCoinGecko(ts.URL, timer).SimplePrices(context.Background(), []string{"bitcoin"}, "aud")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrUpstreamFailed)
	require.NotErrorIs(t, err, domain.ErrRateLimitExhausted)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Empty(t, timer.waits)

	var se *httpx.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusBadGateway, se.StatusCode)
	require.Equal(t, "coingecko", se.Service)
}

func TestSimplePrices_CustomAttemptsAndStep(t *testing.T) {
	t.Parallel()
	var calls int32
	ts := statusSequence(t, &calls, []int{429}, "")
	timer := &recordingTimer{}
	p := newCoinGecko(ts.URL, timer)
	p.MaxAttempts = 3
	p.Step = 10 * time.Millisecond

	_, err := p.SimplePrices(context.Background(), []string{"bitcoin"}, "aud")
	require.ErrorIs(t, err, domain.ErrRateLimitExhausted)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, timer.waits)
}

func TestSimplePrices_SendsDemoKeyHeader(t *testing.T) {
	t.Parallel()
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("x-cg-demo-api-key")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	p := provider.NewCoinGecko(ts.URL, "demo-key", ts.Client(), nil)
	_, err := p.SimplePrices(context.Background(), []string{"bitcoin"}, "aud")
	require.NoError(t, err)
	require.Equal(t, "demo-key", got)
}

func TestSimplePrices_RejectsEmptyIDs(t *testing.T) {
	t.Parallel()
	p := provider.NewCoinGecko("http://127.0.0.1:1", "", nil, nil)
	_, err := p.SimplePrices(context.Background(), nil, "aud")
	require.Error(t, err)
}
