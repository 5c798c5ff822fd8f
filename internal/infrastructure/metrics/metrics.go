// Package metrics holds the Prometheus collectors for the sync process.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "price_sync"

// Registry holds the collectors below and nothing else.
var Registry = prometheus.NewRegistry()

var (
	runsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Sync runs by final status.",
	}, []string{"status"})

	runDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a sync run.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	instrumentsUpdated = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "instruments_updated_total",
		Help:      "Rows written, by instrument group.",
	}, []string{"group"})

	upstreamRateLimited = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_rate_limited_total",
		Help:      "429 responses received from upstream feeds.",
	}, []string{"service"})

	lastSuccess = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful run.",
	})
)

// Recorder implements application.Metrics on top of the package collectors.
type Recorder struct{}

func (Recorder) RunFinished(status string, took time.Duration, at time.Time) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.Observe(took.Seconds())
	if status == "done" {
		lastSuccess.Set(float64(at.Unix()))
	}
}

func (Recorder) InstrumentUpdated(group string) {
	instrumentsUpdated.WithLabelValues(group).Inc()
}

// RateLimited counts one 429 from service.
func RateLimited(service string) {
	upstreamRateLimited.WithLabelValues(service).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
