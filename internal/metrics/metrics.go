package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	SearchesTotal    *prometheus.CounterVec
	SearchDuration   *prometheus.HistogramVec
	SearchesInFlight prometheus.Gauge

	EndpointAttemptsTotal *prometheus.CounterVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitHitsTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SearchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "narabot_searches_total",
				Help: "Total number of searches processed",
			},
			[]string{"mode", "status"},
		),
		SearchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "narabot_search_duration_seconds",
				Help:    "Search duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15, 30},
			},
			[]string{"mode"},
		),
		SearchesInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "narabot_searches_in_flight",
				Help: "Number of searches currently being processed",
			},
		),

		EndpointAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "narabot_endpoint_attempts_total",
				Help: "Upstream endpoint attempts by outcome",
			},
			[]string{"mode", "outcome"},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "narabot_cache_hits_total",
				Help: "Total number of search cache hits",
			},
		),
		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "narabot_cache_misses_total",
				Help: "Total number of search cache misses",
			},
		),

		RateLimitHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "narabot_rate_limit_hits_total",
				Help: "Total number of rate limit rejections",
			},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordSearch(mode, status string, duration time.Duration) {
	m.SearchesTotal.WithLabelValues(mode, status).Inc()
	m.SearchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordEndpointAttempt считает исходы перебора: success / network / status /
// decode / schema / business.
func (m *Metrics) RecordEndpointAttempt(mode, outcome string) {
	m.EndpointAttemptsTotal.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) RecordCacheHit()  { m.CacheHitsTotal.Inc() }
func (m *Metrics) RecordCacheMiss() { m.CacheMissesTotal.Inc() }

func (m *Metrics) RecordRateLimitHit() { m.RateLimitHitsTotal.Inc() }

func (m *Metrics) IncSearchesInFlight() { m.SearchesInFlight.Inc() }
func (m *Metrics) DecSearchesInFlight() { m.SearchesInFlight.Dec() }
