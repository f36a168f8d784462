package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	ComputeDur  prometheus.Histogram

	FetchRequests prometheus.Counter
	FetchErrors   prometheus.Counter
	BarsUpserted  prometheus.Counter

	PipelineRuns        prometheus.Counter
	PipelineLastSuccess prometheus.Gauge

	HTTPDur *prometheus.HistogramVec
}

// New registers and returns all Prometheus metrics. Production code passes
// prometheus.DefaultRegisterer so promhttp serves them; tests pass a private
// registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockcompass_cache_hits_total",
			Help: "Bundle cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockcompass_cache_misses_total",
			Help: "Bundle cache misses",
		}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockcompass_bundle_compute_duration_seconds",
			Help:    "Indicator bundle recompute latency per symbol",
			Buckets: prometheus.DefBuckets,
		}),

		FetchRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockcompass_fetch_requests_total",
			Help: "Upstream price fetches attempted",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockcompass_fetch_errors_total",
			Help: "Upstream price fetches that failed",
		}),
		BarsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockcompass_bars_upserted_total",
			Help: "Daily bars written to the store",
		}),

		PipelineRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockcompass_pipeline_runs_total",
			Help: "Update pipeline runs started",
		}),
		PipelineLastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockcompass_pipeline_last_success_timestamp_seconds",
			Help: "Unix time of the last pipeline run where at least one symbol succeeded",
		}),

		HTTPDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockcompass_http_request_duration_seconds",
			Help:    "HTTP handler latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.ComputeDur,
		m.FetchRequests,
		m.FetchErrors,
		m.BarsUpserted,
		m.PipelineRuns,
		m.PipelineLastSuccess,
		m.HTTPDur,
	)

	return m
}
