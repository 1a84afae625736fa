package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowlayout_layouts_total",
			Help: "Total number of layout runs",
		},
		[]string{"algorithm", "status"},
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowlayout_layout_duration_seconds",
			Help:    "Layout latency in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"algorithm"},
	)

	r.LayoutNodes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowlayout_layout_nodes",
			Help:    "Number of nodes per layout run",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"algorithm"},
	)

	r.LayoutsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowlayout_layouts_in_flight",
			Help: "Current number of running layouts",
		},
	)

	r.AnalysesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flowlayout_analyses_total",
			Help: "Total number of topology analyses",
		},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowlayout_analysis_duration_seconds",
			Help:    "Topology analysis latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	r.OptimizeCandidates = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowlayout_optimize_candidates",
			Help:    "Candidates evaluated per optimization run",
			Buckets: []float64{1, 5, 11, 21, 51},
		},
		[]string{"algorithm"},
	)

	r.OptimizeImprovement = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowlayout_optimize_improvement",
			Help:    "Score gain of the best candidate over the base config",
			Buckets: []float64{0, .01, .05, .1, .2, .5, 1},
		},
		[]string{"algorithm"},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowlayout_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key_type"},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowlayout_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key_type"},
	)

	r.CacheWrittenBytes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowlayout_cache_written_bytes_total",
			Help: "Total bytes written to the cache",
		},
		[]string{"key_type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowlayout_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowlayout_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowlayout_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}
