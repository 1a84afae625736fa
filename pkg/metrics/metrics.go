// Package metrics exports engine, cache and API activity to Prometheus.
//
// A [Registry] owns a private prometheus.Registry and implements the
// observability hook interfaces, so main wires it with:
//
//	m := metrics.NewRegistry()
//	observability.SetLayoutHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//	router.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/flowlayout/pkg/observability"
)

// Registry holds all metrics for the application
type Registry struct {
	// Layout Metrics
	LayoutsTotal         *prometheus.CounterVec
	LayoutDuration       *prometheus.HistogramVec
	LayoutNodes          *prometheus.HistogramVec
	AnalysesTotal        prometheus.Counter
	AnalysisDuration     prometheus.Histogram
	OptimizeCandidates   *prometheus.HistogramVec
	OptimizeImprovement  *prometheus.HistogramVec
	LayoutsInFlight      prometheus.Gauge

	// Cache Metrics
	CacheHitsTotal     *prometheus.CounterVec
	CacheMissesTotal   *prometheus.CounterVec
	CacheWrittenBytes  *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
	}

	r.initLayoutMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// =============================================================================
// observability.LayoutHooks
// =============================================================================

// OnLayoutStart counts a layout as in flight.
func (r *Registry) OnLayoutStart(_ context.Context, algorithm string, nodeCount int) {
	r.LayoutsInFlight.Inc()
	r.LayoutNodes.WithLabelValues(algorithm).Observe(float64(nodeCount))
}

// OnLayoutComplete records the outcome and latency of a layout.
func (r *Registry) OnLayoutComplete(_ context.Context, algorithm string, duration time.Duration, err error) {
	r.LayoutsInFlight.Dec()
	r.LayoutsTotal.WithLabelValues(algorithm, status(err)).Inc()
	r.LayoutDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// OnAnalyze records a topology analysis.
func (r *Registry) OnAnalyze(_ context.Context, _ int, duration time.Duration) {
	r.AnalysesTotal.Inc()
	r.AnalysisDuration.Observe(duration.Seconds())
}

// OnOptimize records the size and gain of an optimization run.
func (r *Registry) OnOptimize(_ context.Context, algorithm string, candidates int, improvement float64, _ time.Duration) {
	r.OptimizeCandidates.WithLabelValues(algorithm).Observe(float64(candidates))
	r.OptimizeImprovement.WithLabelValues(algorithm).Observe(improvement)
}

// =============================================================================
// observability.CacheHooks
// =============================================================================

// OnCacheHit records a cache hit.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

// OnCacheMiss records a cache miss.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

// OnCacheSet records bytes written to the cache.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// observability.HTTPHooks
// =============================================================================

// OnRequest counts a request as in flight.
func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

// OnResponse records the status and latency of a request.
func (r *Registry) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	code := strconv.Itoa(statusCode)
	r.HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

var (
	_ observability.LayoutHooks = (*Registry)(nil)
	_ observability.CacheHooks  = (*Registry)(nil)
	_ observability.HTTPHooks   = (*Registry)(nil)
)
