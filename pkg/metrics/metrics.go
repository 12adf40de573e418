// Package metrics implements the observability hooks with Prometheus
// collectors.
//
// Collectors are registered on a caller-supplied registerer so tests and
// embedders can keep them off the global default registry.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/observability"
)

const namespace = "cuckatoo"

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// SearchHooks records graph builds and search passes.
type SearchHooks struct {
	builds         *prometheus.CounterVec
	buildDuration  prometheus.Histogram
	graphEdges     prometheus.Histogram
	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	solutions      *prometheus.CounterVec
	activeSearches prometheus.Gauge
}

// NewSearchHooks creates the search collectors and registers them on reg.
func NewSearchHooks(reg prometheus.Registerer) *SearchHooks {
	h := &SearchHooks{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "builds_total",
			Help:      "Graph builds by status",
		}, []string{"status"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "build_duration_seconds",
			Help:      "Time to build the adjacency structure",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		graphEdges: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "edges",
			Help:      "Edge count of built graphs",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 12),
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "passes_total",
			Help:      "Search passes by cycle length and status",
		}, []string{"length", "status"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Search pass duration by cycle length",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"length"}),
		solutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "solutions_total",
			Help:      "Cycles found by cycle length",
		}, []string{"length"}),
		activeSearches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "active",
			Help:      "Search passes currently running",
		}),
	}
	reg.MustRegister(h.builds, h.buildDuration, h.graphEdges,
		h.searches, h.searchDuration, h.solutions, h.activeSearches)
	return h
}

func (h *SearchHooks) OnBuildComplete(_ context.Context, _, edges int, d time.Duration, err error) {
	h.builds.WithLabelValues(status(err)).Inc()
	if err == nil {
		h.buildDuration.Observe(d.Seconds())
		h.graphEdges.Observe(float64(edges))
	}
}

func (h *SearchHooks) OnSearchStart(context.Context, int, int) {
	h.activeSearches.Inc()
}

func (h *SearchHooks) OnSolution(_ context.Context, length int) {
	h.solutions.WithLabelValues(strconv.Itoa(length)).Inc()
}

func (h *SearchHooks) OnSearchComplete(_ context.Context, length, _ int, d time.Duration, err error) {
	l := strconv.Itoa(length)
	h.activeSearches.Dec()
	h.searches.WithLabelValues(l, status(err)).Inc()
	h.searchDuration.WithLabelValues(l).Observe(d.Seconds())
}

// CacheHooks counts cache lookups and writes per backend.
type CacheHooks struct {
	lookups *prometheus.CounterVec
	written *prometheus.CounterVec
}

// NewCacheHooks creates the cache collectors and registers them on reg.
func NewCacheHooks(reg prometheus.Registerer) *CacheHooks {
	h := &CacheHooks{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by backend and result",
		}, []string{"backend", "result"}),
		written: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by backend",
		}, []string{"backend"}),
	}
	reg.MustRegister(h.lookups, h.written)
	return h
}

func (h *CacheHooks) OnCacheHit(_ context.Context, backend string) {
	h.lookups.WithLabelValues(backend, "hit").Inc()
}

func (h *CacheHooks) OnCacheMiss(_ context.Context, backend string) {
	h.lookups.WithLabelValues(backend, "miss").Inc()
}

func (h *CacheHooks) OnCacheSet(_ context.Context, backend string, size int) {
	h.written.WithLabelValues(backend).Add(float64(size))
}

// HTTPHooks records API requests.
type HTTPHooks struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPHooks creates the HTTP collectors and registers them on reg.
func NewHTTPHooks(reg prometheus.Registerer) *HTTPHooks {
	h := &HTTPHooks{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by route and status code",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request duration by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(h.requests, h.duration)
	return h
}

func (h *HTTPHooks) OnRequest(context.Context, string, string) {}

func (h *HTTPHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Register installs Prometheus-backed hooks for every event category.
func Register(reg prometheus.Registerer) {
	observability.SetSearchHooks(NewSearchHooks(reg))
	observability.SetCacheHooks(NewCacheHooks(reg))
	observability.SetHTTPHooks(NewHTTPHooks(reg))
}

var (
	_ observability.SearchHooks = (*SearchHooks)(nil)
	_ observability.CacheHooks  = (*CacheHooks)(nil)
	_ observability.HTTPHooks   = (*HTTPHooks)(nil)
)
