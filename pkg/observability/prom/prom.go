// Package prom implements the observability hooks with Prometheus metrics.
//
// Call [Register] once at startup to create the collectors on a registerer
// and install them as the global hooks:
//
//	m := prom.Register(prometheus.DefaultRegisterer)
//	defer observability.Reset()
//
// The metrics are then exposed by the promhttp handler of the registerer's
// gatherer.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/beanchain/pkg/observability"
)

const namespace = "beanchain"

// Metrics holds the collectors backing the hooks.
type Metrics struct {
	graphBuilds     prometheus.Counter
	graphBuildTime  prometheus.Histogram
	graphNodes      prometheus.Gauge
	graphEdges      prometheus.Gauge
	graphRoots      prometheus.Gauge
	filterTime      *prometheus.HistogramVec
	cacheOps        *prometheus.CounterVec
	cacheEntryNodes *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	httpInFlight    prometheus.Gauge
}

// New creates the collectors on reg without installing them as hooks.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		graphBuilds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "builds_total",
			Help:      "Total base graph builds",
		}),
		graphBuildTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "build_duration_seconds",
			Help:      "Time to build the base graph",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		graphNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "nodes",
			Help:      "Nodes in the current base graph",
		}),
		graphEdges: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "edges",
			Help:      "Edges in the current base graph",
		}),
		graphRoots: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "roots",
			Help:      "Roots in the current base graph",
		}),
		filterTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "filter_duration_seconds",
			Help:      "Time to compute a filtered view",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"view"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "View cache operations by result",
		}, []string{"key_type", "op"}),
		cacheEntryNodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entry_nodes",
			Help:      "Node count of views stored in the cache",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),
	}
}

// Register creates the collectors on reg and installs them as the global
// graph, cache and HTTP hooks.
func Register(reg prometheus.Registerer) *Metrics {
	m := New(reg)
	observability.SetGraphHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
	return m
}

// OnBuild implements [observability.GraphHooks].
func (m *Metrics) OnBuild(_ context.Context, nodes, edges, roots int, d time.Duration) {
	m.graphBuilds.Inc()
	m.graphBuildTime.Observe(d.Seconds())
	m.graphNodes.Set(float64(nodes))
	m.graphEdges.Set(float64(edges))
	m.graphRoots.Set(float64(roots))
}

// OnFilter implements [observability.GraphHooks].
func (m *Metrics) OnFilter(_ context.Context, view string, _ int, d time.Duration) {
	m.filterTime.WithLabelValues(view).Observe(d.Seconds())
}

// OnCacheHit implements [observability.CacheHooks].
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements [observability.CacheHooks].
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements [observability.CacheHooks].
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheEntryNodes.WithLabelValues(keyType).Observe(float64(size))
}

// OnCacheEvict implements [observability.CacheHooks].
func (m *Metrics) OnCacheEvict(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "evict").Inc()
}

// OnRequest implements [observability.HTTPHooks].
func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

// OnResponse implements [observability.HTTPHooks].
func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}
