// Package prom implements the observability hooks with Prometheus
// collectors.
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	m.Install()
//	http.Handle("/metrics", promhttp.Handler())
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/trifractal/pkg/observability"
)

const namespace = "trifractal"

// Metrics holds every collector and implements all hook interfaces.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	treeNodes     prometheus.Gauge

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter

	transitions    *prometheus.CounterVec
	rebuilds       prometheus.Histogram
	activeSessions prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Pipeline stages that returned an error.",
		}, []string{"stage"}),
		treeNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_nodes",
			Help:      "Node count of the most recently built tree.",
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Selection transitions by kind.",
		}, []string{"kind", "level"}),
		rebuilds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_rebuild_seconds",
			Help:      "Duration of tree rebuilds after a depth change.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Live sessions in the registry.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "HTTP requests that failed with an error.",
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.stageDuration, m.stageErrors, m.treeNodes,
		m.cacheOps, m.cacheBytes,
		m.transitions, m.rebuilds, m.activeSessions,
		m.httpRequests, m.httpDuration, m.httpErrors,
	)
	return m
}

// Install registers m as the global pipeline, cache, session and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetSessionHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) observeStage(stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

// Pipeline hooks

func (m *Metrics) OnBuildStart(context.Context, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, _ int, nodeCount int, d time.Duration, err error) {
	m.observeStage("build", d, err)
	m.treeNodes.Set(float64(nodeCount))
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, _ string, d time.Duration, err error) {
	m.observeStage("layout", d, err)
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.observeStage("render", d, err)
}

// Cache hooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

// Session hooks

func (m *Metrics) OnTransition(_ context.Context, kind string, level int) {
	l := strconv.Itoa(level)
	if kind != "select" {
		l = "all"
	}
	m.transitions.WithLabelValues(kind, l).Inc()
}

func (m *Metrics) OnRebuild(_ context.Context, _ int, nodeCount int, d time.Duration) {
	m.rebuilds.Observe(d.Seconds())
	m.treeNodes.Set(float64(nodeCount))
}

func (m *Metrics) OnActiveSessions(_ context.Context, n int) {
	m.activeSessions.Set(float64(n))
}

// HTTP hooks

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, route string, _ error) {
	m.httpErrors.WithLabelValues(method, route).Inc()
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.SessionHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
