package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/rrgraph/pkg/observability"
)

// Metrics exports pipeline, cache and server events to Prometheus. It
// implements every observability hook interface.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	Layouts         *prometheus.CounterVec
	LayoutDuration  prometheus.Histogram
	LayoutRounds    prometheus.Histogram
	Unconverged     prometheus.Counter
	Renders         *prometheus.CounterVec
	RenderDuration  prometheus.Histogram
	CacheEvents     *prometheus.CounterVec
	CacheBytes      prometheus.Counter
	Sessions        prometheus.Gauge
	SessionDuration prometheus.Histogram
	HoverChanges    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rrgraph_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rrgraph_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		Layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rrgraph_layouts_total",
			Help: "Layouts computed or served from cache",
		}, []string{"cached", "result"}),
		LayoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rrgraph_layout_duration_seconds",
			Help:    "Layout latency including cache lookup",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		LayoutRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rrgraph_layout_rounds",
			Help:    "Collision relaxation rounds used per computed layout",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		Unconverged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rrgraph_layout_unconverged_total",
			Help: "Layouts that exhausted the relaxation budget",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rrgraph_renders_total",
			Help: "Render passes by format and result",
		}, []string{"format", "result"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rrgraph_render_duration_seconds",
			Help:    "Render latency per pass",
			Buckets: prometheus.DefBuckets,
		}),
		CacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rrgraph_cache_events_total",
			Help: "Cache hits, misses and writes by key type",
		}, []string{"key_type", "event"}),
		CacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rrgraph_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rrgraph_sessions_active",
			Help: "Open live hover sessions",
		}),
		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rrgraph_session_duration_seconds",
			Help:    "Lifetime of live hover sessions",
			Buckets: []float64{1, 10, 60, 300, 900, 3600},
		}),
		HoverChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rrgraph_hover_transitions_total",
			Help: "Hover state transitions across all sessions",
		}),
	}

	reg.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.Layouts,
		m.LayoutDuration,
		m.LayoutRounds,
		m.Unconverged,
		m.Renders,
		m.RenderDuration,
		m.CacheEvents,
		m.CacheBytes,
		m.Sessions,
		m.SessionDuration,
		m.HoverChanges,
	)
	return m
}

// Install registers m as the global pipeline, cache and server hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetServerHooks(m)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ===== Pipeline hooks =====

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, ev observability.LayoutEvent) {
	m.Layouts.WithLabelValues(strconv.FormatBool(ev.Cached), result(ev.Err)).Inc()
	m.LayoutDuration.Observe(ev.Duration.Seconds())
	if ev.Cached || ev.Err != nil {
		return
	}
	m.LayoutRounds.Observe(float64(ev.Rounds))
	if !ev.Converged && ev.Sectors > 1 {
		m.Unconverged.Inc()
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		m.Renders.WithLabelValues(f, result(err)).Inc()
	}
	m.RenderDuration.Observe(d.Seconds())
}

// ===== Cache hooks =====

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.Add(float64(size))
}

// ===== Server hooks =====

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) OnSessionOpen(context.Context, string) {
	m.Sessions.Inc()
}

func (m *Metrics) OnSessionClose(_ context.Context, _ string, d time.Duration) {
	m.Sessions.Dec()
	m.SessionDuration.Observe(d.Seconds())
}

func (m *Metrics) OnHover(context.Context, string, string) {
	m.HoverChanges.Inc()
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)
