package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bgpfig/bgpfig/pkg/observability"
)

// Metrics implements the observability hook interfaces on a Prometheus
// registry. One instance is created per server and registered globally
// at startup.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	loads          *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec

	cacheOps *prometheus.CounterVec
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bgpfig_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "bgpfig_http_request_duration_seconds",
			Help: "HTTP request latency",
		}, []string{"method", "path"}),
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bgpfig_snapshot_loads_total",
			Help: "snapshot load attempts",
		}, []string{"status"}),
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bgpfig_renders_total",
			Help: "document renders",
		}, []string{"format", "status"}),
		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "bgpfig_render_duration_seconds",
			Help: "document render latency",
		}, []string{"format"}),
		cacheOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bgpfig_cache_operations_total",
			Help: "document cache operations",
		}, []string{"type", "result"}),
	}
}

// Register installs this collector as the process-wide hook implementation.
func (m *Metrics) Register() {
	observability.SetExportHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// =============================================================================
// observability.ExportHooks
// =============================================================================

func (m *Metrics) OnLoadStart(ctx context.Context, source string) {}

func (m *Metrics) OnLoadComplete(ctx context.Context, source string, routerCount int, d time.Duration, err error) {
	m.loads.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) OnRenderStart(ctx context.Context, format string) {}

func (m *Metrics) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	m.renders.WithLabelValues(format, outcome(err)).Inc()
	if err == nil {
		m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	}
}

// =============================================================================
// observability.CacheHooks
// =============================================================================

func (m *Metrics) OnCacheHit(ctx context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(ctx context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(ctx context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
}

// =============================================================================
// observability.HTTPHooks
// =============================================================================

func (m *Metrics) OnRequest(ctx context.Context, method, path string) {}

func (m *Metrics) OnResponse(ctx context.Context, method, path string, statusCode int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Interface checks.
var (
	_ observability.ExportHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
