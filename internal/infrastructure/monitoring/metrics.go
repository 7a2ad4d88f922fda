package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Window metrics
	WindowsOpen   prometheus.Gauge
	WindowsTotal  *prometheus.CounterVec
	WindowOps     *prometheus.CounterVec
	Gestures      *prometheus.CounterVec
	ExternalOpens prometheus.Counter

	// Operation metrics
	OperationDuration *prometheus.HistogramVec

	// Session metrics
	SessionsActive  prometheus.Gauge
	SessionsCreated prometheus.Counter
	SessionsBooted  prometheus.Counter
	SessionsReaped  prometheus.Counter

	// Registry metrics
	RegistryApps prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	OpenWindows       int64   `json:"open_windows"`
	ActiveSessions    int64   `json:"active_sessions"`
	ActiveConnections int64   `json:"active_connections"`
	AvgDurationMs     float64 `json:"avg_duration_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector backed by its own registry, so
// several collectors can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskos_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskos_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskos_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Window metrics
		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskos_windows_open",
				Help: "Number of open windows across all desktops",
			},
		),
		WindowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_windows_opened_total",
				Help: "Total number of windows created",
			},
			[]string{"category"},
		),
		WindowOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_window_operations_total",
				Help: "Total number of window manager operations",
			},
			[]string{"op"},
		),
		Gestures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_gestures_total",
				Help: "Total number of pointer gestures started",
			},
			[]string{"kind"},
		),
		ExternalOpens: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskos_external_opens_total",
				Help: "Total number of external passthrough windows mounted",
			},
		),

		// Operation metrics
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskos_operation_duration_seconds",
				Help:    "Desktop operation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"surface", "op", "status"},
		),

		// Session metrics
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskos_sessions_active",
				Help: "Number of live desktop sessions",
			},
		),
		SessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskos_sessions_created_total",
				Help: "Total number of desktop sessions created",
			},
		),
		SessionsBooted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskos_sessions_booted_total",
				Help: "Total number of sessions that reached the desktop",
			},
		),
		SessionsReaped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskos_sessions_reaped_total",
				Help: "Total number of idle sessions removed",
			},
		),

		// Registry metrics
		RegistryApps: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskos_registry_apps",
				Help: "Number of apps in registry",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskos_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "deskos_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler serves the Prometheus exposition format for this collector
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordOperation records the duration of a desktop operation
func (m *Metrics) RecordOperation(surface, op, status string, duration time.Duration) {
	m.OperationDuration.WithLabelValues(surface, op, status).Observe(duration.Seconds())
}

// RecordWindowOpened records a newly created window
func (m *Metrics) RecordWindowOpened(category string) {
	if category == "" {
		category = "app"
	}
	m.WindowsTotal.WithLabelValues(category).Inc()
	m.WindowsOpen.Inc()
	m.mu.Lock()
	m.snapshot.OpenWindows++
	m.mu.Unlock()
}

// RecordWindowClosed records a closed window
func (m *Metrics) RecordWindowClosed() {
	m.WindowsOpen.Dec()
	m.mu.Lock()
	m.snapshot.OpenWindows--
	m.mu.Unlock()
}

// RecordWindowsDiscarded drops windows that went away with their session
func (m *Metrics) RecordWindowsDiscarded(count int) {
	if count <= 0 {
		return
	}
	m.WindowsOpen.Sub(float64(count))
	m.mu.Lock()
	m.snapshot.OpenWindows -= int64(count)
	m.mu.Unlock()
}

// RecordWindowOp records a window manager operation
func (m *Metrics) RecordWindowOp(op string) {
	m.WindowOps.WithLabelValues(op).Inc()
}

// RecordGesture records the start of a pointer gesture
func (m *Metrics) RecordGesture(kind string) {
	m.Gestures.WithLabelValues(kind).Inc()
}

// IncExternalOpens records an external passthrough mount
func (m *Metrics) IncExternalOpens() {
	m.ExternalOpens.Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// SetSessionsActive sets the number of live sessions
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveSessions = int64(count)
	m.mu.Unlock()
}

// IncSessionsCreated increments the sessions created counter
func (m *Metrics) IncSessionsCreated() {
	m.SessionsCreated.Inc()
}

// IncSessionsBooted increments the booted sessions counter
func (m *Metrics) IncSessionsBooted() {
	m.SessionsBooted.Inc()
}

// AddSessionsReaped adds to the reaped sessions counter
func (m *Metrics) AddSessionsReaped(count int) {
	m.SessionsReaped.Add(float64(count))
}

// SetRegistryApps sets the number of apps in registry
func (m *Metrics) SetRegistryApps(count int) {
	m.RegistryApps.Set(float64(count))
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	if snap.TotalRequests > 0 {
		snap.AvgDurationMs = snap.totalDuration / float64(snap.TotalRequests) * 1000
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
