package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ridetracker"

// Metrics holds the tracker's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	UpdatesTotal        *prometheus.CounterVec
	PollFailuresTotal   prometheus.Counter
	ReconnectAttempts   prometheus.Counter
	TransportState      *prometheus.GaugeVec
	ActionsTotal        *prometheus.CounterVec
	ActiveSessions      prometheus.Gauge
	ActionLatency       *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UpdatesTotal: f.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "updates_total", Help: "Session updates by source and outcome"},
			[]string{"source", "kind", "outcome"},
		),
		PollFailuresTotal: f.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "poll_failures_total", Help: "Failed reconciliation fetches"}),
		ReconnectAttempts: f.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "reconnect_attempts_total", Help: "Transport dial attempts made by the reconnect loop"}),
		TransportState: f.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "transport_state", Help: "1 for the current transport state"},
			[]string{"state"},
		),
		ActionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "actions_total", Help: "User actions by result"},
			[]string{"action", "result"},
		),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "active_sessions", Help: "Rides currently tracked"}),
		ActionLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "action_latency_seconds", Help: "Rides API latency for user actions", Buckets: prometheus.DefBuckets},
			[]string{"action"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Presentation API requests"},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "Presentation API latency", Buckets: prometheus.DefBuckets},
			[]string{"method", "path"},
		),
	}
}

// Update counts one reducer outcome
func (m *Metrics) Update(source, kind, outcome string) {
	if m == nil {
		return
	}
	m.UpdatesTotal.WithLabelValues(source, kind, outcome).Inc()
}

// PollFailed counts one failed poll
func (m *Metrics) PollFailed() {
	if m == nil {
		return
	}
	m.PollFailuresTotal.Inc()
}

// ReconnectAttempt counts one reconnect dial
func (m *Metrics) ReconnectAttempt() {
	if m == nil {
		return
	}
	m.ReconnectAttempts.Inc()
}

// TransportStateChanged flips the state gauge so only state reads 1
func (m *Metrics) TransportStateChanged(from, to string) {
	if m == nil {
		return
	}
	if from != "" {
		m.TransportState.WithLabelValues(from).Set(0)
	}
	m.TransportState.WithLabelValues(to).Set(1)
}

// Action records the result and latency of a user action
func (m *Metrics) Action(action, result string, seconds float64) {
	if m == nil {
		return
	}
	m.ActionsTotal.WithLabelValues(action, result).Inc()
	m.ActionLatency.WithLabelValues(action).Observe(seconds)
}

// SessionsChanged adjusts the active session gauge
func (m *Metrics) SessionsChanged(delta float64) {
	if m == nil {
		return
	}
	m.ActiveSessions.Add(delta)
}

// HTTPRequest records one presentation API request
func (m *Metrics) HTTPRequest(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}
