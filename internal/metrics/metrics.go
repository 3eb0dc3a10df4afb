// Package metrics exposes Prometheus metrics for the dashboard. All methods
// are safe on a nil *Metrics so components can run without instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	BreakerState     prometheus.Gauge
	SessionLogins    prometheus.Counter
	SessionTeardowns *prometheus.CounterVec
	BedTransitions   *prometheus.CounterVec
	Dispensations    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_upstream_requests_total",
			Help: "Requests sent to the hospital API",
		}, []string{"method", "resource", "status"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_upstream_request_duration_seconds",
			Help:    "Hospital API round-trip duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "resource"}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_upstream_breaker_state",
			Help: "Hospital API circuit breaker state (0=closed, 1=half-open, 2=open)",
		}),
		SessionLogins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_session_logins_total",
			Help: "Sessions established",
		}),
		SessionTeardowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_session_teardowns_total",
			Help: "Sessions ended, by reason",
		}, []string{"reason"}),
		BedTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_bed_transitions_total",
			Help: "Bed assignment and discharge attempts, by outcome",
		}, []string{"transition", "outcome"}),
		Dispensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_dispensations_total",
			Help: "Dispensation attempts, by outcome",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.BreakerState,
		m.SessionLogins,
		m.SessionTeardowns,
		m.BedTransitions,
		m.Dispensations,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveUpstream records one hospital API call. status is 0 for transport
// failures.
func (m *Metrics) ObserveUpstream(method string, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	resource := ResourceOf(path)
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(method, resource, label).Inc()
	m.UpstreamDuration.WithLabelValues(method, resource).Observe(elapsed.Seconds())
}

func (m *Metrics) SetBreakerState(state int) {
	if m == nil {
		return
	}
	m.BreakerState.Set(float64(state))
}

func (m *Metrics) Login() {
	if m == nil {
		return
	}
	m.SessionLogins.Inc()
}

func (m *Metrics) Teardown(reason string) {
	if m == nil {
		return
	}
	m.SessionTeardowns.WithLabelValues(reason).Inc()
}

func (m *Metrics) BedTransition(transition string, outcome string) {
	if m == nil {
		return
	}
	m.BedTransitions.WithLabelValues(transition, outcome).Inc()
}

func (m *Metrics) Dispensation(outcome string) {
	if m == nil {
		return
	}
	m.Dispensations.WithLabelValues(outcome).Inc()
}

// ResourceOf reduces an API path to its collection name so label cardinality
// stays bounded: "/beds/12" -> "beds".
func ResourceOf(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "root"
	}
	if idx := strings.IndexAny(trimmed, "/?"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}
