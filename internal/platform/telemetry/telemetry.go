// Package telemetry exports the desk's Prometheus metrics: HTTP traffic,
// triage suggestions by tier, and how often operators override a suggestion.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guardia/guardia/internal/domain/triage"
)

const namespace = "guardia"

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Suggestions        *prometheus.CounterVec
	PriorityOverrides  *prometheus.CounterVec
	ConsultationsTotal *prometheus.CounterVec
	WaitingListSize    prometheus.Gauge
	CriticalResources  prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{registry: reg}
	initHTTPMetrics(m)
	initTriageMetrics(m)
	return m
}

func initHTTPMetrics(m *Metrics) {
	m.HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	m.HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	m.registry.MustRegister(m.HTTPRequests, m.HTTPDuration)
}

func initTriageMetrics(m *Metrics) {
	m.Suggestions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "triage_suggestions_total",
		Help:      "Priority suggestions produced by the classifier, by tier",
	}, []string{"priority"})

	m.PriorityOverrides = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "triage_overrides_total",
		Help:      "Consultations saved with a priority different from the suggestion",
	}, []string{"suggested", "chosen"})

	m.ConsultationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consultations_created_total",
		Help:      "Consultations registered, by stored priority",
	}, []string{"priority"})

	m.WaitingListSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "waiting_list_size",
		Help:      "Consultations in the waiting state at the last waiting-list read",
	})

	m.CriticalResources = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "critical_resources",
		Help:      "Resources at or below the critical stock threshold at the last check",
	})

	m.registry.MustRegister(
		m.Suggestions,
		m.PriorityOverrides,
		m.ConsultationsTotal,
		m.WaitingListSize,
		m.CriticalResources,
	)
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) RecordSuggestion(p triage.Priority) {
	m.Suggestions.WithLabelValues(p.String()).Inc()
}

func (m *Metrics) RecordConsultation(stored string, suggested triage.Priority) {
	m.ConsultationsTotal.WithLabelValues(stored).Inc()
	if stored != suggested.String() {
		m.PriorityOverrides.WithLabelValues(suggested.String(), stored).Inc()
	}
}

func (m *Metrics) SetWaitingListSize(n int) {
	m.WaitingListSize.Set(float64(n))
}

func (m *Metrics) SetCriticalResources(n int) {
	m.CriticalResources.Set(float64(n))
}
