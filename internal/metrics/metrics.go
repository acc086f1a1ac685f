// Package metrics exposes Prometheus metrics for the counter service.
package metrics

import (
	"context"
	"net/http"

	"vedic_counter/internal/counter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	IncrementsTotal      prometheus.Counter
	DecrementsTotal      prometheus.Counter
	CyclesCompletedTotal prometheus.Counter
	ResetsTotal          prometheus.Counter
	StorageErrorsTotal   *prometheus.CounterVec
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	Count                prometheus.Gauge
	TimerRunning         prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		IncrementsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vedic_increments_total",
			Help: "Total number of counter increments.",
		}),
		DecrementsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vedic_decrements_total",
			Help: "Total number of effective counter decrements.",
		}),
		CyclesCompletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vedic_cycles_completed_total",
			Help: "Total number of completed 108-count cycles.",
		}),
		ResetsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vedic_resets_total",
			Help: "Total number of confirmed resets.",
		}),
		StorageErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vedic_storage_errors_total",
				Help: "Storage failures by operation.",
			},
			[]string{"op"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vedic_http_requests_total",
				Help: "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vedic_http_request_duration_seconds",
				Help:    "HTTP request duration by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Count: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vedic_count",
			Help: "Current counter value.",
		}),
		TimerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vedic_timer_running",
			Help: "1 while the session timer is running.",
		}),
		registry: reg,
	}

	reg.MustRegister(
		m.IncrementsTotal,
		m.DecrementsTotal,
		m.CyclesCompletedTotal,
		m.ResetsTotal,
		m.StorageErrorsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.Count,
		m.TimerRunning,
	)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HandleEvent updates counters from a counter event. It is meant to be
// subscribed to the event bus.
func (m *Metrics) HandleEvent(_ context.Context, ev counter.Event) {
	if m == nil {
		return
	}
	switch ev.Type {
	case counter.EventIncremented:
		m.IncrementsTotal.Inc()
	case counter.EventDecremented:
		m.DecrementsTotal.Inc()
	case counter.EventCycleCompleted:
		m.CyclesCompletedTotal.Inc()
	case counter.EventReset:
		m.ResetsTotal.Inc()
	}
	m.Count.Set(float64(ev.State.Count))
	if ev.State.TimerRunning {
		m.TimerRunning.Set(1)
	} else {
		m.TimerRunning.Set(0)
	}
}

// RecordStorageError increments the storage error counter for op.
func (m *Metrics) RecordStorageError(op string) {
	if m == nil {
		return
	}
	m.StorageErrorsTotal.WithLabelValues(op).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}
