package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	ParseFallbacks     *prometheus.CounterVec
	HTTPRequestsTotal  *prometheus.CounterVec
	BusyRejections     *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		GenerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planbuddy_generations_total",
				Help: "Model invocations by flow and outcome.",
			},
			[]string{"flow", "outcome"},
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "planbuddy_generation_duration_seconds",
				Help:    "Model invocation latency by flow.",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"flow"},
		),
		ParseFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planbuddy_parse_fallbacks_total",
				Help: "Replies whose structured payload could not be decoded.",
			},
			[]string{"flow"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planbuddy_http_requests_total",
				Help: "HTTP requests by method, route pattern and status.",
			},
			[]string{"method", "route", "status"},
		),
		BusyRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planbuddy_busy_rejections_total",
				Help: "Sends rejected because the surface already had a request in flight.",
			},
			[]string{"surface"},
		),
		registry: reg,
	}

	reg.MustRegister(m.GenerationsTotal)
	reg.MustRegister(m.GenerationDuration)
	reg.MustRegister(m.ParseFallbacks)
	reg.MustRegister(m.HTTPRequestsTotal)
	reg.MustRegister(m.BusyRejections)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordGeneration counts one invocation and observes its latency.
func (m *Metrics) RecordGeneration(flow, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(flow, outcome).Inc()
	m.GenerationDuration.WithLabelValues(flow).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordParseFallback(flow string) {
	if m == nil {
		return
	}
	m.ParseFallbacks.WithLabelValues(flow).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) RecordBusy(surface string) {
	if m == nil {
		return
	}
	m.BusyRejections.WithLabelValues(surface).Inc()
}
