package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts gateway round trips per service and outcome
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biblioteca",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Requests sent to the API gateway by service, method and outcome.",
		}, []string{"service", "method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "biblioteca",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Round trip latency of API gateway requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

const (
	outcomeOK        = "ok"
	outcomeHTTPError = "http_error"
	outcomeConnError = "connection_error"
	outcomeCanceled  = "canceled"
)

func (m *Metrics) observe(service, method, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(service, method, outcome).Inc()
	m.duration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}
