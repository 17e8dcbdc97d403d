// Package metrics holds the Prometheus collectors shared by the threadtext
// services and serves them in the text exposition format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "threadtext"

// Conversion outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeFetchError = "fetch_error"
	OutcomeInvalid    = "invalid"
)

// Registry owns a private Prometheus registry so several instances can live
// in one process (tests, embedded use).
type Registry struct {
	reg *prometheus.Registry

	Conversions        *prometheus.CounterVec
	ConversionDuration prometheus.Histogram
	CommentsPerThread  prometheus.Histogram
	Requests           *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates a Registry with all collectors registered.
func New() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.Conversions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conversions_total",
		Help:      "Thread conversions by outcome",
	}, []string{"outcome"})

	r.ConversionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "conversion_duration_seconds",
		Help:      "End-to-end conversion time including the upstream fetch",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	r.CommentsPerThread = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "comments_per_thread",
		Help:      "Visible comments per converted thread",
		Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000, 2500},
	})

	r.Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status",
	}, []string{"method", "status"})

	r.RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	r.reg.MustRegister(
		r.Conversions,
		r.ConversionDuration,
		r.CommentsPerThread,
		r.Requests,
		r.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveConversion records one conversion attempt.
func (r *Registry) ObserveConversion(outcome string, start time.Time, comments int) {
	r.Conversions.WithLabelValues(outcome).Inc()
	r.ConversionDuration.Observe(time.Since(start).Seconds())
	if outcome == OutcomeOK {
		r.CommentsPerThread.Observe(float64(comments))
	}
}

// ObserveRequest records one served HTTP request.
func (r *Registry) ObserveRequest(method string, status int, d time.Duration) {
	r.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Handler returns an http.Handler that serves the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
