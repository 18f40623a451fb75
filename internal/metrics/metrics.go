// Package metrics owns the Prometheus collectors exported by the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors so tests can use a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	StoreReloads    prometheus.Counter
	StoreFailures   *prometheus.CounterVec
	StoreRecords    prometheus.Gauge
}

// New registers all collectors on a fresh registry together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StoreReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "answers_store_reloads_total",
			Help: "Number of times the answer snapshot was (re)built.",
		}),
		StoreFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "answers_store_failures_total",
			Help: "Failed snapshot loads by failure kind.",
		}, []string{"kind"}),
		StoreRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "answers_store_records",
			Help: "Answers in the currently published snapshot.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.RequestDuration,
		m.StoreReloads,
		m.StoreFailures,
		m.StoreRecords,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
