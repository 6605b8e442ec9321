package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the API reports.
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration      *prometheus.HistogramVec
	RequestTotal         *prometheus.CounterVec
	SearchTotal          *prometheus.CounterVec
	HistoryWriteFailures prometheus.Counter
	FacetCacheHits       prometheus.Counter
	FacetCacheMisses     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "covidsearch_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"route", "method"},
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "covidsearch_http_requests_total",
				Help: "Total HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		SearchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "covidsearch_searches_total",
				Help: "Searches executed, by mode (text or browse)",
			},
			[]string{"mode"},
		),
		HistoryWriteFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "covidsearch_history_write_failures_total",
				Help: "Search history writes that failed",
			},
		),
		FacetCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "covidsearch_facet_cache_hits_total",
				Help: "Facet requests served from cache",
			},
		),
		FacetCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "covidsearch_facet_cache_misses_total",
				Help: "Facet requests that recomputed the aggregation",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestDuration,
		m.RequestTotal,
		m.SearchTotal,
		m.HistoryWriteFailures,
		m.FacetCacheHits,
		m.FacetCacheMisses,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
