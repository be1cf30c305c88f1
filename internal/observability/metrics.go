package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/coach-ledger/internal/usecase"
)

const metricsNamespace = "coach_ledger"

// Metrics holds the Prometheus collectors for ingestion, attribution and HTTP traffic.
type Metrics struct {
	registry *prometheus.Registry

	ingestRows         *prometheus.CounterVec
	ingestRejections   *prometheus.CounterVec
	ingestDuration     *prometheus.HistogramVec
	attributionOverlap prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var _ usecase.Metrics = (*Metrics)(nil)

// NewMetrics registers every collector on a private registry together with the Go and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		ingestRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "ingest",
			Name:      "rows_total",
			Help:      "Rows seen by ingestion runs, by kind and result.",
		}, []string{"kind", "result"}),
		ingestRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "ingest",
			Name:      "rejections_total",
			Help:      "Rejected rows, by kind and reason.",
		}, []string{"kind", "reason"}),
		ingestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Wall time of one ingestion run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		attributionOverlap: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "attribution",
			Name:      "ambiguous_total",
			Help:      "Matches whose date fell inside more than one tenure.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ingestRows,
		m.ingestRejections,
		m.ingestDuration,
		m.attributionOverlap,
		m.httpRequests,
		m.httpRequestDuration,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) IngestRow(kind usecase.Kind, accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.ingestRows.WithLabelValues(string(kind), result).Inc()
}

func (m *Metrics) IngestRejection(kind usecase.Kind, reason string) {
	m.ingestRejections.WithLabelValues(string(kind), reason).Inc()
}

func (m *Metrics) IngestDuration(kind usecase.Kind, elapsed time.Duration) {
	m.ingestDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (m *Metrics) AttributionAmbiguous() {
	m.attributionOverlap.Inc()
}

// ObserveHTTP records one served request. route is the mux pattern, never the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
