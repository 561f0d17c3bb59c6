// Package metrics holds the Prometheus collectors of the model server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c4-modeller/engine/internal/diagram"
)

const namespace = "c4model"

// Metrics is the set of collectors, registered on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ExportsTotal        *prometheus.CounterVec
	ImportsTotal        *prometheus.CounterVec
	Entities            *prometheus.GaugeVec
	AutosavesTotal      *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of model exports by format",
		},
		[]string{"format"},
	)
	m.ImportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Total number of model imports by format and result",
		},
		[]string{"format", "result"},
	)
	m.Entities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Number of entities in the model by type",
		},
		[]string{"type"},
	)
	m.AutosavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autosaves_total",
			Help:      "Total number of autosave attempts by result",
		},
		[]string{"result"},
	)

	m.Registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ExportsTotal,
		m.ImportsTotal,
		m.Entities,
		m.AutosavesTotal,
	)
	return m
}

// ObserveModel sets the entity gauges from s.
func (m *Metrics) ObserveModel(s *diagram.Snapshot) {
	for t, n := range s.CountByType() {
		m.Entities.WithLabelValues(string(t)).Set(float64(n))
	}
}

// ObserveExport counts an export.
func (m *Metrics) ObserveExport(format string) {
	m.ExportsTotal.WithLabelValues(format).Inc()
}

// ObserveImport counts an import attempt.
func (m *Metrics) ObserveImport(format string, err error) {
	m.ImportsTotal.WithLabelValues(format, outcome(err)).Inc()
}

// ObserveAutosave counts an autosave attempt. It fits persist.AutoSaver.OnSave.
func (m *Metrics) ObserveAutosave(err error) {
	m.AutosavesTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Middleware records request count and duration. Requests are labelled by
// the ServeMux pattern that matched, not the raw path.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses (MCP over HTTP) working through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
