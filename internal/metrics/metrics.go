// Package metrics exposes Prometheus metrics for submissions, reloads,
// exports and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "training"

// Metrics holds every collector the service records to.
type Metrics struct {
	gatherer prometheus.Gatherer

	submissions     *prometheus.CounterVec
	reloads         *prometheus.CounterVec
	records         prometheus.Gauge
	exports         prometheus.Counter
	exportRows      prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	streamListeners prometheus.Gauge
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWith(reg, reg)
}

// NewWith registers the collectors on reg and serves them from g.
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Registration submissions by result",
		}, []string{"result"}),
		reloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Review list reloads by result",
		}, []string{"result"}),
		records: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registrations",
			Help:      "Registrations held in the review list",
		}),
		exports: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "CSV exports served",
		}),
		exportRows: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_rows",
			Help:      "Data rows per CSV export",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		streamListeners: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_stream_listeners",
			Help:      "Open review event streams",
		}),
	}
}

// ObserveSubmission records one submission outcome.
func (m *Metrics) ObserveSubmission(result string) {
	m.submissions.WithLabelValues(result).Inc()
}

// ObserveReload records one reload outcome and the resulting list size.
func (m *Metrics) ObserveReload(result string, records int) {
	m.reloads.WithLabelValues(result).Inc()
	m.records.Set(float64(records))
}

// ObserveExport records one export of rows data rows.
func (m *Metrics) ObserveExport(rows int) {
	m.exports.Inc()
	m.exportRows.Observe(float64(rows))
}

// StreamOpened and StreamClosed track open event streams.
func (m *Metrics) StreamOpened() { m.streamListeners.Inc() }
func (m *Metrics) StreamClosed() { m.streamListeners.Dec() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request count and duration per chi route pattern, so
// label cardinality stays bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
