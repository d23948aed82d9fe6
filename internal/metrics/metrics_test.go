package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWith(reg, reg)
}

func TestObserveSubmission(t *testing.T) {
	m := newTestMetrics()
	m.ObserveSubmission("ok")
	m.ObserveSubmission("ok")
	m.ObserveSubmission("invalid")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("invalid")))
}

func TestObserveReloadSetsGauge(t *testing.T) {
	m := newTestMetrics()
	m.ObserveReload("ok", 12)
	m.ObserveReload("failed", 12)

	assert.Equal(t, 12.0, testutil.ToFloat64(m.records))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues("failed")))
}

func TestStreamGauge(t *testing.T) {
	m := newTestMetrics()
	m.StreamOpened()
	m.StreamOpened()
	m.StreamClosed()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.streamListeners))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := newTestMetrics()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/items/{id}", "418")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := newTestMetrics()
	m.ObserveExport(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "training_exports_total 1"))
}
