package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewCollector(reg)

	handler := collector.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	metricsRec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := metricsRec.Body.String()
	assert.True(t, strings.Contains(body, `devconnect_http_requests_total{code="404",method="GET"} 1`), body)
	assert.Contains(t, body, "devconnect_http_request_duration_seconds")
}

func TestMiddlewareDefaultsTo200(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewCollector(reg)

	handler := collector.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	metricsRec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metricsRec.Body.String(), `devconnect_http_requests_total{code="200",method="GET"} 1`)
}
