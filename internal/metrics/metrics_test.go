package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("get", "/api/products", "200", 10*time.Millisecond)
	m.ObserveHTTP("GET", "/api/products", "200", 20*time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `luffy_http_requests_total{method="GET",path="/api/products",status="200"} 2`)
	assert.Contains(t, out, `luffy_http_request_duration_seconds_count{method="GET",path="/api/products"} 2`)
}

func TestObserveDelivery(t *testing.T) {
	m := New()
	m.ObserveDelivery(DeliveryCompleted, 3)
	m.ObserveDelivery(DeliveryFailed, 0)

	out := scrape(t, m)
	assert.Contains(t, out, `luffy_delivery_runs_total{result="completed"} 1`)
	assert.Contains(t, out, `luffy_delivery_runs_total{result="failed"} 1`)
	assert.Contains(t, out, "luffy_delivery_items_total 3")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncInFlight()
		m.DecInFlight()
		m.ObserveHTTP("GET", "/", "200", time.Second)
		m.ObserveDelivery(DeliveryIdle, 0)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
