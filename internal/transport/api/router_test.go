package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/fsdevblog/luffy-streaming/internal/logger"
	"github.com/fsdevblog/luffy-streaming/internal/metrics"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/middlewares"
	"github.com/fsdevblog/luffy-streaming/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, router http.Handler, method, url string) (int, string) {
	t.Helper()
	res, err := testutils.MakeRequest(testutils.RequestArgs{Router: router, Method: method, URL: url},
		testutils.WithHeader("Accept", "application/json"),
		testutils.WithHeader("Content-Type", "application/json"))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, res.Body.Close())
	}()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var healthErr error
	router := New(RouterArgs{
		Logger:       logger.New(io.Discard),
		JWTSecretKey: []byte("secret"),
		Health: func(context.Context) error {
			return healthErr
		},
	})

	status, body := get(t, router, http.MethodGet, HealthRoute)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	healthErr = errors.New("db down")
	status, body = get(t, router, http.MethodGet, HealthRoute)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.JSONEq(t, `{"status":"unavailable"}`, body)
}

func TestMetricsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := New(RouterArgs{
		Logger:       logger.New(io.Discard),
		JWTSecretKey: []byte("secret"),
		Metrics:      metrics.New(),
	})

	status, _ := get(t, router, http.MethodGet, HealthRoute)
	require.Equal(t, http.StatusOK, status)

	status, body := get(t, router, http.MethodGet, MetricsRoute)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `luffy_http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestAuthRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	l := logger.New(io.Discard)
	router := New(RouterArgs{
		Logger:       l,
		JWTSecretKey: []byte("secret"),
		AuthLimiter:  middlewares.NewRateLimiter(0.001, 2, l),
	})

	// пустое тело отбивается на разборе, до сервиса запрос не доходит
	for range 2 {
		status, _ := get(t, router, http.MethodPost, RouteGroup+LoginRoute)
		assert.Equal(t, http.StatusBadRequest, status)
	}
	status, body := get(t, router, http.MethodPost, RouteGroup+LoginRoute)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.JSONEq(t, `{"error":"too many requests, try again later"}`, body)

	// на публичные роуты лимит не распространяется
	status, _ = get(t, router, http.MethodGet, HealthRoute)
	assert.Equal(t, http.StatusOK, status)
}
