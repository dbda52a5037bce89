package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeterProvider(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { provider.Shutdown(context.Background()) })

	return provider, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func intSum(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_ActiveUsersAreDistinct(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	m, err := New(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.UserLoggedIn(ctx, 1)
	m.UserLoggedIn(ctx, 1)
	m.UserLoggedIn(ctx, 1)
	m.UserLoggedIn(ctx, 2)
	m.UserLoggedOut(ctx, 1)
	m.UserLoggedOut(ctx, 1)
	m.UserLoggedOut(ctx, 3)

	got := collect(t, reader)
	assert.Equal(t, int64(1), intSum(t, got["users.active"]))
}

func TestMetrics_Auth(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	m, err := New(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAuth(ctx, true)
	m.RecordAuth(ctx, true)
	m.RecordAuth(ctx, false)
	m.UserLoggedIn(ctx, 1)
	m.UserLoggedIn(ctx, 2)
	m.UserLoggedOut(ctx, 2)
	m.RecordRequest(ctx, http.MethodGet)

	got := collect(t, reader)
	assert.Equal(t, int64(3), intSum(t, got["auth.attempts"]))
	assert.Equal(t, int64(1), intSum(t, got["users.active"]))
	assert.Equal(t, int64(1), intSum(t, got["http.requests"]))

	attempts := got["auth.attempts"].Data.(metricdata.Sum[int64])
	byResult := map[string]int64{}
	for _, dp := range attempts.DataPoints {
		result, _ := dp.Attributes.Value("result")
		byResult[result.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), byResult["success"])
	assert.Equal(t, int64(1), byResult["failure"])
}

func TestMetrics_PizzaPurchase(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	m, err := New(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordPizzaPurchase(ctx, true, 20*time.Millisecond, 3, 0.15)
	m.RecordPizzaPurchase(ctx, false, 5*time.Millisecond, 2, 0.1)

	got := collect(t, reader)
	assert.Equal(t, int64(3), intSum(t, got["pizza.sold"]))
	assert.Equal(t, int64(1), intSum(t, got["pizza.creation.failures"]))

	revenue := got["pizza.revenue"].Data.(metricdata.Sum[float64])
	require.Len(t, revenue.DataPoints, 1)
	assert.InDelta(t, 0.15, revenue.DataPoints[0].Value, 1e-9)

	latency := got["pizza.creation.latency"].Data.(metricdata.Histogram[float64])
	require.Len(t, latency.DataPoints, 1)
	assert.Equal(t, uint64(2), latency.DataPoints[0].Count)
	assert.InDelta(t, 25.0, latency.DataPoints[0].Sum, 1e-6)
}

func TestRegisterSystemGauges(t *testing.T) {
	if _, err := mem.VirtualMemory(); err != nil {
		t.Skipf("host memory stats unavailable: %v", err)
	}

	provider, reader := setupTestMeterProvider(t)
	require.NoError(t, RegisterSystemGauges(provider))

	got := collect(t, reader)
	assert.Contains(t, got, "system.memory.usage")
}

func TestHTTPCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewHTTPCollector(registry)

	c.Observe(http.MethodGet, "/api/user/{userId}", http.StatusOK, 10*time.Millisecond)
	c.Observe(http.MethodGet, "/api/user/{userId}", http.StatusForbidden, 10*time.Millisecond)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(body, `pizza_http_requests_total{method="GET",route="/api/user/{userId}",status="403"} 1`), body)
	assert.Contains(t, body, "pizza_http_request_duration_seconds_bucket")
}
