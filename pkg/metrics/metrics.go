// Package metrics owns every process-wide counter. One Metrics value is built at
// start-up from the meter provider and handed to the components that record into it;
// the provider's periodic reader exports and resets the deltas.
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "pizza-service"

type Metrics struct {
	httpRequests      metric.Int64Counter
	authAttempts      metric.Int64Counter
	activeUsers       metric.Int64UpDownCounter
	pizzasSold        metric.Int64Counter
	revenue           metric.Float64Counter
	creationFailures  metric.Int64Counter
	creationLatencyMs metric.Float64Histogram

	mu     sync.Mutex
	active map[int64]struct{}
}

func New(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(instrumentationName)

	m := &Metrics{active: make(map[int64]struct{})}
	var err error

	m.httpRequests, err = meter.Int64Counter(
		"http.requests",
		metric.WithDescription("HTTP requests by method"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http.requests counter: %w", err)
	}

	m.authAttempts, err = meter.Int64Counter(
		"auth.attempts",
		metric.WithDescription("Authentication attempts by result"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth.attempts counter: %w", err)
	}

	m.activeUsers, err = meter.Int64UpDownCounter(
		"users.active",
		metric.WithDescription("Distinct users holding a session issued by this process"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create users.active counter: %w", err)
	}

	m.pizzasSold, err = meter.Int64Counter(
		"pizza.sold",
		metric.WithDescription("Pizzas sold"),
		metric.WithUnit("{pizza}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pizza.sold counter: %w", err)
	}

	m.revenue, err = meter.Float64Counter(
		"pizza.revenue",
		metric.WithDescription("Revenue from fulfilled orders"),
		metric.WithUnit("{bitcoin}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pizza.revenue counter: %w", err)
	}

	m.creationFailures, err = meter.Int64Counter(
		"pizza.creation.failures",
		metric.WithDescription("Orders the factory failed to fulfill"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pizza.creation.failures counter: %w", err)
	}

	m.creationLatencyMs, err = meter.Float64Histogram(
		"pizza.creation.latency",
		metric.WithDescription("Factory round trip for an order"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pizza.creation.latency histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordRequest(ctx context.Context, method string) {
	m.httpRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

func (m *Metrics) RecordAuth(ctx context.Context, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.authAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// UserLoggedIn counts a user as active once, however many sessions they open.
func (m *Metrics) UserLoggedIn(ctx context.Context, userID int64) {
	m.mu.Lock()
	_, seen := m.active[userID]
	m.active[userID] = struct{}{}
	m.mu.Unlock()

	if !seen {
		m.activeUsers.Add(ctx, 1)
	}
}

func (m *Metrics) UserLoggedOut(ctx context.Context, userID int64) {
	m.mu.Lock()
	_, seen := m.active[userID]
	delete(m.active, userID)
	m.mu.Unlock()

	if seen {
		m.activeUsers.Add(ctx, -1)
	}
}

// RecordPizzaPurchase records one factory round trip. Sold count and revenue only
// grow for fulfilled orders.
func (m *Metrics) RecordPizzaPurchase(ctx context.Context, success bool, latency time.Duration, pizzas int, revenue float64) {
	m.creationLatencyMs.Record(ctx, float64(latency.Microseconds())/1000)

	if !success {
		m.creationFailures.Add(ctx, 1)
		return
	}
	m.pizzasSold.Add(ctx, int64(pizzas))
	m.revenue.Add(ctx, revenue)
}
