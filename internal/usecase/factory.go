package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/dto/response"
	"pizza-service/pkg/utils"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const msgFactoryFailed = "Failed to fulfill order at factory"

// FactoryError is returned when the factory did not fulfill an order. ReportURL is
// passed through to the diner when the factory supplied one.
type FactoryError struct {
	ReportURL string
	Err       error
}

func (e *FactoryError) Error() string {
	if e.Err != nil {
		return msgFactoryFailed + ": " + e.Err.Error()
	}
	return msgFactoryFailed
}

func (e *FactoryError) Unwrap() error {
	return e.Err
}

// FactoryReceipt is a fulfilled factory order.
type FactoryReceipt struct {
	ReportURL string `json:"reportUrl"`
	JWT       string `json:"jwt"`
}

type FactoryClient interface {
	Fulfill(ctx context.Context, diner *entity.User, order *entity.Order) (*FactoryReceipt, error)
}

type factoryDiner struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type factoryOrderRequest struct {
	Diner factoryDiner           `json:"diner"`
	Order response.OrderResponse `json:"order"`
}

type httpFactoryClient struct {
	url    string
	apiKey string
	client *http.Client
	log    *zap.Logger
}

func NewFactoryClient(config utils.FactoryConfig, log *zap.Logger) FactoryClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &httpFactoryClient{
		url:    config.URL,
		apiKey: config.APIKey,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log.With(zap.String("client", "factory")),
	}
}

func (c *httpFactoryClient) Fulfill(ctx context.Context, diner *entity.User, order *entity.Order) (*FactoryReceipt, error) {
	body, err := json.Marshal(factoryOrderRequest{
		Diner: factoryDiner{ID: diner.ID, Name: diner.Name, Email: diner.Email},
		Order: response.OrderToResponse(order),
	})
	if err != nil {
		return nil, fmt.Errorf("encode factory order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/order", bytes.NewReader(body))
	if err != nil {
		return nil, &FactoryError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("Factory request failed", zap.Error(err), zap.Int64("order_id", order.ID))
		return nil, &FactoryError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &FactoryError{Err: err}
	}

	var receipt FactoryReceipt
	decodeErr := json.Unmarshal(raw, &receipt)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("Factory rejected order",
			zap.Int("status", resp.StatusCode),
			zap.Int64("order_id", order.ID),
		)
		return nil, &FactoryError{
			ReportURL: receipt.ReportURL,
			Err:       fmt.Errorf("factory status %d", resp.StatusCode),
		}
	}
	if decodeErr != nil {
		return nil, &FactoryError{Err: fmt.Errorf("decode factory response: %w", decodeErr)}
	}

	return &receipt, nil
}
