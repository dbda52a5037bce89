package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFactoryClient_Fulfill(t *testing.T) {
	var received factoryOrderRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/order", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(FactoryReceipt{ReportURL: "http://factory/report", JWT: "a.b.c"})
	}))
	defer srv.Close()

	client := NewFactoryClient(utils.FactoryConfig{URL: srv.URL, APIKey: "key", Timeout: time.Second}, zap.NewNop())

	diner := &entity.User{Base: entity.Base{ID: 3}, Name: "diner", Email: "d@jwt.com"}
	order := &entity.Order{
		ID:          11,
		FranchiseID: 1,
		StoreID:     2,
		Items:       []entity.OrderItem{{MenuID: 1, Description: "Veggie", Price: 0.05}},
	}

	receipt, err := client.Fulfill(context.Background(), diner, order)
	require.NoError(t, err)
	assert.Equal(t, "http://factory/report", receipt.ReportURL)
	assert.Equal(t, "a.b.c", receipt.JWT)

	assert.Equal(t, "Bearer key", auth)
	assert.Equal(t, int64(3), received.Diner.ID)
	assert.Equal(t, "d@jwt.com", received.Diner.Email)
	assert.Equal(t, int64(11), received.Order.ID)
	require.Len(t, received.Order.Items, 1)
}

func TestFactoryClient_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"reportUrl": "http://factory/chaos"})
	}))
	defer srv.Close()

	client := NewFactoryClient(utils.FactoryConfig{URL: srv.URL, APIKey: "key"}, zap.NewNop())

	_, err := client.Fulfill(context.Background(), &entity.User{}, &entity.Order{})

	var factoryErr *FactoryError
	require.ErrorAs(t, err, &factoryErr)
	assert.Equal(t, "http://factory/chaos", factoryErr.ReportURL)
}

func TestFactoryClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewFactoryClient(utils.FactoryConfig{URL: url, APIKey: "key", Timeout: time.Second}, zap.NewNop())

	_, err := client.Fulfill(context.Background(), &entity.User{}, &entity.Order{})

	var factoryErr *FactoryError
	require.ErrorAs(t, err, &factoryErr)
	assert.Empty(t, factoryErr.ReportURL)
}
