package response

import (
	"time"

	"pizza-service/internal/data/entity"
)

type MenuItemResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type OrderItemResponse struct {
	ID          int64   `json:"id"`
	MenuID      int64   `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type OrderResponse struct {
	ID          int64               `json:"id"`
	FranchiseID int64               `json:"franchiseId"`
	StoreID     int64               `json:"storeId"`
	Date        time.Time           `json:"date"`
	Items       []OrderItemResponse `json:"items"`
}

type OrderHistoryResponse struct {
	DinerID int64           `json:"dinerId"`
	Orders  []OrderResponse `json:"orders"`
	Page    int             `json:"page"`
}

type CreateOrderResponse struct {
	Order                OrderResponse `json:"order"`
	FollowLinkToEndChaos string        `json:"followLinkToEndChaos,omitempty"`
	JWT                  string        `json:"jwt"`
}

// FactoryFailureResponse is the body returned when the factory rejects an order
type FactoryFailureResponse struct {
	Message              string `json:"message"`
	FollowLinkToEndChaos string `json:"followLinkToEndChaos,omitempty"`
}

func MenuToResponse(items []entity.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, MenuItemResponse{
			ID:          item.ID,
			Title:       item.Title,
			Image:       item.Image,
			Price:       item.Price,
			Description: item.Description,
		})
	}
	return out
}

func OrderToResponse(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			MenuID:      item.MenuID,
			Description: item.Description,
			Price:       item.Price,
		})
	}

	return OrderResponse{
		ID:          order.ID,
		FranchiseID: order.FranchiseID,
		StoreID:     order.StoreID,
		Date:        order.Date,
		Items:       items,
	}
}
