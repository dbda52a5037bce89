package request

type MenuItemRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type OrderItemRequest struct {
	MenuID      int64   `json:"menuId" validate:"gt=0"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type CreateOrderRequest struct {
	FranchiseID int64              `json:"franchiseId" validate:"gt=0"`
	StoreID     int64              `json:"storeId" validate:"gt=0"`
	Items       []OrderItemRequest `json:"items" validate:"dive"`
}
