package entity

import (
	"time"
)

type Order struct {
	ID          int64     `db:"id"`
	DinerID     int64     `db:"diner_id"`
	FranchiseID int64     `db:"franchise_id"`
	StoreID     int64     `db:"store_id"`
	Date        time.Time `db:"date"`
	Items       []OrderItem
}

type OrderItem struct {
	ID          int64   `db:"id"`
	OrderID     int64   `db:"order_id"`
	MenuID      int64   `db:"menu_id"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
}

// Revenue is the sum of item prices.
func (o *Order) Revenue() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price
	}
	return total
}
