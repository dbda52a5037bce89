package repository

import (
	"context"
	"fmt"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindByDiner(ctx context.Context, dinerID int64, limit, offset int) ([]*entity.Order, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

// Create inserts the order header and its items in one transaction
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.Date.IsZero() {
		order.Date = time.Now().UTC()
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO diner_orders (diner_id, franchise_id, store_id, date)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, order.DinerID, order.FranchiseID, order.StoreID, order.Date).Scan(&order.ID); err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if err := tx.QueryRow(ctx, `
				INSERT INTO order_items (order_id, menu_id, description, price)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, item.OrderID, item.MenuID, item.Description, item.Price).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to create order", zap.Error(err), zap.Int64("diner_id", order.DinerID))
		return fmt.Errorf("create order for diner %d: %w", order.DinerID, err)
	}

	return nil
}

func (r *orderRepository) FindByDiner(ctx context.Context, dinerID int64, limit, offset int) ([]*entity.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, diner_id, franchise_id, store_id, date
		FROM diner_orders
		WHERE diner_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`, dinerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find orders", zap.Error(err), zap.Int64("diner_id", dinerID))
		return nil, fmt.Errorf("find orders for diner %d: %w", dinerID, err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Order, error) {
		var o entity.Order
		err := row.Scan(&o.ID, &o.DinerID, &o.FranchiseID, &o.StoreID, &o.Date)
		return &o, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect order rows: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	byID := make(map[int64]*entity.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Items = []entity.OrderItem{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT id, order_id, menu_id, description, price::float8 AS price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("find order items: %w", err)
	}

	items, err := pgx.CollectRows(itemRows, pgx.RowToStructByName[entity.OrderItem])
	if err != nil {
		return nil, fmt.Errorf("collect order item rows: %w", err)
	}
	for _, item := range items {
		byID[item.OrderID].Items = append(byID[item.OrderID].Items, item)
	}

	return orders, nil
}
