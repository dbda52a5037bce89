package repository

import (
	"context"
	"fmt"

	"pizza-service/internal/data/entity"
	"pizza-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MenuRepository interface {
	FindAll(ctx context.Context) ([]entity.MenuItem, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]entity.MenuItem, error)
	Create(ctx context.Context, item *entity.MenuItem) error
}

type menuRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMenuRepository(db database.PgxIface, log *zap.Logger) MenuRepository {
	return &menuRepository{
		db:  db,
		log: log.With(zap.String("repository", "menu")),
	}
}

func (r *menuRepository) FindAll(ctx context.Context) ([]entity.MenuItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, description, image, price::float8 AS price FROM menu ORDER BY id`,
	)
	if err != nil {
		r.log.Error("Failed to get menu", zap.Error(err))
		return nil, fmt.Errorf("find menu: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.MenuItem])
	if err != nil {
		return nil, fmt.Errorf("collect menu rows: %w", err)
	}
	return items, nil
}

func (r *menuRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]entity.MenuItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, description, image, price::float8 AS price FROM menu WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		r.log.Error("Failed to find menu items", zap.Error(err))
		return nil, fmt.Errorf("find menu items: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.MenuItem])
	if err != nil {
		return nil, fmt.Errorf("collect menu rows: %w", err)
	}

	byID := make(map[int64]entity.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

func (r *menuRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO menu (title, description, image, price) VALUES ($1, $2, $3, $4) RETURNING id`,
		item.Title, item.Description, item.Image, item.Price,
	).Scan(&item.ID)
	if err != nil {
		r.log.Error("Failed to add menu item", zap.Error(err), zap.String("title", item.Title))
		return fmt.Errorf("create menu item %s: %w", item.Title, err)
	}

	return nil
}
