package repository

import (
	"context"
	"errors"
	"fmt"

	"pizza-service/internal/data/entity"
	"pizza-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	FindByID(ctx context.Context, id int64) (*entity.Store, error)
	Delete(ctx context.Context, franchiseID, storeID int64) error
}

type storeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStoreRepository(db database.PgxIface, log *zap.Logger) StoreRepository {
	return &storeRepository{
		db:  db,
		log: log.With(zap.String("repository", "store")),
	}
}

func (r *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO stores (franchise_id, name) VALUES ($1, $2) RETURNING id`,
		store.FranchiseID, store.Name,
	).Scan(&store.ID)
	if err != nil {
		r.log.Error("Failed to create store",
			zap.Error(err),
			zap.Int64("franchise_id", store.FranchiseID),
			zap.String("name", store.Name),
		)
		return fmt.Errorf("create store %s: %w", store.Name, err)
	}

	return nil
}

func (r *storeRepository) FindByID(ctx context.Context, id int64) (*entity.Store, error) {
	var store entity.Store
	err := r.db.QueryRow(ctx,
		`SELECT id, franchise_id, name FROM stores WHERE id = $1`, id,
	).Scan(&store.ID, &store.FranchiseID, &store.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find store by ID", zap.Error(err), zap.Int64("store_id", id))
		return nil, fmt.Errorf("find store by ID %d: %w", id, err)
	}

	return &store, nil
}

func (r *storeRepository) Delete(ctx context.Context, franchiseID, storeID int64) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM stores WHERE franchise_id = $1 AND id = $2`,
		franchiseID, storeID,
	)
	if err != nil {
		r.log.Error("Failed to delete store",
			zap.Error(err),
			zap.Int64("franchise_id", franchiseID),
			zap.Int64("store_id", storeID),
		)
		return fmt.Errorf("delete store %d: %w", storeID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
