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

type FranchiseRepository interface {
	Create(ctx context.Context, franchise *entity.Franchise) error
	FindByID(ctx context.Context, id int64) (*entity.Franchise, error)
	FindAll(ctx context.Context, limit, offset int, nameFilter string) ([]*entity.Franchise, error)
	FindByAdmin(ctx context.Context, userID int64) ([]*entity.Franchise, error)
	Delete(ctx context.Context, id int64) error
}

type franchiseRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFranchiseRepository(db database.PgxIface, log *zap.Logger) FranchiseRepository {
	return &franchiseRepository{
		db:  db,
		log: log.With(zap.String("repository", "franchise")),
	}
}

// Create inserts the franchise and grants a franchisee role to every admin
func (r *franchiseRepository) Create(ctx context.Context, franchise *entity.Franchise) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO franchises (name) VALUES ($1) RETURNING id`,
			franchise.Name,
		).Scan(&franchise.ID); err != nil {
			return err
		}

		for _, admin := range franchise.Admins {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
				admin.ID, entity.RoleFranchisee, franchise.ID,
			); err != nil {
				return err
			}
		}
		return nil
	})

	if isUniqueViolation(err) {
		return ErrDuplicateFranchise
	}
	if err != nil {
		r.log.Error("Failed to create franchise", zap.Error(err), zap.String("name", franchise.Name))
		return fmt.Errorf("create franchise %s: %w", franchise.Name, err)
	}

	return nil
}

func (r *franchiseRepository) FindByID(ctx context.Context, id int64) (*entity.Franchise, error) {
	var franchise entity.Franchise
	err := r.db.QueryRow(ctx, `SELECT id, name FROM franchises WHERE id = $1`, id).
		Scan(&franchise.ID, &franchise.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find franchise by ID", zap.Error(err), zap.Int64("franchise_id", id))
		return nil, fmt.Errorf("find franchise by ID %d: %w", id, err)
	}

	if err := r.attachDetails(ctx, []*entity.Franchise{&franchise}); err != nil {
		return nil, err
	}
	return &franchise, nil
}

func (r *franchiseRepository) FindAll(ctx context.Context, limit, offset int, nameFilter string) ([]*entity.Franchise, error) {
	query := `
		SELECT id, name
		FROM franchises
		WHERE name LIKE $1 ESCAPE '\'
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	franchises, err := r.list(ctx, query, LikePattern(nameFilter), limit, offset)
	if err != nil {
		r.log.Error("Failed to find all franchises",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all franchises limit %d offset %d: %w", limit, offset, err)
	}
	return franchises, nil
}

func (r *franchiseRepository) FindByAdmin(ctx context.Context, userID int64) ([]*entity.Franchise, error) {
	query := `
		SELECT f.id, f.name
		FROM franchises f
		JOIN user_roles ur ON ur.object_id = f.id AND ur.role = 'franchisee'
		WHERE ur.user_id = $1
		ORDER BY f.id
	`

	franchises, err := r.list(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find franchises by admin", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("find franchises for user %d: %w", userID, err)
	}
	return franchises, nil
}

// Delete removes the franchise, its stores, and the franchisee roles bound to it
func (r *franchiseRepository) Delete(ctx context.Context, id int64) error {
	var affected int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM user_roles WHERE role = $1 AND object_id = $2`,
			entity.RoleFranchisee, id,
		); err != nil {
			return err
		}

		result, err := tx.Exec(ctx, `DELETE FROM franchises WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = result.RowsAffected()
		return nil
	})
	if err != nil {
		r.log.Error("Failed to delete franchise", zap.Error(err), zap.Int64("franchise_id", id))
		return fmt.Errorf("delete franchise %d: %w", id, err)
	}

	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *franchiseRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Franchise, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var franchises []*entity.Franchise
	for rows.Next() {
		var f entity.Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("scan franchise row: %w", err)
		}
		franchises = append(franchises, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate franchise rows: %w", err)
	}
	rows.Close()

	if err := r.attachDetails(ctx, franchises); err != nil {
		return nil, err
	}
	return franchises, nil
}

// attachDetails loads admins and stores (with revenue) for a batch of franchises
func (r *franchiseRepository) attachDetails(ctx context.Context, franchises []*entity.Franchise) error {
	if len(franchises) == 0 {
		return nil
	}

	byID := make(map[int64]*entity.Franchise, len(franchises))
	ids := make([]int64, 0, len(franchises))
	for _, f := range franchises {
		f.Admins = []entity.FranchiseAdmin{}
		f.Stores = []entity.Store{}
		byID[f.ID] = f
		ids = append(ids, f.ID)
	}

	// 1. Admins
	adminRows, err := r.db.Query(ctx, `
		SELECT ur.object_id, u.id, u.name, u.email
		FROM user_roles ur
		JOIN users u ON u.id = ur.user_id
		WHERE ur.role = 'franchisee' AND ur.object_id = ANY($1)
		ORDER BY u.id
	`, ids)
	if err != nil {
		return fmt.Errorf("find franchise admins: %w", err)
	}
	for adminRows.Next() {
		var (
			franchiseID int64
			admin       entity.FranchiseAdmin
		)
		if err := adminRows.Scan(&franchiseID, &admin.ID, &admin.Name, &admin.Email); err != nil {
			adminRows.Close()
			return fmt.Errorf("scan franchise admin: %w", err)
		}
		byID[franchiseID].Admins = append(byID[franchiseID].Admins, admin)
	}
	adminRows.Close()
	if err := adminRows.Err(); err != nil {
		return fmt.Errorf("iterate franchise admins: %w", err)
	}

	// 2. Stores with revenue
	storeRows, err := r.db.Query(ctx, `
		SELECT s.id, s.franchise_id, s.name, COALESCE(SUM(oi.price), 0)::float8
		FROM stores s
		LEFT JOIN diner_orders o ON o.store_id = s.id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE s.franchise_id = ANY($1)
		GROUP BY s.id
		ORDER BY s.id
	`, ids)
	if err != nil {
		return fmt.Errorf("find franchise stores: %w", err)
	}
	defer storeRows.Close()

	for storeRows.Next() {
		var s entity.Store
		if err := storeRows.Scan(&s.ID, &s.FranchiseID, &s.Name, &s.TotalRevenue); err != nil {
			return fmt.Errorf("scan franchise store: %w", err)
		}
		byID[s.FranchiseID].Stores = append(byID[s.FranchiseID].Stores, s)
	}
	if err := storeRows.Err(); err != nil {
		return fmt.Errorf("iterate franchise stores: %w", err)
	}

	return nil
}
