package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int, nameFilter string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// Create inserts the user and its roles in one transaction and sets the generated id
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()

	err := pgx.BeginFunc(ctx, ur.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO users (name, email, password, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			RETURNING id
		`
		if err := tx.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, now).Scan(&user.ID); err != nil {
			return err
		}

		for _, role := range user.Roles {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
				user.ID, role.Kind, role.ObjectID,
			); err != nil {
				return err
			}
		}
		return nil
	})

	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := ur.findOne(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.Int64("user_id", id))
		return nil, fmt.Errorf("find user by ID %d: %w", id, err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user, err := ur.findOne(ctx, query, email)
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

// FindAll retrieves a page of users whose name matches the wildcard filter
func (ur *userRepository) FindAll(ctx context.Context, limit, offset int, nameFilter string) ([]*entity.User, error) {
	query := `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE name LIKE $1 ESCAPE '\'
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	rows, err := ur.db.Query(ctx, query, LikePattern(nameFilter), limit, offset)
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	if err := ur.attachRoles(ctx, users); err != nil {
		return nil, err
	}

	return users, nil
}

// Update writes name, email and password hash. Roles are not touched
func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password = $4, updated_at = $5
		WHERE id = $1
	`

	now := time.Now()
	result, err := ur.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, now)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.Int64("user_id", user.ID),
		)
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	user.UpdatedAt = now
	return nil
}

// Delete removes the user; roles and orders go with it through ON DELETE CASCADE
func (ur *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := ur.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	ur.log.Info("User deleted", zap.Int64("id", id))
	return nil
}

func (ur *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	rows, err := ur.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	if err := ur.attachRoles(ctx, []*entity.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// attachRoles loads roles for a batch of users with one query, ordered by grant
func (ur *userRepository) attachRoles(ctx context.Context, users []*entity.User) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[int64]*entity.User, len(users))
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		byID[u.ID] = u
		ids = append(ids, u.ID)
	}

	rows, err := ur.db.Query(ctx,
		`SELECT user_id, role, object_id FROM user_roles WHERE user_id = ANY($1) ORDER BY id`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("find user roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID int64
			role   entity.Role
		)
		if err := rows.Scan(&userID, &role.Kind, &role.ObjectID); err != nil {
			return fmt.Errorf("scan user role: %w", err)
		}
		if u, ok := byID[userID]; ok {
			u.Roles = append(u.Roles, role)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate user roles: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
