package repository

import (
	"context"
	"fmt"
	"time"

	"pizza-service/pkg/database"

	"go.uber.org/zap"
)

// TokenRepository is the revocation record. Entries are keyed by token hash and carry
// the token's own expiry so they can be purged once the token could no longer verify.
type TokenRepository interface {
	Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

type tokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTokenRepository(db database.PgxIface, log *zap.Logger) TokenRepository {
	return &tokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "token")),
	}
}

func (r *tokenRepository) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (token_hash, expires_at, revoked_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (token_hash) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, tokenHash, expiresAt); err != nil {
		r.log.Error("Failed to revoke token", zap.Error(err))
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func (r *tokenRepository) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	var revoked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_hash = $1)`,
		tokenHash,
	).Scan(&revoked)
	if err != nil {
		r.log.Error("Failed to check revoked token", zap.Error(err))
		return false, fmt.Errorf("check revoked token: %w", err)
	}

	return revoked, nil
}

func (r *tokenRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, before)
	if err != nil {
		r.log.Error("Failed to purge revoked tokens", zap.Error(err))
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}

	return result.RowsAffected(), nil
}
