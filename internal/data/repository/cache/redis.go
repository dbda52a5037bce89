// Package cache holds read-through decorators for the revocation record.
package cache

import (
	"context"
	"time"

	"pizza-service/internal/data/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revokedKeyPrefix = "revoked:"

type redisTokenRepository struct {
	next   repository.TokenRepository
	client *redis.Client
	log    *zap.Logger
}

// NewRedisTokenRepository shares revocations between instances through redis. The
// relational store stays the source of truth; redis failures fall through to it.
func NewRedisTokenRepository(next repository.TokenRepository, client *redis.Client, log *zap.Logger) repository.TokenRepository {
	return &redisTokenRepository{
		next:   next,
		client: client,
		log:    log.With(zap.String("repository", "token_redis")),
	}
}

func (r *redisTokenRepository) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	if err := r.next.Revoke(ctx, tokenHash, expiresAt); err != nil {
		return err
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+tokenHash, "1", ttl).Err(); err != nil {
		r.log.Warn("Failed to cache revoked token", zap.Error(err))
	}
	return nil
}

func (r *redisTokenRepository) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenHash).Result()
	if err != nil {
		r.log.Warn("Redis lookup failed, falling back to store", zap.Error(err))
	} else if n > 0 {
		return true, nil
	}

	return r.next.IsRevoked(ctx, tokenHash)
}

// PurgeExpired only touches the store; redis keys expire on their own.
func (r *redisTokenRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.next.PurgeExpired(ctx, before)
}
