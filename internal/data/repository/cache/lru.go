package cache

import (
	"context"
	"time"

	"pizza-service/internal/data/repository"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

type lruTokenRepository struct {
	next    repository.TokenRepository
	revoked *lru.LRU[string, struct{}]
}

// NewLRUTokenRepository remembers positive answers only. A negative answer is never
// cached, so a revocation made through another instance is seen on the next lookup.
// ttl should be the token lifetime: past it the token fails verification anyway.
func NewLRUTokenRepository(next repository.TokenRepository, size int, ttl time.Duration) repository.TokenRepository {
	return &lruTokenRepository{
		next:    next,
		revoked: lru.NewLRU[string, struct{}](size, nil, ttl),
	}
}

func (r *lruTokenRepository) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	if err := r.next.Revoke(ctx, tokenHash, expiresAt); err != nil {
		return err
	}
	r.revoked.Add(tokenHash, struct{}{})
	return nil
}

func (r *lruTokenRepository) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	if _, ok := r.revoked.Get(tokenHash); ok {
		return true, nil
	}

	revoked, err := r.next.IsRevoked(ctx, tokenHash)
	if err != nil {
		return false, err
	}
	if revoked {
		r.revoked.Add(tokenHash, struct{}{})
	}
	return revoked, nil
}

func (r *lruTokenRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.next.PurgeExpired(ctx, before)
}
