package memory

import (
	"context"
	"time"
)

type tokenRepository struct {
	s *state
}

func (r *tokenRepository) Revoke(_ context.Context, tokenHash string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.revoked[tokenHash]; !ok {
		r.s.revoked[tokenHash] = expiresAt
	}
	return nil
}

func (r *tokenRepository) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.revoked[tokenHash]
	return ok, nil
}

func (r *tokenRepository) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var purged int64
	for hash, expiresAt := range r.s.revoked {
		if expiresAt.Before(before) {
			delete(r.s.revoked, hash)
			purged++
		}
	}
	return purged, nil
}
