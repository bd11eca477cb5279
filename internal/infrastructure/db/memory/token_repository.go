package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

// TokenRepository keeps persistent-login rows in memory, one per series.
type TokenRepository struct {
	store *Store[string, domain.LoginToken]
	mu    sync.Mutex // serializes check-then-write compound operations
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{store: NewStore[string, domain.LoginToken](domain.ErrTokenNotFound)}
}

func (r *TokenRepository) CreateToken(ctx context.Context, token *domain.LoginToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.Get(ctx, token.Series); err == nil {
		return domain.ErrSeriesExists
	}
	return r.store.Put(ctx, token.Series, *token)
}

func (r *TokenRepository) LookupBySeries(ctx context.Context, series string) (*domain.LoginToken, error) {
	lt, err := r.store.Get(ctx, series)
	if err != nil {
		return nil, err
	}
	clone := lt
	return &clone, nil
}

func (r *TokenRepository) RotateToken(ctx context.Context, series, newToken string, lastUsed time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lt, err := r.store.Get(ctx, series)
	if err != nil {
		return err
	}
	lt.Token = newToken
	lt.LastUsed = lastUsed
	return r.store.Put(ctx, series, lt)
}

func (r *TokenRepository) InvalidateAllForUser(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.store.All(ctx)
	if err != nil {
		return err
	}
	for _, lt := range all {
		if lt.Username == username {
			if err := r.store.Delete(ctx, lt.Series); err != nil {
				return err
			}
		}
	}
	return nil
}
