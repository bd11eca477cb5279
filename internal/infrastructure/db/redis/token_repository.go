package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

const (
	tokenKeyPrefix = "rmtoken:"
	userKeyPrefix  = "rmuser:"
)

// TokenRepository implements the persistent-login store on Redis.
//
// Layout: one hash per series under rmtoken:<series> holding token, username
// and last_used, plus a set rmuser:<username> of the user's live series so
// invalidation does not need a scan. A non-zero TTL bounds the idle life of a
// lineage, measured from its last rotation; the set entry expires together
// with its hash.
type TokenRepository struct {
	client *redis.Client
	ttl    time.Duration // 0 = lineages never expire
}

func NewTokenRepository(client *redis.Client, ttl time.Duration) *TokenRepository {
	return &TokenRepository{client: client, ttl: ttl}
}

func (r *TokenRepository) CreateToken(ctx context.Context, token *domain.LoginToken) error {
	key := tokenKey(token.Series)

	// HSETNX on the username field is the atomic "insert if absent" guard.
	created, err := r.client.HSetNX(ctx, key, "username", token.Username).Result()
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	if !created {
		return domain.ErrSeriesExists
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, "token", token.Token, "last_used", token.LastUsed.UTC().Format(time.RFC3339Nano))
	pipe.SAdd(ctx, userKey(token.Username), token.Series)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
		pipe.Expire(ctx, userKey(token.Username), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		// Roll back the guard so a half-written row does not burn the series
		// forever. Best effort; a row that survives anyway is skipped by
		// LookupBySeries.
		r.client.Del(context.WithoutCancel(ctx), key)
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

func (r *TokenRepository) LookupBySeries(ctx context.Context, series string) (*domain.LoginToken, error) {
	fields, err := r.client.HGetAll(ctx, tokenKey(series)).Result()
	if err != nil {
		return nil, fmt.Errorf("lookup series: %w", err)
	}
	// A hash missing its token or timestamp is a leftover from an interrupted
	// create; treat it like an unknown series rather than failing the request.
	if len(fields) == 0 || fields["token"] == "" || fields["last_used"] == "" {
		return nil, domain.ErrTokenNotFound
	}

	lastUsed, err := time.Parse(time.RFC3339Nano, fields["last_used"])
	if err != nil {
		return nil, fmt.Errorf("lookup series: bad last_used: %w", err)
	}

	return &domain.LoginToken{
		Series:   series,
		Token:    fields["token"],
		Username: fields["username"],
		LastUsed: lastUsed,
	}, nil
}

func (r *TokenRepository) RotateToken(ctx context.Context, series, newToken string, lastUsed time.Time) error {
	key := tokenKey(series)

	username, err := r.client.HGet(ctx, key, "username").Result()
	if errors.Is(err, redis.Nil) {
		return domain.ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("rotate token: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, "token", newToken, "last_used", lastUsed.UTC().Format(time.RFC3339Nano))
	if r.ttl > 0 {
		// Lineage validity is measured from the last rotation: each silent
		// login re-issues a full-lifetime cookie, so the stored row must live
		// as long as the cookie that references it.
		pipe.Expire(ctx, key, r.ttl)
		pipe.Expire(ctx, userKey(username), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rotate token: %w", err)
	}
	return nil
}

func (r *TokenRepository) InvalidateAllForUser(ctx context.Context, username string) error {
	setKey := userKey(username)

	series, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("invalidate user tokens: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, s := range series {
		pipe.Del(ctx, tokenKey(s))
	}
	pipe.Del(ctx, setKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate user tokens: %w", err)
	}
	return nil
}

func tokenKey(series string) string {
	return tokenKeyPrefix + series
}

func userKey(username string) string {
	return userKeyPrefix + username
}
