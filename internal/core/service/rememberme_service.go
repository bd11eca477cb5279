package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
)

// RememberMeService coordinates persistent-login lineages: it opens a
// series/token pair on login, rotates the token on each successful silent
// re-authentication, and tears down every lineage for a user on logout or on
// a token mismatch.
type RememberMeService struct {
	tokens ports.TokenRepository
	keygen ports.KeyGenerator
	clock  ports.Clock
	locks  *seriesLocks
	logger zerolog.Logger
}

func NewRememberMeService(tokens ports.TokenRepository, keygen ports.KeyGenerator, clock ports.Clock, logger zerolog.Logger) *RememberMeService {
	return &RememberMeService{
		tokens: tokens,
		keygen: keygen,
		clock:  clock,
		locks:  newSeriesLocks(defaultStripes),
		logger: logger,
	}
}

// OnLoginSuccess opens a new lineage for username. A series collision means
// the generator misbehaved; one regeneration is attempted before the failure
// is reported as a storage problem.
func (s *RememberMeService) OnLoginSuccess(ctx context.Context, username string) (*domain.LoginToken, error) {
	lt, err := s.createLineage(ctx, username)
	if errors.Is(err, domain.ErrSeriesExists) {
		s.logger.Warn().Str("username", username).Msg("series collision, regenerating")
		lt, err = s.createLineage(ctx, username)
		if errors.Is(err, domain.ErrSeriesExists) {
			return nil, fmt.Errorf("remember-me: repeated series collision: %w", domain.ErrStorageUnavailable)
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Str("series", lt.Series).Msg("persistent login created")
	return lt, nil
}

func (s *RememberMeService) createLineage(ctx context.Context, username string) (*domain.LoginToken, error) {
	series, err := s.keygen.Generate()
	if err != nil {
		return nil, err
	}
	token, err := s.keygen.Generate()
	if err != nil {
		return nil, err
	}

	lt := &domain.LoginToken{
		Series:   series,
		Token:    token,
		Username: username,
		LastUsed: s.clock.Now(),
	}
	if err := s.tokens.CreateToken(ctx, lt); err != nil {
		return nil, err
	}
	return lt, nil
}

// OnRememberedRequest validates a presented series/token pair.
//
// An unknown series is not an error: the cookie is simply not remembered and
// the caller falls back to interactive login. A known series with a stale
// token is a theft signal; the whole lineage set for the owning user is
// invalidated so neither the thief nor the legitimate holder stays silently
// logged in.
func (s *RememberMeService) OnRememberedRequest(ctx context.Context, series, presentedToken string) (*ports.RememberedResult, error) {
	unlock := s.locks.Lock(series)
	defer unlock()

	stored, err := s.tokens.LookupBySeries(ctx, series)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return &ports.RememberedResult{Renewed: false}, nil
	}
	if err != nil {
		return nil, err
	}

	if stored.Token != presentedToken {
		s.logger.Warn().
			Str("username", stored.Username).
			Str("series", series).
			Msg("presented token does not match stored token, invalidating user lineages")
		if err := s.tokens.InvalidateAllForUser(ctx, stored.Username); err != nil {
			return nil, err
		}
		return &ports.RememberedResult{Renewed: false, Username: stored.Username}, nil
	}

	newToken, err := s.keygen.Generate()
	if err != nil {
		return nil, err
	}
	if err := s.tokens.RotateToken(ctx, series, newToken, s.clock.Now()); err != nil {
		// The row vanished between lookup and rotate (logout or invalidation
		// racing on another series of the same user). Treat as not remembered.
		if errors.Is(err, domain.ErrTokenNotFound) {
			return &ports.RememberedResult{Renewed: false}, nil
		}
		return nil, err
	}

	s.logger.Debug().Str("username", stored.Username).Str("series", series).Msg("token rotated")

	return &ports.RememberedResult{
		Renewed:  true,
		NewToken: newToken,
		Username: stored.Username,
	}, nil
}

// OnLogout invalidates every lineage for username.
func (s *RememberMeService) OnLogout(ctx context.Context, username string) error {
	if err := s.tokens.InvalidateAllForUser(ctx, username); err != nil {
		return err
	}
	s.logger.Info().Str("username", username).Msg("persistent logins invalidated")
	return nil
}
