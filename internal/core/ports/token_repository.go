package ports

import (
	"context"
	"time"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

// TokenRepository defines persistence operations for remember-me login tokens.
// One row per series; the token value on a row changes on every rotation.
type TokenRepository interface {
	// CreateToken inserts a new lineage. Returns domain.ErrSeriesExists when
	// the series is already present. Callers generate series values with
	// enough entropy that a collision indicates a broken generator.
	CreateToken(ctx context.Context, token *domain.LoginToken) error
	// LookupBySeries returns the current row for a series, or
	// domain.ErrTokenNotFound when the series is unrecognized.
	LookupBySeries(ctx context.Context, series string) (*domain.LoginToken, error)
	// RotateToken replaces the token value and last-used timestamp in place,
	// leaving series and username untouched. Returns domain.ErrTokenNotFound
	// when no row exists for the series.
	RotateToken(ctx context.Context, series, newToken string, lastUsed time.Time) error
	// InvalidateAllForUser deletes every row owned by username. Removing
	// nothing is not an error.
	InvalidateAllForUser(ctx context.Context, username string) error
}
