package ports

import (
	"context"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

// ProfileRepository defines lookups over the fixed set of user profiles.
type ProfileRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Profile, error)
	FindByType(ctx context.Context, profileType string) (*domain.Profile, error)
	FindAll(ctx context.Context) ([]*domain.Profile, error)
}
