package ports

import (
	"context"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

// UserRepository defines persistence operations for directory entries.
// Lookups return domain.ErrUserNotFound when no record matches; FindByID and
// FindBySSO return the record with its profile set fully resolved.
type UserRepository interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindBySSO(ctx context.Context, ssoID string) (*domain.User, error)
	// Save inserts a new record and assigns its surrogate id. The check for a
	// conflicting sso_id and the insert are atomic with respect to other
	// inserts; a losing racer gets domain.ErrDuplicateSSO.
	Save(ctx context.Context, user *domain.User) error
	// Update rewrites an existing record by id. Uniqueness of sso_id is
	// re-checked excluding the record itself.
	Update(ctx context.Context, user *domain.User) error
	// DeleteBySSO removes the record and its profile associations. Deleting an
	// absent record is not an error.
	DeleteBySSO(ctx context.Context, ssoID string) error
	// FindAll returns all records ordered ascending by display name, one
	// element per logical user regardless of how many profiles it holds.
	FindAll(ctx context.Context) ([]*domain.User, error)
	// IsSSOUnique reports whether ssoID is free to use for the record with the
	// given id. Pass id 0 for a record that has not been created yet.
	IsSSOUnique(ctx context.Context, id int, ssoID string) (bool, error)
}
