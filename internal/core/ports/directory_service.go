package ports

import (
	"context"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

// CreateUserInput carries all data needed to register a directory entry.
type CreateUserInput struct {
	SSOID       string
	Password    string
	FirstName   string
	LastName    string
	Email       string
	ProfileType string // empty = default USER profile
}

// UpdateUserInput carries the editable fields of an existing entry.
type UpdateUserInput struct {
	ID          int
	SSOID       string
	Password    string // empty = keep current hash
	FirstName   string
	LastName    string
	Email       string
	ProfileType string // empty = keep current profile set
}

// DirectoryService defines use-case operations over the user directory.
type DirectoryService interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindBySSO(ctx context.Context, ssoID string) (*domain.User, error)
	Register(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	DeleteBySSO(ctx context.Context, ssoID string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	IsSSOUnique(ctx context.Context, id int, ssoID string) (bool, error)
}
