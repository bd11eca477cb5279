package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
)

// DirectoryService implements the user directory use-cases over a
// UserRepository and the fixed profile catalogue.
type DirectoryService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	logger   zerolog.Logger
}

func NewDirectoryService(users ports.UserRepository, profiles ports.ProfileRepository, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{users: users, profiles: profiles, logger: logger}
}

func (s *DirectoryService) FindByID(ctx context.Context, id int) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *DirectoryService) FindBySSO(ctx context.Context, ssoID string) (*domain.User, error) {
	return s.users.FindBySSO(ctx, ssoID)
}

// Register creates a new directory entry. The repository owns the atomic
// uniqueness guard; a duplicate sso_id surfaces as domain.ErrDuplicateSSO so
// the caller can render a field-level error.
func (s *DirectoryService) Register(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.SSOID == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profileType := input.ProfileType
	if profileType == "" {
		profileType = domain.ProfileUser
	}
	profile, err := s.profiles.FindByType(ctx, profileType)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		SSOID:        input.SSOID,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Profiles:     []domain.Profile{*profile},
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("sso_id", user.SSOID).Int("id", user.ID).Msg("user registered")
	return user, nil
}

// Update edits an existing entry. The sso_id may change as long as no other
// record holds the new value; the record itself is excluded from the check.
func (s *DirectoryService) Update(ctx context.Context, input ports.UpdateUserInput) (*domain.User, error) {
	current, err := s.users.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	current.SSOID = input.SSOID
	current.FirstName = input.FirstName
	current.LastName = input.LastName
	current.Email = input.Email

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		current.PasswordHash = string(hash)
	}

	if input.ProfileType != "" {
		profile, err := s.profiles.FindByType(ctx, input.ProfileType)
		if err != nil {
			return nil, err
		}
		current.Profiles = []domain.Profile{*profile}
	}

	if err := s.users.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Str("sso_id", current.SSOID).Int("id", current.ID).Msg("user updated")
	return current, nil
}

// DeleteBySSO removes an entry. Deleting an absent entry is a no-op.
func (s *DirectoryService) DeleteBySSO(ctx context.Context, ssoID string) error {
	if err := s.users.DeleteBySSO(ctx, ssoID); err != nil {
		return err
	}
	s.logger.Info().Str("sso_id", ssoID).Msg("user deleted")
	return nil
}

func (s *DirectoryService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *DirectoryService) IsSSOUnique(ctx context.Context, id int, ssoID string) (bool, error) {
	return s.users.IsSSOUnique(ctx, id, ssoID)
}
