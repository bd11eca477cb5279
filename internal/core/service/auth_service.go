package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
)

// AuthService implements interactive login and logout. Credential checks run
// against the directory; remember-me lineages are delegated to the
// RememberMeService.
type AuthService struct {
	users      ports.UserRepository
	rememberMe ports.RememberMeService
	jwtSecret  string
	tokenTTL   time.Duration
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, rememberMe ports.RememberMeService, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}
	return &AuthService{
		users:      users,
		rememberMe: rememberMe,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// Login verifies the presented credentials and mints an access token. When
// the client asked to be remembered, a new persistent-login lineage is opened
// and its series/token pair returned for the cookie.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	if input.SSOID == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindBySSO(ctx, input.SSOID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	result := &ports.LoginResult{AccessToken: accessToken, User: user}

	if input.RememberMe {
		lt, err := s.rememberMe.OnLoginSuccess(ctx, user.SSOID)
		if err != nil {
			return nil, err
		}
		result.Series = lt.Series
		result.Token = lt.Token
	}

	s.logger.Info().Str("sso_id", user.SSOID).Bool("remember_me", input.RememberMe).Msg("login succeeded")
	return result, nil
}

// Logout invalidates every persistent login for username.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	return s.rememberMe.OnLogout(ctx, username)
}

// GenerateAccessToken mints a fresh access token for an already authenticated
// user, used when a silent remember-me login succeeds.
func (s *AuthService) GenerateAccessToken(ctx context.Context, username string) (string, error) {
	user, err := s.users.FindBySSO(ctx, username)
	if err != nil {
		return "", err
	}
	return s.generateToken(user)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	profiles := make([]string, 0, len(user.Profiles))
	for _, p := range user.Profiles {
		profiles = append(profiles, p.Type)
	}

	claims := jwt.MapClaims{
		"username": user.SSOID,
		"profiles": profiles,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
