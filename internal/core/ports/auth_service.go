package ports

import (
	"context"
	"time"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

// LoginInput carries credentials presented for an interactive login.
type LoginInput struct {
	SSOID      string
	Password   string
	RememberMe bool
}

// LoginResult is returned on successful interactive login. Series and Token
// are set only when the client asked to be remembered.
type LoginResult struct {
	AccessToken string
	User        *domain.User
	Series      string
	Token       string
}

// AuthService verifies credentials and mints access tokens.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, username string) error
	// GenerateAccessToken mints a token for an already authenticated user,
	// used when a silent remember-me login succeeds.
	GenerateAccessToken(ctx context.Context, username string) (string, error)
}

// RememberedResult is the outcome of a silent remember-me login attempt.
// Renewed carries the freshly rotated token; a rejected attempt leaves
// NewToken empty and the client must re-authenticate interactively.
type RememberedResult struct {
	Renewed  bool
	NewToken string
	Username string
}

// RememberMeService coordinates persistent-login lineages.
type RememberMeService interface {
	// OnLoginSuccess opens a new lineage for username and returns the
	// series/token pair the client should store.
	OnLoginSuccess(ctx context.Context, username string) (*domain.LoginToken, error)
	// OnRememberedRequest validates a presented series/token pair. A match
	// rotates the stored token; a mismatch on a known series invalidates every
	// lineage for the owning user.
	OnRememberedRequest(ctx context.Context, series, presentedToken string) (*RememberedResult, error)
	// OnLogout invalidates every lineage for username.
	OnLogout(ctx context.Context, username string) error
}

// KeyGenerator produces opaque series and token values with negligible
// collision probability. Injected so tests can control generated values.
type KeyGenerator interface {
	Generate() (string, error)
}

// Clock provides the timestamps stored as last_used. Injected for tests.
type Clock interface {
	Now() time.Time
}
