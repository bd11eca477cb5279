package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
	memorydb "github.com/AlekseevAleksey/testAuth/internal/infrastructure/db/memory"
)

func newAuthFixture(t *testing.T) (*AuthService, *DirectoryService, ports.TokenRepository) {
	t.Helper()
	users := memorydb.NewUserRepository()
	tokens := memorydb.NewTokenRepository()
	directory := NewDirectoryService(users, memorydb.NewProfileRepository(), zerolog.Nop())
	rememberMe := NewRememberMeService(tokens, NewKeyGenerator(), NewClock(), zerolog.Nop())
	auth := NewAuthService(users, rememberMe, "secret", time.Hour, zerolog.Nop())
	return auth, directory, tokens
}

func TestAuth_Login_Success(t *testing.T) {
	auth, directory, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := directory.Register(ctx, ports.CreateUserInput{
		SSOID:       "carol",
		Password:    "s3cret-pass",
		FirstName:   "Carol",
		LastName:    "Example",
		Email:       "carol@example.com",
		ProfileType: domain.ProfileAdmin,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := auth.Login(ctx, ports.LoginInput{SSOID: "carol", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	if result.Series != "" || result.Token != "" {
		t.Fatalf("remember-me not requested, got series %q", result.Series)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["username"] != "carol" {
		t.Fatalf("expected username claim carol, got %v", claims["username"])
	}
	profiles, _ := claims["profiles"].([]interface{})
	if len(profiles) != 1 || profiles[0] != domain.ProfileAdmin {
		t.Fatalf("expected ADMIN profile claim, got %v", claims["profiles"])
	}
}

func TestAuth_Login_RememberMeOpensLineage(t *testing.T) {
	auth, directory, tokens := newAuthFixture(t)
	ctx := context.Background()

	_, _ = directory.Register(ctx, ports.CreateUserInput{
		SSOID: "alice", Password: "password1", FirstName: "Alice", LastName: "E", Email: "a@example.com",
	})

	result, err := auth.Login(ctx, ports.LoginInput{SSOID: "alice", Password: "password1", RememberMe: true})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Series == "" || result.Token == "" {
		t.Fatalf("expected a series/token pair")
	}

	stored, err := tokens.LookupBySeries(ctx, result.Series)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if stored.Token != result.Token || stored.Username != "alice" {
		t.Fatalf("stored row does not match issued pair: %+v", stored)
	}
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	auth, directory, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _ = directory.Register(ctx, ports.CreateUserInput{
		SSOID: "dave", Password: "goodpass1", FirstName: "Dave", LastName: "E", Email: "d@example.com",
	})

	if _, err := auth.Login(ctx, ports.LoginInput{SSOID: "dave", Password: "badpass"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// An unknown sso id reports the same error as a wrong password so the login
// form cannot be used to probe the directory.
func TestAuth_Login_UnknownUser(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	_, err := auth.Login(context.Background(), ports.LoginInput{SSOID: "ghost", Password: "pass"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_Logout_InvalidatesLineages(t *testing.T) {
	auth, directory, tokens := newAuthFixture(t)
	ctx := context.Background()

	_, _ = directory.Register(ctx, ports.CreateUserInput{
		SSOID: "alice", Password: "password1", FirstName: "Alice", LastName: "E", Email: "a@example.com",
	})
	result, err := auth.Login(ctx, ports.LoginInput{SSOID: "alice", Password: "password1", RememberMe: true})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := auth.Logout(ctx, "alice"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := tokens.LookupBySeries(ctx, result.Series); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected lineage to be gone, got %v", err)
	}
}
