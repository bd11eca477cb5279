package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AlekseevAleksey/testAuth/internal/api/cookie"
	"github.com/AlekseevAleksey/testAuth/internal/api/metrics"
	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
)

// RememberMe performs silent re-authentication from the remember-me cookie.
//
// A valid cookie rotates its token, re-issues the cookie with the fresh
// value, and injects the user's identity into the request context. A cookie
// whose series is known but whose token is stale is a theft signal; the
// coordinator has already invalidated the user's lineages by the time the
// middleware clears the cookie, so the request proceeds unauthenticated and
// downstream auth checks force an interactive login.
func RememberMe(rememberMe ports.RememberMeService, directory ports.DirectoryService, auth ports.AuthService, cookieTTL time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(cookie.Name)
			if err != nil || ck.Value == "" {
				return next(c)
			}

			series, token, err := cookie.Decode(ck.Value)
			if err != nil {
				c.SetCookie(cookie.Expired())
				return next(c)
			}

			ctx := c.Request().Context()
			result, err := rememberMe.OnRememberedRequest(ctx, series, token)
			if err != nil {
				return err
			}

			if !result.Renewed {
				if result.Username != "" {
					metrics.TheftEventsTotal.Inc()
				}
				c.SetCookie(cookie.Expired())
				return next(c)
			}

			user, err := directory.FindBySSO(ctx, result.Username)
			if err != nil {
				// The user vanished after the lineage was created; drop the
				// now-orphaned cookie and continue unauthenticated.
				if errors.Is(err, domain.ErrUserNotFound) {
					c.SetCookie(cookie.Expired())
					return next(c)
				}
				return err
			}

			profiles := make([]string, 0, len(user.Profiles))
			for _, p := range user.Profiles {
				profiles = append(profiles, p.Type)
			}

			c.SetCookie(cookie.New(series, result.NewToken, cookieTTL))
			c.Set("username", user.SSOID)
			c.Set("profiles", profiles)

			// SPA clients pick up a fresh access token from the header after a
			// silent login.
			if accessToken, err := auth.GenerateAccessToken(ctx, user.SSOID); err == nil {
				c.Response().Header().Set("X-Access-Token", accessToken)
			}

			metrics.TokenRotationsTotal.Inc()
			metrics.LoginsTotal.WithLabelValues("remembered").Inc()

			return next(c)
		}
	}
}

// RequireAuth rejects requests that carry no authenticated identity, set
// either by the JWT middleware or by a successful silent login.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if username, _ := c.Get("username").(string); username == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
