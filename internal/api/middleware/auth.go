package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth validates a bearer JWT when one is presented and injects its claims
// into context. A request without an Authorization header continues
// unauthenticated; RequireAuth is the gate that rejects those on protected
// routes. A header carrying a bad token is always rejected.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A silent remember-me login may already have authenticated this
			// request; the cookie middleware runs first and sets the username.
			if username, _ := c.Get("username").(string); username != "" {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("username", claims["username"])
			c.Set("profiles", profileClaim(claims))

			return next(c)
		}
	}
}

// profileClaim normalizes the profiles claim, which arrives as []interface{}
// after JSON decoding.
func profileClaim(claims jwt.MapClaims) []string {
	raw, ok := claims["profiles"].([]interface{})
	if !ok {
		return nil
	}
	profiles := make([]string, 0, len(raw))
	for _, p := range raw {
		if s, ok := p.(string); ok {
			profiles = append(profiles, s)
		}
	}
	return profiles
}
