package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireProfile restricts a route to callers holding one of the given
// profile types.
func RequireProfile(allowedProfiles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedProfiles))
	for _, p := range allowedProfiles {
		allowed[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profiles, _ := c.Get("profiles").([]string)
			for _, p := range profiles {
				if _, ok := allowed[p]; ok {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
