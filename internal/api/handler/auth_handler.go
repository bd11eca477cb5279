package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AlekseevAleksey/testAuth/internal/api/cookie"
	"github.com/AlekseevAleksey/testAuth/internal/api/metrics"
	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
)

// AuthHandler exposes interactive login and logout.
type AuthHandler struct {
	authService ports.AuthService
	cookieTTL   time.Duration
}

func NewAuthHandler(authService ports.AuthService, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, cookieTTL: cookieTTL}
}

type loginRequest struct {
	SSOID      string `json:"sso_id"      validate:"required"`
	Password   string `json:"password"    validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

// Login authenticates a user, returns an access token, and when asked to
// remember the client, sets the remember-me cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		SSOID:      req.SSOID,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		return err
	}

	if result.Series != "" {
		c.SetCookie(cookie.New(result.Series, result.Token, h.cookieTTL))
	}

	metrics.LoginsTotal.WithLabelValues("interactive").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		User:        toUserResponse(result.User),
	})
}

// Logout invalidates every persistent login of the calling user and clears
// the remember-me cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	username, _ := c.Get("username").(string)
	if username == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if err := h.authService.Logout(c.Request().Context(), username); err != nil {
		return err
	}

	c.SetCookie(cookie.Expired())
	return c.NoContent(http.StatusNoContent)
}
