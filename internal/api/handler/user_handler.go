package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/AlekseevAleksey/testAuth/internal/api/metrics"
	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
)

// UserHandler exposes directory management over HTTP.
type UserHandler struct {
	directory  ports.DirectoryService
	rememberMe ports.RememberMeService
}

func NewUserHandler(directory ports.DirectoryService, rememberMe ports.RememberMeService) *UserHandler {
	return &UserHandler{directory: directory, rememberMe: rememberMe}
}

// List returns all users ordered by first name.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.directory.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, listUsersResponse{Items: items, Total: len(items)})
}

// Get returns a single user by SSO id.
//
// @Summary      Get user by SSO id
// @Tags         users
// @Produce      json
// @Param        ssoID  path      string  true  "SSO id"
// @Success      200    {object}  userResponse
// @Failure      404    {object}  map[string]string
// @Router       /users/{ssoID} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.directory.FindBySSO(c.Request().Context(), c.Param("ssoID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create registers a new user.
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.directory.Register(c.Request().Context(), ports.CreateUserInput{
		SSOID:       req.SSOID,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		ProfileType: req.Profile,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update edits an existing user addressed by its current SSO id.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        ssoID  path      string             true  "Current SSO id"
// @Param        body   body      updateUserRequest  true  "Updated fields"
// @Success      200    {object}  userResponse
// @Failure      404    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /users/{ssoID} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	current, err := h.directory.FindBySSO(ctx, c.Param("ssoID"))
	if err != nil {
		return err
	}

	user, err := h.directory.Update(ctx, ports.UpdateUserInput{
		ID:          current.ID,
		SSOID:       req.SSOID,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		ProfileType: req.Profile,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user and invalidates their persistent logins. The delete
// is idempotent; removing an absent user still returns 204.
//
// @Summary      Delete a user
// @Tags         users
// @Param        ssoID  path  string  true  "SSO id"
// @Success      204
// @Router       /users/{ssoID} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ssoID := c.Param("ssoID")

	if err := h.directory.DeleteBySSO(ctx, ssoID); err != nil {
		return err
	}
	// Orphaned lineages are cleaned up here rather than by a storage-level
	// cascade; the login store only holds a logical username back-reference.
	if err := h.rememberMe.OnLogout(ctx, ssoID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckSSO reports whether an SSO id is free, optionally excluding a record.
//
// @Summary      Check SSO id availability
// @Tags         users
// @Produce      json
// @Param        sso_id  query     string  true   "SSO id to check"
// @Param        id      query     int     false  "Record id to exclude"
// @Success      200     {object}  ssoUniqueResponse
// @Router       /users/check [get]
func (h *UserHandler) CheckSSO(c echo.Context) error {
	ssoID := c.QueryParam("sso_id")
	if ssoID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "sso_id is required")
	}

	id := 0
	if raw := c.QueryParam("id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
		}
		id = parsed
	}

	unique, err := h.directory.IsSSOUnique(c.Request().Context(), id, ssoID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ssoUniqueResponse{Unique: unique})
}

func toUserResponse(u *domain.User) userResponse {
	profiles := make([]profileResponse, 0, len(u.Profiles))
	for _, p := range u.Profiles {
		profiles = append(profiles, profileResponse{ID: p.ID, Type: p.Type})
	}
	return userResponse{
		ID:        u.ID,
		SSOID:     u.SSOID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Profiles:  profiles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
