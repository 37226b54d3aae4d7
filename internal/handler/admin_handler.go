package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pixflow/internal/service"
)

// AdminHandler handles account administration endpoints.
type AdminHandler struct {
	authService  service.AuthService
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(authService service.AuthService, adminService service.AdminService) *AdminHandler {
	return &AdminHandler{authService: authService, adminService: adminService}
}

// InviteRequest represents an invite request.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// ResetLinkRequest represents a reset link request.
type ResetLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ListUsers godoc
// @Summary List all users, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	if _, err := actingAdmin(c, h.authService); err != nil {
		return err
	}

	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Invite godoc
// @Summary Invite a user with a temporary password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InviteRequest true "Invite data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/invite [post]
func (h *AdminHandler) Invite(c echo.Context) error {
	if _, err := actingAdmin(c, h.authService); err != nil {
		return err
	}

	var req InviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tempPassword, _, err := h.adminService.Invite(c.Request().Context(), req.Email, req.Name)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":            true,
		"temp_password": tempPassword,
	})
}

// ToggleActive godoc
// @Summary Toggle a user's active flag
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/toggle [patch]
func (h *AdminHandler) ToggleActive(c echo.Context) error {
	if _, err := actingAdmin(c, h.authService); err != nil {
		return err
	}

	userID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	active, err := h.adminService.ToggleActive(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":     true,
		"active": active,
	})
}

// DeleteUser godoc
// @Summary Delete a user and everything they own
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if _, err := actingAdmin(c, h.authService); err != nil {
		return err
	}

	userID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// ResetLink godoc
// @Summary Mint a single-use password reset link
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ResetLinkRequest true "Target user email"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/reset-link [post]
func (h *AdminHandler) ResetLink(c echo.Context) error {
	if _, err := actingAdmin(c, h.authService); err != nil {
		return err
	}

	var req ResetLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	link, err := h.adminService.CreateResetLink(c.Request().Context(), req.Email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":   true,
		"link": link,
	})
}
