package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pixflow/internal/service"
)

// AuthHandler handles authentication and self-service profile endpoints.
type AuthHandler struct {
	authService  service.AuthService
	resetService service.ResetService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, resetService service.ResetService) *AuthHandler {
	return &AuthHandler{authService: authService, resetService: resetService}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session token and the forced-change flag the
// frontend uses to redirect to the first-password screen.
type LoginResponse struct {
	Token              string `json:"token"`
	MustChangePassword bool   `json:"must_change_password"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// PixRequest represents a payout key update.
type PixRequest struct {
	Pix string `json:"pix"`
}

// CredentialRequest represents a gateway credential update.
type CredentialRequest struct {
	Token string `json:"token" validate:"required"`
}

// ResetRequest represents a password reset redemption.
type ResetRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileResponse is the /me payload.
type ProfileResponse struct {
	ID                   uint   `json:"id"`
	Email                string `json:"email"`
	Name                 string `json:"name"`
	Role                 string `json:"role"`
	Active               bool   `json:"active"`
	Pix                  string `json:"pix"`
	HasGatewayCredential bool   `json:"has_gateway_credential"`
	MustChangePassword   bool   `json:"must_change_password"`
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token:              token,
		MustChangePassword: user.MustChangePassword,
	})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:                   user.ID,
		Email:                user.Email,
		Name:                 user.Name,
		Role:                 user.Role,
		Active:               user.Active,
		Pix:                  user.PixKey,
		HasGatewayCredential: user.HasGatewayCredential(),
		MustChangePassword:   user.MustChangePassword,
	})
}

// ChangePassword godoc
// @Summary Change own password (exactly 8 characters)
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "New password"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user.ID, req.Password); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// SetPix godoc
// @Summary Set or clear the payout PIX key
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PixRequest true "PIX key"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Router /pix [post]
func (h *AuthHandler) SetPix(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	var req PixRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.authService.SetPixKey(c.Request().Context(), user.ID, req.Pix); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// SetCredential godoc
// @Summary Store the gateway API token (encrypted at rest)
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CredentialRequest true "Gateway token"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /settings/credential [post]
func (h *AuthHandler) SetCredential(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	var req CredentialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.SetGatewayCredential(c.Request().Context(), user.ID, req.Token); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// GetCredential godoc
// @Summary Probe whether a gateway credential is configured
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Router /settings/credential [get]
func (h *AuthHandler) GetCredential(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{
		"has_gateway_credential": user.HasGatewayCredential(),
	})
}

// Reset godoc
// @Summary Redeem a password reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetRequest true "Token and new password"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reset [post]
func (h *AuthHandler) Reset(c echo.Context) error {
	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.resetService.Reset(c.Request().Context(), req.Token, req.Password); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
