package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pixflow/internal/model"
	"pixflow/internal/service"
)

// ChargeHandler handles charge ledger endpoints.
type ChargeHandler struct {
	authService   service.AuthService
	chargeService service.ChargeService
}

// NewChargeHandler creates a new charge handler.
func NewChargeHandler(authService service.AuthService, chargeService service.ChargeService) *ChargeHandler {
	return &ChargeHandler{authService: authService, chargeService: chargeService}
}

// CreateChargeRequest represents a charge creation request.
type CreateChargeRequest struct {
	Client  string `json:"client" validate:"required"`
	Value   string `json:"value" validate:"required"`
	Message string `json:"message"`
}

// UpdateChargeRequest represents a status update.
type UpdateChargeRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create godoc
// @Summary Create a charge
// @Tags charges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateChargeRequest true "Charge data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /charges [post]
func (h *ChargeHandler) Create(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	var req CreateChargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	charge, err := h.chargeService.Create(c.Request().Context(), user.ID, req.Client, req.Value, req.Message)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok": true,
		"id": charge.ID,
	})
}

// List godoc
// @Summary List own charges, newest first
// @Tags charges
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Charge
// @Failure 401 {object} errors.ErrorResponse
// @Router /charges [get]
func (h *ChargeHandler) List(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	charges, err := h.chargeService.List(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, charges)
}

// UpdateStatus godoc
// @Summary Update a charge's status
// @Tags charges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Charge ID"
// @Param request body UpdateChargeRequest true "New status"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /charges/{id} [patch]
func (h *ChargeHandler) UpdateStatus(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	chargeID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateChargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.chargeService.UpdateStatus(c.Request().Context(), user.ID, chargeID, model.ChargeStatus(req.Status)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Refund godoc
// @Summary Refund an approved charge
// @Tags charges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Charge ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /refund/{id} [post]
func (h *ChargeHandler) Refund(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	chargeID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.chargeService.Refund(c.Request().Context(), user.ID, chargeID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":         true,
		"charge_id":  chargeID,
		"new_status": model.ChargeStatusRefunded,
	})
}

// ExportCSV godoc
// @Summary Export own charges as CSV
// @Tags charges
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV file"
// @Failure 401 {object} errors.ErrorResponse
// @Router /export/charges.csv [get]
func (h *ChargeHandler) ExportCSV(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	data, err := h.chargeService.ExportCSV(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=charges.csv`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
