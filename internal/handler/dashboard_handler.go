package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pixflow/internal/service"
)

// DashboardHandler handles revenue analytics endpoints.
type DashboardHandler struct {
	authService  service.AuthService
	statsService service.StatsService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(authService service.AuthService, statsService service.StatsService) *DashboardHandler {
	return &DashboardHandler{authService: authService, statsService: statsService}
}

// Stats godoc
// @Summary 7-day revenue dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Failure 401 {object} errors.ErrorResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	stats, err := h.statsService.Stats(c.Request().Context(), user.ID, time.Now())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ReportToday godoc
// @Summary Today's approved revenue
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TodayReport
// @Failure 401 {object} errors.ErrorResponse
// @Router /report/today [get]
func (h *DashboardHandler) ReportToday(c echo.Context) error {
	user, err := actingUser(c, h.authService)
	if err != nil {
		return err
	}

	report, err := h.statsService.ReportToday(c.Request().Context(), user.ID, time.Now())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}
