package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"restaurant-order-service/internal/service"
)

// DashboardHandler serves the admin dashboard numbers.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard recomputes the dashboard for a date --> GET /admin/dashboard?date=YYYY-MM-DD
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = service.CalendarDate(time.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(400, map[string]string{"error": "date must be YYYY-MM-DD"})
	}

	snapshot, err := h.dashboardService.Snapshot(c.Request().Context(), date)
	if err != nil {
		return c.JSON(502, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, snapshot)
}
