package api

import (
	"github.com/labstack/echo/v4"

	"restaurant-order-service/internal/client"
	"restaurant-order-service/internal/service"
)

// OrderHandler serves the order tracking views.
type OrderHandler struct {
	trackerService *service.TrackerService
}

func NewOrderHandler(trackerService *service.TrackerService) *OrderHandler {
	return &OrderHandler{trackerService: trackerService}
}

// ListOrders returns the user's orders --> GET /orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, stale, err := h.trackerService.Orders(c.Request().Context(), bearerToken(c), userID(c))
	if err != nil && len(orders) == 0 {
		return c.JSON(502, map[string]string{"error": err.Error()})
	}

	body := map[string]interface{}{"orders": orders, "stale": stale}
	if err != nil {
		// Keep showing the last-good data with the error alongside.
		body["error"] = err.Error()
	}
	return c.JSON(200, body)
}

// GetOrder returns one order --> GET /orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, stale, err := h.trackerService.Order(c.Request().Context(), bearerToken(c), userID(c), c.Param("id"))
	if err != nil && order == nil {
		return c.JSON(502, map[string]string{"error": err.Error()})
	}

	body := map[string]interface{}{"order": order, "stale": stale}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.JSON(200, body)
}

// MenuHandler proxies the read-only menu.
type MenuHandler struct {
	menuAPI *client.MenuAPIClient
}

func NewMenuHandler(menuAPI *client.MenuAPIClient) *MenuHandler {
	return &MenuHandler{menuAPI: menuAPI}
}

// ListMenu returns the menu --> GET /menu
func (h *MenuHandler) ListMenu(c echo.Context) error {
	items, err := h.menuAPI.ListMenu(c.Request().Context())
	if err != nil {
		return c.JSON(502, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, items)
}
