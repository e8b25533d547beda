package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"restaurant-order-service/internal/entity"
	"restaurant-order-service/internal/service"
)

// CartHandler exposes the cart operations.
type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart returns the user's cart --> GET /cart
func (h *CartHandler) GetCart(c echo.Context) error {
	return c.JSON(200, h.cartService.Get(c.Request().Context(), userID(c)))
}

// AddItem puts an item in the cart --> POST /cart/items
func (h *CartHandler) AddItem(c echo.Context) error {
	item := entity.CartItem{}
	if err := c.Bind(&item); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if item.ID == "" || item.Price < 0 {
		return c.JSON(400, map[string]string{"error": "item needs an id and a non-negative price"})
	}

	cart, err := h.cartService.AddItem(c.Request().Context(), userID(c), item)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, cart)
}

// RemoveItem deletes an entry entirely --> DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c echo.Context) error {
	cart, err := h.cartService.RemoveItem(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(200, cart)
}

// IncreaseQty bumps a quantity --> POST /cart/items/:id/increase
func (h *CartHandler) IncreaseQty(c echo.Context) error {
	cart, err := h.cartService.IncreaseQty(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(200, cart)
}

// DecreaseQty lowers a quantity --> POST /cart/items/:id/decrease
func (h *CartHandler) DecreaseQty(c echo.Context) error {
	cart, err := h.cartService.DecreaseQty(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(200, cart)
}

// Clear empties the cart --> DELETE /cart
func (h *CartHandler) Clear(c echo.Context) error {
	h.cartService.Clear(c.Request().Context(), userID(c))
	return c.JSON(200, map[string]string{"status": "cleared"})
}

func (h *CartHandler) cartError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrItemNotFound) {
		return c.JSON(404, map[string]string{"error": err.Error()})
	}
	return c.JSON(500, map[string]string{"error": err.Error()})
}
