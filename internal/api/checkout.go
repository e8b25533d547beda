package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"restaurant-order-service/internal/entity"
	"restaurant-order-service/internal/geo"
	"restaurant-order-service/internal/service"
)

// DeliveryHandler covers the pin-location step and the saved addresses.
type DeliveryHandler struct {
	addressService *service.AddressService
}

func NewDeliveryHandler(addressService *service.AddressService) *DeliveryHandler {
	return &DeliveryHandler{addressService: addressService}
}

type pinRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	// ErrorCode is set when the device could not produce a position at all.
	ErrorCode string `json:"errorCode,omitempty"`
}

// CheckPin validates the pinned location --> POST /delivery/pin
func (h *DeliveryHandler) CheckPin(c echo.Context) error {
	req := pinRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	if req.ErrorCode != "" {
		return c.JSON(400, map[string]string{
			"error": h.addressService.LocationFailureMessage(geo.ErrorCode(req.ErrorCode)),
		})
	}
	if req.Latitude == nil || req.Longitude == nil {
		return c.JSON(400, map[string]string{"error": "latitude and longitude are required"})
	}

	distance, err := h.addressService.CheckPin(*req.Latitude, *req.Longitude)
	if err != nil {
		return c.JSON(422, map[string]interface{}{"error": err.Error(), "distanceKm": distance})
	}
	return c.JSON(200, map[string]interface{}{"withinServiceArea": true, "distanceKm": distance})
}

// ListAddresses returns the saved addresses --> GET /addresses
func (h *DeliveryHandler) ListAddresses(c echo.Context) error {
	addresses, err := h.addressService.ListAddresses(c.Request().Context(), bearerToken(c))
	if err != nil {
		return c.JSON(502, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, addresses)
}

// SaveAddress appends a new address --> POST /addresses
func (h *DeliveryHandler) SaveAddress(c echo.Context) error {
	addr := entity.Address{}
	if err := c.Bind(&addr); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	addresses, err := h.addressService.SaveAddress(c.Request().Context(), bearerToken(c), addr)
	if err != nil {
		if validationErr := addr.Validate(); validationErr != nil {
			return c.JSON(400, map[string]string{"error": validationErr.Error()})
		}
		return c.JSON(502, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, addresses)
}

// CheckoutHandler drives the checkout state machine over HTTP.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Start opens a session --> POST /checkout
func (h *CheckoutHandler) Start(c echo.Context) error {
	session, err := h.checkoutService.Start(c.Request().Context(), userID(c), bearerToken(c), userID(c) != "")
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.JSON(200, session)
}

// Session reports the current step --> GET /checkout
func (h *CheckoutHandler) Session(c echo.Context) error {
	session, err := h.checkoutService.Session(userID(c))
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.JSON(200, session)
}

// SelectAddress confirms the delivery address --> POST /checkout/address
func (h *CheckoutHandler) SelectAddress(c echo.Context) error {
	addr := entity.Address{}
	if err := c.Bind(&addr); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	session, err := h.checkoutService.SelectAddress(userID(c), addr)
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.JSON(200, session)
}

// Preview returns the charge breakdown --> GET /checkout/preview
func (h *CheckoutHandler) Preview(c echo.Context) error {
	preview, err := h.checkoutService.Preview(c.Request().Context(), userID(c))
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.JSON(200, preview)
}

// Place submits the order --> POST /checkout/place
func (h *CheckoutHandler) Place(c echo.Context) error {
	input := service.PlaceInput{}
	if err := c.Bind(&input); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.checkoutService.Place(c.Request().Context(), userID(c), bearerToken(c), input)
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.JSON(200, order)
}

func (h *CheckoutHandler) checkoutError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrNoAddressSelected),
		errors.Is(err, service.ErrRecipientName),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNoCheckoutSession):
		return c.JSON(400, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrActiveOrderExists),
		errors.Is(err, service.ErrPlacementInFlight),
		errors.Is(err, service.ErrDuplicateSubmit):
		return c.JSON(409, map[string]string{"error": err.Error()})
	}
	return c.JSON(502, map[string]string{"error": err.Error()})
}
