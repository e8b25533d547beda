package api

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"restaurant-order-service/internal/entity"
	"restaurant-order-service/internal/service"
)

// userID pulls the uid out of the verified session token.
func userID(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(*service.SessionClaims)
	if !ok {
		return ""
	}
	return claims.UID
}

// bearerToken returns the raw credential forwarded to the backend APIs.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ")
}

// AuthHandler exchanges a completed provider sign-in for a session token.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CreateSession mints a session for a provider profile --> POST /auth/session
func (h *AuthHandler) CreateSession(c echo.Context) error {
	profile := entity.Profile{}
	if err := c.Bind(&profile); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token, err := h.authService.CreateSession(c.Request().Context(), profile)
	if err != nil {
		return c.JSON(401, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"token": token})
}

// DeleteSession signs the user out --> DELETE /auth/session
func (h *AuthHandler) DeleteSession(c echo.Context) error {
	if err := h.authService.DeleteSession(c.Request().Context(), userID(c)); err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]string{"status": "signed out"})
}
