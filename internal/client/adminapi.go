package client

import (
	"context"
	"net/http"

	"restaurant-order-service/internal/entity"
)

// AdminAPIClient talks to the back-office order API. It carries its own
// bearer token, which is a separate credential from customer sessions.
type AdminAPIClient struct {
	baseURL string
	token   string
}

func NewAdminAPIClient(baseURL, token string) *AdminAPIClient {
	return &AdminAPIClient{baseURL: baseURL, token: token}
}

// ListOrders fetches the flat order list the dashboard aggregates over.
func (c *AdminAPIClient) ListOrders(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	if err := doJSON(ctx, http.MethodGet, c.baseURL+"/orders", c.token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
