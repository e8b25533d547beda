package client

import (
	"context"
	"net/http"

	"restaurant-order-service/internal/entity"
)

// CreateOrderRequest is the order submission payload. Amounts are the
// client-side preview; the backend recomputes them and its values are
// authoritative once persisted.
type CreateOrderRequest struct {
	Items           []entity.OrderItem `json:"items"`
	DeliveryAddress entity.Address     `json:"deliveryAddress"`
	TotalAmount     float64            `json:"totalAmount"`
	DeliveryCharges float64            `json:"deliveryCharges"`
	Taxes           float64            `json:"taxes"`
	FinalAmount     float64            `json:"finalAmount"`
	PaymentMethod   string             `json:"paymentMethod"`
	CustomerNotes   string             `json:"customerNotes,omitempty"`
}

// OrderAPIClient talks to the external order API.
type OrderAPIClient struct {
	baseURL string
}

func NewOrderAPIClient(baseURL string) *OrderAPIClient {
	return &OrderAPIClient{baseURL: baseURL}
}

// CreateOrder submits a new order for the authenticated user.
func (c *OrderAPIClient) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*entity.Order, error) {
	var order entity.Order
	if err := doJSON(ctx, http.MethodPost, c.baseURL+"/orders", token, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders fetches all orders of the authenticated user.
func (c *OrderAPIClient) ListOrders(ctx context.Context, token string) ([]entity.Order, error) {
	var orders []entity.Order
	if err := doJSON(ctx, http.MethodGet, c.baseURL+"/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches a single order by id.
func (c *OrderAPIClient) GetOrder(ctx context.Context, token, id string) (*entity.Order, error) {
	var order entity.Order
	if err := doJSON(ctx, http.MethodGet, c.baseURL+"/orders/"+id, token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
