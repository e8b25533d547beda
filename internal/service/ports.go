package service

import (
	"context"

	"restaurant-order-service/internal/client"
	"restaurant-order-service/internal/entity"
)

// OrderAPI is the slice of the external order API the services depend on.
type OrderAPI interface {
	CreateOrder(ctx context.Context, token string, req client.CreateOrderRequest) (*entity.Order, error)
	ListOrders(ctx context.Context, token string) ([]entity.Order, error)
	GetOrder(ctx context.Context, token, id string) (*entity.Order, error)
}

// UserDetailsAPI is the slice of the user-details API the services depend on.
type UserDetailsAPI interface {
	Get(ctx context.Context, token string) (*client.UserDetails, error)
	Save(ctx context.Context, token string, details client.UserDetails) (*client.UserDetails, error)
}

// AdminOrderAPI is what the dashboard aggregates over.
type AdminOrderAPI interface {
	ListOrders(ctx context.Context) ([]entity.Order, error)
}

// SnapshotRepo persists last-good order copies for stale-while-revalidate.
type SnapshotRepo interface {
	UpsertOrder(ctx context.Context, order *entity.Order) error
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]entity.Order, error)
}

// ActiveOrderSource lets the checkout gate on in-flight orders without
// depending on the whole tracker.
type ActiveOrderSource interface {
	ActiveOrder(ctx context.Context, token, userID string) (*entity.Order, error)
}
