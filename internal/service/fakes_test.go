package service

import (
	"context"
	"errors"
	"sync"

	"restaurant-order-service/internal/client"
	"restaurant-order-service/internal/entity"
)

type fakeOrderAPI struct {
	mu          sync.Mutex
	createCalls int
	listCalls   int
	orders      []entity.Order
	created     *entity.Order
	createErr   error
	listErr     error
	getErr      error
}

func (f *fakeOrderAPI) CreateOrder(ctx context.Context, token string, req client.CreateOrderRequest) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	order := &entity.Order{
		OrderID:         "ord-created",
		Items:           req.Items,
		DeliveryAddress: req.DeliveryAddress,
		TotalAmount:     req.TotalAmount,
		DeliveryCharges: req.DeliveryCharges,
		Taxes:           req.Taxes,
		FinalAmount:     req.FinalAmount,
		PaymentMethod:   req.PaymentMethod,
		CustomerNotes:   req.CustomerNotes,
		OrderStatus:     entity.StatusPlaced,
	}
	f.created = order
	return order, nil
}

func (f *fakeOrderAPI) ListOrders(ctx context.Context, token string) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]entity.Order(nil), f.orders...), nil
}

func (f *fakeOrderAPI) GetOrder(ctx context.Context, token, id string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.orders {
		if f.orders[i].OrderID == id {
			order := f.orders[i]
			return &order, nil
		}
	}
	return nil, errors.New("order not found")
}

type fakeUserAPI struct {
	details client.UserDetails
	getErr  error
	saveErr error
	saved   []client.UserDetails
}

func (f *fakeUserAPI) Get(ctx context.Context, token string) (*client.UserDetails, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	details := f.details
	return &details, nil
}

func (f *fakeUserAPI) Save(ctx context.Context, token string, details client.UserDetails) (*client.UserDetails, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, details)
	f.details = details
	return &details, nil
}

type fakeSnapshotRepo struct {
	mu     sync.Mutex
	orders map[string]entity.Order
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{orders: make(map[string]entity.Order)}
}

func (f *fakeSnapshotRepo) UpsertOrder(ctx context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.OrderID] = *order
	return nil
}

func (f *fakeSnapshotRepo) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, errors.New("snapshot not found")
	}
	return &order, nil
}

func (f *fakeSnapshotRepo) ListOrdersByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

type fakeActiveSource struct {
	order *entity.Order
	err   error
}

func (f *fakeActiveSource) ActiveOrder(ctx context.Context, token, userID string) (*entity.Order, error) {
	return f.order, f.err
}

type fakeAdminAPI struct {
	orders  []entity.Order
	listErr error
}

func (f *fakeAdminAPI) ListOrders(ctx context.Context) ([]entity.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orders, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
