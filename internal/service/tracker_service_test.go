package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-order-service/internal/entity"
)

func TestHasActiveOrder(t *testing.T) {
	tests := []struct {
		name   string
		orders []entity.Order
		want   bool
	}{
		{
			name: "one preparing order is active",
			orders: []entity.Order{
				{OrderID: "a", UserID: "u1", OrderStatus: entity.StatusDelivered},
				{OrderID: "b", UserID: "u1", OrderStatus: entity.StatusPreparing},
			},
			want: true,
		},
		{
			name: "all terminal orders",
			orders: []entity.Order{
				{OrderID: "a", UserID: "u1", OrderStatus: entity.StatusDelivered},
				{OrderID: "b", UserID: "u1", OrderStatus: entity.StatusCancelled},
			},
			want: false,
		},
		{
			name:   "no orders at all",
			orders: nil,
			want:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeOrderAPI{orders: tc.orders}
			svc := NewTrackerService(api, newFakeSnapshotRepo())

			got, err := svc.HasActiveOrder(context.Background(), "tok", "u1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOrdersStaleWhileRevalidate(t *testing.T) {
	ctx := context.Background()
	api := &fakeOrderAPI{orders: []entity.Order{
		{OrderID: "ord-1", UserID: "u1", OrderStatus: entity.StatusPreparing, CreatedAt: time.Now()},
	}}
	repo := newFakeSnapshotRepo()
	svc := NewTrackerService(api, repo)

	// First fetch succeeds and seeds the snapshot.
	orders, stale, err := svc.Orders(ctx, "tok", "u1")
	require.NoError(t, err)
	assert.False(t, stale)
	require.Len(t, orders, 1)

	// Backend goes away; the last-good copy is still served, flagged stale,
	// with the retryable error alongside.
	api.listErr = errors.New("gateway timeout")
	orders, stale, err = svc.Orders(ctx, "tok", "u1")
	require.Error(t, err)
	assert.True(t, stale)
	require.Len(t, orders, 1)
	assert.Equal(t, "ord-1", orders[0].OrderID)
}

func TestOrdersFetchFailureWithEmptySnapshot(t *testing.T) {
	api := &fakeOrderAPI{listErr: errors.New("gateway timeout")}
	svc := NewTrackerService(api, newFakeSnapshotRepo())

	orders, stale, err := svc.Orders(context.Background(), "tok", "u1")
	require.Error(t, err)
	assert.False(t, stale)
	assert.Empty(t, orders)
}

func TestOrderSingleStaleWhileRevalidate(t *testing.T) {
	ctx := context.Background()
	api := &fakeOrderAPI{orders: []entity.Order{
		{OrderID: "ord-9", UserID: "u1", OrderStatus: entity.StatusConfirmed, CreatedAt: time.Now()},
	}}
	repo := newFakeSnapshotRepo()
	svc := NewTrackerService(api, repo)

	_, _, err := svc.Order(ctx, "tok", "u1", "ord-9")
	require.NoError(t, err)

	api.getErr = errors.New("gateway timeout")
	order, stale, err := svc.Order(ctx, "tok", "u1", "ord-9")
	require.Error(t, err)
	assert.True(t, stale)
	require.NotNil(t, order)
	assert.Equal(t, entity.StatusConfirmed, order.OrderStatus)
}

func TestWatchStopsOnCancel(t *testing.T) {
	api := &fakeOrderAPI{orders: []entity.Order{
		{OrderID: "ord-1", UserID: "u1", OrderStatus: entity.StatusPlaced, CreatedAt: time.Now()},
	}}
	svc := NewTrackerService(api, newFakeSnapshotRepo())

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan entity.Order, 16)
	done := make(chan struct{})

	go func() {
		svc.Watch(ctx, "tok", "u1", "ord-1", 5*time.Millisecond, func(o entity.Order) {
			select {
			case updates <- o:
			default:
			}
		})
		close(done)
	}()

	select {
	case o := <-updates:
		assert.Equal(t, "ord-1", o.OrderID)
	case <-time.After(2 * time.Second):
		t.Fatal("no update arrived before cancellation")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop leaked after context cancellation")
	}
}
