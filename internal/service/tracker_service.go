package service

import (
	"context"
	"time"

	"restaurant-order-service/internal/entity"
)

// TrackerService retrieves order state from the backend and keeps a
// last-good snapshot locally. When a fetch fails, callers still get the
// snapshot (stale-while-revalidate) alongside the retryable error, so the
// view never loses previously displayed data.
type TrackerService struct {
	orderAPI OrderAPI
	repo     SnapshotRepo
}

func NewTrackerService(orderAPI OrderAPI, repo SnapshotRepo) *TrackerService {
	return &TrackerService{orderAPI: orderAPI, repo: repo}
}

// Orders fetches the user's orders. On failure it falls back to the local
// snapshot and reports stale=true together with the fetch error.
func (s *TrackerService) Orders(ctx context.Context, token, userID string) ([]entity.Order, bool, error) {
	orders, err := s.orderAPI.ListOrders(ctx, token)
	if err != nil {
		logger.Error().Err(err).Msgf("Error fetching orders for user %s", userID)
		cached, cacheErr := s.repo.ListOrdersByUser(ctx, userID)
		if cacheErr != nil || len(cached) == 0 {
			return nil, false, err
		}
		return cached, true, err
	}

	for i := range orders {
		if orders[i].UserID == "" {
			orders[i].UserID = userID
		}
		if upsertErr := s.repo.UpsertOrder(ctx, &orders[i]); upsertErr != nil {
			logger.Warn().Err(upsertErr).Msgf("Could not snapshot order %s", orders[i].OrderID)
		}
	}
	return orders, false, nil
}

// Order fetches one order with the same stale-while-revalidate behaviour.
func (s *TrackerService) Order(ctx context.Context, token, userID, id string) (*entity.Order, bool, error) {
	order, err := s.orderAPI.GetOrder(ctx, token, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error fetching order %s", id)
		cached, cacheErr := s.repo.GetOrder(ctx, id)
		if cacheErr != nil {
			return nil, false, err
		}
		return cached, true, err
	}

	if order.UserID == "" {
		order.UserID = userID
	}
	if upsertErr := s.repo.UpsertOrder(ctx, order); upsertErr != nil {
		logger.Warn().Err(upsertErr).Msgf("Could not snapshot order %s", order.OrderID)
	}
	return order, false, nil
}

// ActiveOrder returns the user's first order whose status has not reached
// a terminal state, or nil when there is none. The checkout uses this to
// block duplicate orders; the backend stays authoritative and may still
// reject independently.
func (s *TrackerService) ActiveOrder(ctx context.Context, token, userID string) (*entity.Order, error) {
	orders, _, err := s.Orders(ctx, token, userID)
	if err != nil && len(orders) == 0 {
		return nil, err
	}
	for i := range orders {
		if orders[i].OrderStatus.IsActive() {
			return &orders[i], nil
		}
	}
	return nil, nil
}

// HasActiveOrder reports whether any of the user's orders is still in
// progress.
func (s *TrackerService) HasActiveOrder(ctx context.Context, token, userID string) (bool, error) {
	order, err := s.ActiveOrder(ctx, token, userID)
	if err != nil {
		return false, err
	}
	return order != nil, nil
}

// Watch re-fetches one order on the given interval and hands every fresh
// copy to onUpdate. It returns when ctx is cancelled; tearing down the
// corresponding view must cancel the context or the loop leaks.
func (s *TrackerService) Watch(ctx context.Context, token, userID, id string, interval time.Duration, onUpdate func(entity.Order)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			order, stale, err := s.Order(ctx, token, userID, id)
			if err != nil && order == nil {
				continue
			}
			if !stale && onUpdate != nil {
				onUpdate(*order)
			}
		}
	}
}
