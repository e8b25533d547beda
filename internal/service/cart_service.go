package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"restaurant-order-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// ErrItemNotFound is returned when a cart operation names an item the cart
// does not hold.
var ErrItemNotFound = errors.New("item not in cart")

const cartSnapshotTTL = 7 * 24 * time.Hour

// CartService keeps one cart per user in memory and write-through
// snapshots them to redis so carts survive a restart. Totals are updated
// incrementally on every mutation and stay equal to a full recomputation
// over the items.
type CartService struct {
	mu    sync.Mutex
	carts map[string]*entity.Cart
	rdb   *redis.Client
}

// NewCartService creates a new instance of CartService. rdb may be nil, in
// which case carts are memory-only.
func NewCartService(rdb *redis.Client) *CartService {
	return &CartService{
		carts: make(map[string]*entity.Cart),
		rdb:   rdb,
	}
}

// AddItem puts a menu item in the cart. If the same item is already there
// its quantity goes up by one, otherwise it is appended with quantity 1.
func (s *CartService) AddItem(ctx context.Context, userID string, item entity.CartItem) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(ctx, userID)
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i].Quantity++
			cart.TotalAmount += cart.Items[i].Price
			cart.TotalQuantity++
			s.snapshotLocked(ctx, cart)
			return copyCart(cart), nil
		}
	}

	item.Quantity = 1
	cart.Items = append(cart.Items, item)
	cart.TotalAmount += item.Price
	cart.TotalQuantity++
	s.snapshotLocked(ctx, cart)
	return copyCart(cart), nil
}

// RemoveItem deletes the whole entry regardless of its quantity.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(ctx, userID)
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			removed := cart.Items[i]
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			cart.TotalAmount -= removed.Price * float64(removed.Quantity)
			cart.TotalQuantity -= removed.Quantity
			s.snapshotLocked(ctx, cart)
			return copyCart(cart), nil
		}
	}
	return nil, ErrItemNotFound
}

// IncreaseQty bumps an item's quantity by exactly one.
func (s *CartService) IncreaseQty(ctx context.Context, userID, itemID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(ctx, userID)
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity++
			cart.TotalAmount += cart.Items[i].Price
			cart.TotalQuantity++
			s.snapshotLocked(ctx, cart)
			return copyCart(cart), nil
		}
	}
	return nil, ErrItemNotFound
}

// DecreaseQty lowers an item's quantity by exactly one. At quantity 1 it is
// a no-op: dropping an item entirely requires an explicit RemoveItem.
func (s *CartService) DecreaseQty(ctx context.Context, userID, itemID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(ctx, userID)
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			if cart.Items[i].Quantity > 1 {
				cart.Items[i].Quantity--
				cart.TotalAmount -= cart.Items[i].Price
				cart.TotalQuantity--
				s.snapshotLocked(ctx, cart)
			}
			return copyCart(cart), nil
		}
	}
	return nil, ErrItemNotFound
}

// Clear resets the cart to empty, typically right after an order is placed.
func (s *CartService) Clear(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(ctx, userID)
	cart.Items = nil
	cart.TotalAmount = 0
	cart.TotalQuantity = 0
	s.snapshotLocked(ctx, cart)
}

// Get returns a copy of the user's cart.
func (s *CartService) Get(ctx context.Context, userID string) *entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCart(s.cartLocked(ctx, userID))
}

// cartLocked returns the live cart for a user, restoring it from the redis
// snapshot on first sight. Callers must hold s.mu.
func (s *CartService) cartLocked(ctx context.Context, userID string) *entity.Cart {
	if cart, ok := s.carts[userID]; ok {
		return cart
	}

	cart := &entity.Cart{UserID: userID}
	if s.rdb != nil {
		data, err := s.rdb.Get(ctx, cartKey(userID)).Result()
		if err == nil && data != "" {
			restored := &entity.Cart{}
			if err := json.Unmarshal([]byte(data), restored); err == nil {
				cart = restored
			}
		} else if err != nil && !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Msgf("Could not restore cart for user %s", userID)
		}
	}
	s.carts[userID] = cart
	return cart
}

// snapshotLocked persists the cart to redis, best effort. A failed
// snapshot only costs restart durability, never the in-memory cart.
func (s *CartService) snapshotLocked(ctx context.Context, cart *entity.Cart) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(cart)
	if err != nil {
		logger.Warn().Err(err).Msgf("Could not marshal cart for user %s", cart.UserID)
		return
	}
	if err := s.rdb.Set(ctx, cartKey(cart.UserID), string(data), cartSnapshotTTL).Err(); err != nil {
		logger.Warn().Err(err).Msgf("Could not snapshot cart for user %s", cart.UserID)
	}
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func copyCart(cart *entity.Cart) *entity.Cart {
	out := &entity.Cart{
		UserID:        cart.UserID,
		TotalAmount:   cart.TotalAmount,
		TotalQuantity: cart.TotalQuantity,
	}
	out.Items = append(out.Items, cart.Items...)
	return out
}
