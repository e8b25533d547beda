package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"restaurant-order-service/internal/client"
	"restaurant-order-service/internal/config"
	"restaurant-order-service/internal/entity"
)

// CheckoutState is the single tagged value describing where a checkout
// session is. Using one value instead of independent boolean flags makes
// impossible combinations unrepresentable.
type CheckoutState string

const (
	StateIdle             CheckoutState = "idle"
	StateAuthenticating   CheckoutState = "authenticating"
	StateAddressSelection CheckoutState = "address_selection"
	StateReview           CheckoutState = "review"
	StatePlacing          CheckoutState = "placing"
	StatePlaced           CheckoutState = "placed"
	StateFailed           CheckoutState = "failed"
)

// Recipient describes who receives the delivery. When the order goes to
// someone other than the account holder, their name and a 10-digit phone
// number are required.
type Recipient struct {
	SomeoneElse bool   `json:"someoneElse"`
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// CheckoutSession is one user's in-progress checkout.
type CheckoutSession struct {
	State          CheckoutState   `json:"state"`
	Address        *entity.Address `json:"address,omitempty"`
	Recipient      Recipient       `json:"recipient"`
	PaymentMethod  string          `json:"paymentMethod,omitempty"`
	CustomerNotes  string          `json:"customerNotes,omitempty"`
	IdempotencyKey string          `json:"-"`
	OrderID        string          `json:"orderId,omitempty"`
	LastError      string          `json:"lastError,omitempty"`
}

// Preview is the client-side estimate of the charge breakdown. The backend
// recomputes the same shape and its figures win at persistence time.
type Preview struct {
	Subtotal        float64 `json:"subtotal"`
	DeliveryCharges float64 `json:"deliveryCharges"`
	Taxes           float64 `json:"taxes"`
	FinalAmount     float64 `json:"finalAmount"`
	TotalQuantity   int     `json:"totalQuantity"`
}

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoAddressSelected = errors.New("no delivery address selected")
	ErrRecipientName     = errors.New("recipient name is required")
	ErrInvalidPhone      = errors.New("recipient phone must be a 10-digit number")
	ErrPlacementInFlight = errors.New("an order submission is already in progress")
	ErrDuplicateSubmit   = errors.New("this order was already submitted")
	ErrInvalidTransition = errors.New("checkout is not in the right step for that")
	ErrNoCheckoutSession = errors.New("no checkout in progress")
	ErrActiveOrderExists = errors.New("an order is already in progress")
)

// CheckoutService drives the checkout state machine:
// idle -> authenticating -> address_selection -> review -> placing -> placed|failed.
// One session per user; a failed placement keeps the session on failed with
// the error retained so the user can retry from review without losing the
// cart.
type CheckoutService struct {
	mu       sync.Mutex
	sessions map[string]*CheckoutSession

	cart        *CartService
	userAPI     UserDetailsAPI
	orderAPI    OrderAPI
	activeSrc   ActiveOrderSource
	rules       config.Rules
	rdb         *redis.Client
	kafkaWriter *kafka.Writer
}

// NewCheckoutService creates a new instance of CheckoutService. rdb and
// kafkaWriter may be nil; idempotency keys and event publishing are then
// skipped.
func NewCheckoutService(cart *CartService, userAPI UserDetailsAPI, orderAPI OrderAPI,
	activeSrc ActiveOrderSource, rules config.Rules, rdb *redis.Client, kafkaWriter *kafka.Writer) *CheckoutService {
	return &CheckoutService{
		sessions:    make(map[string]*CheckoutSession),
		cart:        cart,
		userAPI:     userAPI,
		orderAPI:    orderAPI,
		activeSrc:   activeSrc,
		rules:       rules,
		rdb:         rdb,
		kafkaWriter: kafkaWriter,
	}
}

// Start opens a checkout session. Without an authenticated session it
// parks on authenticating until CompleteAuth; otherwise it moves straight
// to address selection with the first saved address pre-selected.
func (s *CheckoutService) Start(ctx context.Context, userID, token string, authenticated bool) (*CheckoutSession, error) {
	s.mu.Lock()
	if existing, ok := s.sessions[userID]; ok && existing.State == StatePlacing {
		s.mu.Unlock()
		return nil, ErrPlacementInFlight
	}
	session := &CheckoutSession{State: StateIdle, IdempotencyKey: uuid.NewString()}
	s.sessions[userID] = session
	s.mu.Unlock()

	if !authenticated {
		s.setState(userID, StateAuthenticating)
		return s.Session(userID)
	}
	return s.completeAuth(ctx, userID, token)
}

// CompleteAuth moves a session out of authenticating once the external
// provider flow finished.
func (s *CheckoutService) CompleteAuth(ctx context.Context, userID, token string) (*CheckoutSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoCheckoutSession
	}
	if session.State != StateAuthenticating {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	s.mu.Unlock()
	return s.completeAuth(ctx, userID, token)
}

func (s *CheckoutService) completeAuth(ctx context.Context, userID, token string) (*CheckoutSession, error) {
	// Default to the first saved address when the user has one. An auth or
	// fetch failure leaves the cart untouched and the session recoverable.
	var defaultAddr *entity.Address
	details, err := s.userAPI.Get(ctx, token)
	if err != nil {
		logger.Warn().Err(err).Msgf("Could not fetch addresses for user %s", userID)
	} else if len(details.Addresses) > 0 {
		addr := details.Addresses[0]
		defaultAddr = &addr
	}

	s.mu.Lock()
	session, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoCheckoutSession
	}
	session.State = StateAddressSelection
	session.Address = defaultAddr
	copied := *session
	s.mu.Unlock()
	return &copied, nil
}

// SelectAddress confirms the delivery address and moves to review.
// Re-selecting from review is allowed, the user may change their mind.
func (s *CheckoutService) SelectAddress(userID string, addr entity.Address) (*CheckoutSession, error) {
	if addr.Latitude == nil || addr.Longitude == nil {
		return nil, fmt.Errorf("address has no location pin")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoCheckoutSession
	}
	if session.State != StateAddressSelection && session.State != StateReview {
		return nil, ErrInvalidTransition
	}
	session.Address = &addr
	session.State = StateReview
	copied := *session
	return &copied, nil
}

// Preview computes the charge breakdown for the user's current cart.
func (s *CheckoutService) Preview(ctx context.Context, userID string) (Preview, error) {
	cart := s.cart.Get(ctx, userID)
	if len(cart.Items) == 0 {
		return Preview{}, ErrEmptyCart
	}
	return s.buildPreview(cart), nil
}

func (s *CheckoutService) buildPreview(cart *entity.Cart) Preview {
	subtotal := cart.TotalAmount
	taxes := math.Round(subtotal * s.rules.TaxRate)
	return Preview{
		Subtotal:        subtotal,
		DeliveryCharges: s.rules.DeliveryCharge,
		Taxes:           taxes,
		FinalAmount:     subtotal + s.rules.DeliveryCharge + taxes,
		TotalQuantity:   cart.TotalQuantity,
	}
}

// PlaceInput is what the user confirms on the review screen.
type PlaceInput struct {
	Recipient     Recipient `json:"recipient"`
	PaymentMethod string    `json:"paymentMethod"`
	CustomerNotes string    `json:"customerNotes,omitempty"`
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// Place validates the session and submits the order. All validation runs
// before any network submission; a validation failure never reaches the
// order API. A server or network failure moves the session to failed with
// the error retained and the cart intact; nothing retries automatically.
func (s *CheckoutService) Place(ctx context.Context, userID, token string, input PlaceInput) (*entity.Order, error) {
	s.mu.Lock()
	session, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoCheckoutSession
	}
	switch session.State {
	case StatePlacing:
		s.mu.Unlock()
		return nil, ErrPlacementInFlight
	case StateReview, StateFailed:
		// allowed; failed keeps the session retryable
	default:
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}

	if session.Address == nil {
		s.mu.Unlock()
		return nil, ErrNoAddressSelected
	}

	if input.Recipient.SomeoneElse {
		if strings.TrimSpace(input.Recipient.Name) == "" {
			s.mu.Unlock()
			return nil, ErrRecipientName
		}
		normalized := NormalizePhone(input.Recipient.Phone)
		if len(normalized) != 10 {
			s.mu.Unlock()
			return nil, ErrInvalidPhone
		}
		input.Recipient.Phone = normalized
	}

	cart := s.cart.Get(ctx, userID)
	if len(cart.Items) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}

	address := *session.Address
	idempotencyKey := session.IdempotencyKey
	session.Recipient = input.Recipient
	session.PaymentMethod = input.PaymentMethod
	session.CustomerNotes = input.CustomerNotes
	session.State = StatePlacing
	session.LastError = ""
	s.mu.Unlock()

	order, err := s.submit(ctx, userID, token, cart, address, idempotencyKey, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok = s.sessions[userID]
	if !ok {
		// Session vanished while the request was in flight; nothing left
		// to update (stale-response guard).
		return order, err
	}
	if err != nil {
		session.State = StateFailed
		session.LastError = err.Error()
		return nil, err
	}
	session.State = StatePlaced
	session.OrderID = order.OrderID
	return order, nil
}

func (s *CheckoutService) submit(ctx context.Context, userID, token string, cart *entity.Cart,
	address entity.Address, idempotencyKey string, input PlaceInput) (*entity.Order, error) {

	// The active-order gate runs last, just before submission: a user with
	// an undelivered order cannot place another one. The backend enforces
	// this too; checking here saves a doomed POST and names the conflict.
	if s.activeSrc != nil {
		active, err := s.activeSrc.ActiveOrder(ctx, token, userID)
		if err != nil {
			return nil, err
		}
		if active != nil {
			return nil, fmt.Errorf("%w: order %s is still %s", ErrActiveOrderExists, active.OrderID, active.OrderStatus)
		}
	}

	ok, err := s.claimIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDuplicateSubmit
	}

	items := make([]entity.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, entity.OrderItem{
			MenuItemID: it.ID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
		})
	}

	preview := s.buildPreview(cart)
	notes := input.CustomerNotes
	if input.Recipient.SomeoneElse {
		notes = strings.TrimSpace(fmt.Sprintf("Deliver to %s (%s). %s",
			input.Recipient.Name, input.Recipient.Phone, notes))
	}

	req := client.CreateOrderRequest{
		Items:           items,
		DeliveryAddress: address,
		TotalAmount:     preview.Subtotal,
		DeliveryCharges: preview.DeliveryCharges,
		Taxes:           preview.Taxes,
		FinalAmount:     preview.FinalAmount,
		PaymentMethod:   input.PaymentMethod,
		CustomerNotes:   notes,
	}

	order, err := s.orderAPI.CreateOrder(ctx, token, req)
	if err != nil {
		logger.Error().Err(err).Msgf("Error placing order for user %s", userID)
		s.releaseIdempotencyKey(ctx, idempotencyKey)
		return nil, err
	}

	s.cart.Clear(ctx, userID)
	s.publishOrderEvent(ctx, order, "placed")
	return order, nil
}

// Session returns a copy of the user's checkout session.
func (s *CheckoutService) Session(userID string) (*CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoCheckoutSession
	}
	copied := *session
	return &copied, nil
}

// claimIdempotencyKey marks the key as used. A key that is already present
// means this checkout session already produced an order.
func (s *CheckoutService) claimIdempotencyKey(ctx context.Context, key string) (bool, error) {
	if s.rdb == nil || key == "" {
		return true, nil
	}
	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	set, err := s.rdb.SetNX(ctx, redisKey, "exists", 24*time.Hour).Result()
	if err != nil {
		return false, err
	}
	return set, nil
}

// releaseIdempotencyKey frees the key after a failed submission so a
// deliberate retry can go through.
func (s *CheckoutService) releaseIdempotencyKey(ctx context.Context, key string) {
	if s.rdb == nil || key == "" {
		return
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf("idempotent-key:%s", key)).Err(); err != nil {
		logger.Warn().Err(err).Msg("Could not release idempotency key")
	}
}

func (s *CheckoutService) publishOrderEvent(ctx context.Context, order *entity.Order, event string) {
	if s.kafkaWriter == nil {
		return
	}
	orderJSON, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Msg("Error marshalling order event")
		return
	}

	// order.placed.<orderID>
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%s", event, order.OrderID)),
		Value: orderJSON,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order event for %s", order.OrderID)
	}
}

func (s *CheckoutService) setState(userID string, state CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok {
		session.State = state
	}
}
