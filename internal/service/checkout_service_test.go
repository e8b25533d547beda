package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-order-service/internal/client"
	"restaurant-order-service/internal/config"
	"restaurant-order-service/internal/entity"
)

func savedAddress() entity.Address {
	return entity.Address{
		AddressLine1: "12-3 Jubilee Hills",
		City:         "Hyderabad",
		State:        "Telangana",
		Pincode:      "500033",
		Latitude:     floatPtr(17.43),
		Longitude:    floatPtr(78.41),
	}
}

type checkoutFixture struct {
	svc      *CheckoutService
	cart     *CartService
	orderAPI *fakeOrderAPI
	userAPI  *fakeUserAPI
	active   *fakeActiveSource
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	cart := NewCartService(nil)
	orderAPI := &fakeOrderAPI{}
	userAPI := &fakeUserAPI{details: client.UserDetails{Addresses: []entity.Address{savedAddress()}}}
	active := &fakeActiveSource{}
	svc := NewCheckoutService(cart, userAPI, orderAPI, active, config.DefaultRules(), nil, nil)
	return &checkoutFixture{svc: svc, cart: cart, orderAPI: orderAPI, userAPI: userAPI, active: active}
}

// startToReview walks a session to the review state.
func (f *checkoutFixture) startToReview(t *testing.T, userID string) {
	t.Helper()
	session, err := f.svc.Start(context.Background(), userID, "tok", true)
	require.NoError(t, err)
	require.Equal(t, StateAddressSelection, session.State)
	require.NotNil(t, session.Address, "first saved address should be pre-selected")

	session, err = f.svc.SelectAddress(userID, *session.Address)
	require.NoError(t, err)
	require.Equal(t, StateReview, session.State)
}

func (f *checkoutFixture) fillCart(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.cart.AddItem(ctx, userID, samosa)
	require.NoError(t, err)
	_, err = f.cart.AddItem(ctx, userID, samosa)
	require.NoError(t, err)
	_, err = f.cart.AddItem(ctx, userID, biryani)
	require.NoError(t, err)
}

func TestCheckoutStartUnauthenticatedWaitsForAuth(t *testing.T) {
	f := newCheckoutFixture(t)

	session, err := f.svc.Start(context.Background(), "u1", "", false)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticating, session.State)

	session, err = f.svc.CompleteAuth(context.Background(), "u1", "tok")
	require.NoError(t, err)
	assert.Equal(t, StateAddressSelection, session.State)
	assert.NotNil(t, session.Address)
}

func TestCheckoutPreviewTotals(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "u1")

	preview, err := f.svc.Preview(context.Background(), "u1")
	require.NoError(t, err)

	// subtotal 450, delivery 40, tax round(450*0.05)=23, final 513
	assert.Equal(t, 450.0, preview.Subtotal)
	assert.Equal(t, 40.0, preview.DeliveryCharges)
	assert.Equal(t, 23.0, preview.Taxes)
	assert.Equal(t, 513.0, preview.FinalAmount)
	assert.Equal(t, 3, preview.TotalQuantity)
}

func TestCheckoutPlaceBlockedWhenCartEmpty(t *testing.T) {
	f := newCheckoutFixture(t)
	f.startToReview(t, "u1")

	_, err := f.svc.Place(context.Background(), "u1", "tok", PlaceInput{PaymentMethod: "cod"})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, f.orderAPI.createCalls, "validation failure must not reach the order API")
}

func TestCheckoutPlaceBlockedWithoutAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	f.userAPI.details = client.UserDetails{}
	f.fillCart(t, "u1")

	session, err := f.svc.Start(context.Background(), "u1", "tok", true)
	require.NoError(t, err)
	require.Nil(t, session.Address)

	_, err = f.svc.Place(context.Background(), "u1", "tok", PlaceInput{PaymentMethod: "cod"})
	require.Error(t, err)
	assert.Equal(t, 0, f.orderAPI.createCalls)
}

func TestCheckoutRecipientPhoneValidation(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr error
	}{
		{"spaced 10 digits accepted", "98765 43210", nil},
		{"nine digits rejected", "987654321", ErrInvalidPhone},
		{"letters rejected", "98765abcde", ErrInvalidPhone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			f.fillCart(t, "u1")
			f.startToReview(t, "u1")

			_, err := f.svc.Place(context.Background(), "u1", "tok", PlaceInput{
				PaymentMethod: "cod",
				Recipient:     Recipient{SomeoneElse: true, Name: "Asha", Phone: tc.phone},
			})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, 0, f.orderAPI.createCalls)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, f.orderAPI.createCalls)
			}
		})
	}
}

func TestCheckoutRecipientNameRequired(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "u1")
	f.startToReview(t, "u1")

	_, err := f.svc.Place(context.Background(), "u1", "tok", PlaceInput{
		PaymentMethod: "cod",
		Recipient:     Recipient{SomeoneElse: true, Phone: "9876543210"},
	})
	assert.ErrorIs(t, err, ErrRecipientName)
	assert.Equal(t, 0, f.orderAPI.createCalls)
}

func TestCheckoutBlockedByActiveOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "u1")
	f.startToReview(t, "u1")
	f.active.order = &entity.Order{OrderID: "ord-77", OrderStatus: entity.StatusConfirmed}

	_, err := f.svc.Place(context.Background(), "u1", "tok", PlaceInput{PaymentMethod: "cod"})
	require.ErrorIs(t, err, ErrActiveOrderExists)
	assert.Contains(t, err.Error(), "ord-77", "the conflicting order should be named")
	assert.Equal(t, 0, f.orderAPI.createCalls, "no POST must be issued while an order is active")

	cart := f.cart.Get(context.Background(), "u1")
	assert.Equal(t, 3, cart.TotalQuantity, "cart must survive the rejection")
}

func TestCheckoutPlaceSuccess(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "u1")
	f.startToReview(t, "u1")

	order, err := f.svc.Place(context.Background(), "u1", "tok", PlaceInput{PaymentMethod: "upi"})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, 450.0, order.TotalAmount)
	assert.Equal(t, 513.0, order.FinalAmount)

	session, err := f.svc.Session("u1")
	require.NoError(t, err)
	assert.Equal(t, StatePlaced, session.State)
	assert.Equal(t, "ord-created", session.OrderID)

	cart := f.cart.Get(context.Background(), "u1")
	assert.Empty(t, cart.Items, "cart is cleared after a successful placement")
}

func TestCheckoutPlaceFailureKeepsCartAndAllowsRetry(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "u1")
	f.startToReview(t, "u1")
	f.orderAPI.createErr = errors.New("backend unavailable")

	_, err := f.svc.Place(context.Background(), "u1", "tok", PlaceInput{PaymentMethod: "cod"})
	require.Error(t, err)

	session, sErr := f.svc.Session("u1")
	require.NoError(t, sErr)
	assert.Equal(t, StateFailed, session.State)
	assert.Equal(t, "backend unavailable", session.LastError)

	cart := f.cart.Get(context.Background(), "u1")
	assert.Equal(t, 3, cart.TotalQuantity, "a failed submission must not lose the cart")

	// A deliberate retry succeeds; nothing retried automatically before it.
	assert.Equal(t, 1, f.orderAPI.createCalls)
	f.orderAPI.createErr = nil
	_, err = f.svc.Place(context.Background(), "u1", "tok", PlaceInput{PaymentMethod: "cod"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.orderAPI.createCalls)
}

func TestCheckoutSelectAddressRequiresPin(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.Start(context.Background(), "u1", "tok", true)
	require.NoError(t, err)

	unpinned := savedAddress()
	unpinned.Latitude = nil
	unpinned.Longitude = nil
	_, err = f.svc.SelectAddress("u1", unpinned)
	assert.Error(t, err)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "9876543210", NormalizePhone("98765 43210"))
	assert.Equal(t, "9876543210", NormalizePhone("+98-76543210"))
	assert.Equal(t, "987654321", NormalizePhone("987654321"))
}
