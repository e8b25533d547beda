package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-order-service/internal/client"
	"restaurant-order-service/internal/config"
	"restaurant-order-service/internal/entity"
	"restaurant-order-service/internal/geo"
)

func TestCheckPinInsideServiceArea(t *testing.T) {
	svc := NewAddressService(&fakeUserAPI{}, config.DefaultRules())

	// A couple of km from the origin.
	dist, err := svc.CheckPin(17.45, 78.50)
	require.NoError(t, err)
	assert.Less(t, dist, 40.0)
}

func TestCheckPinOutsideServiceArea(t *testing.T) {
	svc := NewAddressService(&fakeUserAPI{}, config.DefaultRules())

	// Half a degree of latitude is about 55 km, well beyond the radius.
	dist, err := svc.CheckPin(17.4399+0.5, 78.4983)
	require.Error(t, err)
	assert.Greater(t, dist, 40.0)
	assert.Contains(t, err.Error(), "km", "rejection names the distance in km")
}

func TestAddressValidation(t *testing.T) {
	base := entity.Address{
		AddressLine1: "12-3 Jubilee Hills",
		City:         "Hyderabad",
		State:        "Telangana",
		Pincode:      "500033",
		Latitude:     floatPtr(17.43),
		Longitude:    floatPtr(78.41),
	}

	tests := []struct {
		name    string
		mutate  func(*entity.Address)
		wantErr string
	}{
		{"valid", func(a *entity.Address) {}, ""},
		{"missing line1", func(a *entity.Address) { a.AddressLine1 = "" }, "addressLine1"},
		{"whitespace city", func(a *entity.Address) { a.City = "   " }, "city"},
		{"missing state", func(a *entity.Address) { a.State = "" }, "state"},
		{"missing pincode", func(a *entity.Address) { a.Pincode = "" }, "pincode"},
		{"missing pin coords", func(a *entity.Address) { a.Latitude = nil }, "pin"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			addr := base
			tc.mutate(&addr)
			err := addr.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestSaveAddressAppendsAndPostsWholeList(t *testing.T) {
	existing := entity.Address{
		AddressLine1: "Old Home",
		City:         "Hyderabad",
		State:        "Telangana",
		Pincode:      "500001",
		Latitude:     floatPtr(17.40),
		Longitude:    floatPtr(78.48),
	}
	userAPI := &fakeUserAPI{details: client.UserDetails{Addresses: []entity.Address{existing}}}
	svc := NewAddressService(userAPI, config.DefaultRules())

	addr := entity.Address{
		AddressLine1: "New Flat",
		City:         "Hyderabad",
		State:        "Telangana",
		Pincode:      "500033",
		Latitude:     floatPtr(17.43),
		Longitude:    floatPtr(78.41),
	}

	addresses, err := svc.SaveAddress(context.Background(), "tok", addr)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, "Old Home", addresses[0].AddressLine1, "existing entries are untouched")
	assert.Equal(t, "New Flat", addresses[1].AddressLine1)

	// The whole list is posted back, not a partial patch.
	require.Len(t, userAPI.saved, 1)
	assert.Len(t, userAPI.saved[0].Addresses, 2)
}

func TestSaveAddressRejectsInvalidWithoutNetworkCall(t *testing.T) {
	userAPI := &fakeUserAPI{}
	svc := NewAddressService(userAPI, config.DefaultRules())

	_, err := svc.SaveAddress(context.Background(), "tok", entity.Address{City: "Hyderabad"})
	require.Error(t, err)
	assert.Empty(t, userAPI.saved, "an invalid address must never be sent anywhere")
}

func TestLocationFailureMessages(t *testing.T) {
	svc := NewAddressService(&fakeUserAPI{}, config.DefaultRules())
	assert.NotEqual(t,
		svc.LocationFailureMessage(geo.PermissionDenied),
		svc.LocationFailureMessage(geo.Timeout))
}
