package service

import (
	"context"
	"fmt"
	"math"

	"restaurant-order-service/internal/config"
	"restaurant-order-service/internal/entity"
	"restaurant-order-service/internal/geo"
)

// AddressService validates the delivery pin against the service area and
// manages the user's saved addresses through the user-details API.
type AddressService struct {
	userAPI UserDetailsAPI
	rules   config.Rules
}

func NewAddressService(userAPI UserDetailsAPI, rules config.Rules) *AddressService {
	return &AddressService{userAPI: userAPI, rules: rules}
}

// CheckPin computes the distance from the service origin to the pinned
// coordinate. Beyond the service radius the error reports the distance
// rounded to the nearest km and address entry must not proceed.
func (s *AddressService) CheckPin(lat, lon float64) (float64, error) {
	distance := geo.Haversine(s.rules.ServiceOriginLat, s.rules.ServiceOriginLon, lat, lon)
	if distance > s.rules.ServiceRadiusKm {
		return distance, fmt.Errorf("sorry, you are about %.0f km away, outside our %.0f km delivery area",
			math.Round(distance), s.rules.ServiceRadiusKm)
	}
	return distance, nil
}

// LocationFailureMessage maps a device geolocation failure to its
// user-facing message.
func (s *AddressService) LocationFailureMessage(code geo.ErrorCode) string {
	return geo.ErrorMessage(code)
}

// ListAddresses returns the user's saved addresses.
func (s *AddressService) ListAddresses(ctx context.Context, token string) ([]entity.Address, error) {
	details, err := s.userAPI.Get(ctx, token)
	if err != nil {
		logger.Error().Err(err).Msg("Error fetching user details")
		return nil, err
	}
	return details.Addresses, nil
}

// SaveAddress validates and appends a new address to the user's list and
// persists the full list back. The list is append-only: existing entries
// are never changed or removed here.
func (s *AddressService) SaveAddress(ctx context.Context, token string, addr entity.Address) ([]entity.Address, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	details, err := s.userAPI.Get(ctx, token)
	if err != nil {
		logger.Error().Err(err).Msg("Error fetching user details")
		return nil, err
	}

	updated := *details
	updated.Addresses = append(updated.Addresses, addr)

	saved, err := s.userAPI.Save(ctx, token, updated)
	if err != nil {
		logger.Error().Err(err).Msg("Error saving user details")
		return nil, err
	}
	return saved.Addresses, nil
}
