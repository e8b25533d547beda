package client

import (
	"context"
	"net/http"

	"restaurant-order-service/internal/entity"
)

// UserDetails is the user record held by the user-details API. Saving
// replaces the whole record, so address updates always post the full list.
type UserDetails struct {
	Addresses []entity.Address `json:"addresses"`
	Phone     string           `json:"phone,omitempty"`
	Name      string           `json:"name,omitempty"`
}

// UserAPIClient talks to the external user-details API.
type UserAPIClient struct {
	baseURL string
}

func NewUserAPIClient(baseURL string) *UserAPIClient {
	return &UserAPIClient{baseURL: baseURL}
}

// Get fetches the authenticated user's details.
func (c *UserAPIClient) Get(ctx context.Context, token string) (*UserDetails, error) {
	var details UserDetails
	if err := doJSON(ctx, http.MethodGet, c.baseURL+"/user-details", token, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// Save persists the full user details record (replace-whole-record
// semantics, there is no partial patch).
func (c *UserAPIClient) Save(ctx context.Context, token string, details UserDetails) (*UserDetails, error) {
	var updated UserDetails
	if err := doJSON(ctx, http.MethodPost, c.baseURL+"/user-details", token, details, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
