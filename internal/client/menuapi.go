package client

import (
	"context"
	"net/http"
)

// MenuItem is a menu entry as served by the menu API.
type MenuItem struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Available   bool    `json:"available"`
}

// MenuAPIClient reads the menu from the external menu API.
type MenuAPIClient struct {
	baseURL string
}

func NewMenuAPIClient(baseURL string) *MenuAPIClient {
	return &MenuAPIClient{baseURL: baseURL}
}

// ListMenu fetches the full menu. The menu is read-only from this
// service's perspective.
func (c *MenuAPIClient) ListMenu(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	if err := doJSON(ctx, http.MethodGet, c.baseURL+"/menu", "", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
