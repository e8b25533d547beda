package entity

import (
	"fmt"
	"strings"
)

// Address is a saved delivery address. Latitude and longitude come from the
// pin-location step and must be set before the record can be persisted.
// The address list is append-only, addresses are never edited or deleted.
type Address struct {
	Label        string   `json:"label,omitempty"`
	AddressLine1 string   `json:"addressLine1"`
	AddressLine2 string   `json:"addressLine2,omitempty"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Pincode      string   `json:"pincode"`
	Landmark     string   `json:"landmark,omitempty"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// Validate checks the required fields before save. It returns an error
// naming the first offending field, or nil. Whitespace-only values count
// as empty.
func (a *Address) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"addressLine1", a.AddressLine1},
		{"city", a.City},
		{"state", a.State},
		{"pincode", a.Pincode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.field)
		}
	}
	if a.Latitude == nil || a.Longitude == nil {
		return fmt.Errorf("location pin is required before saving an address")
	}
	return nil
}
