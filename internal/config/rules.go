package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Rules are the business constants of the ordering flow. They live in a
// YAML file so the restaurant can be reconfigured without a rebuild; the
// zero-config defaults match the current business.
type Rules struct {
	ServiceOriginLat float64 `yaml:"service_origin_lat"`
	ServiceOriginLon float64 `yaml:"service_origin_lon"`
	ServiceRadiusKm  float64 `yaml:"service_radius_km"`

	DeliveryCharge float64 `yaml:"delivery_charge"`
	TaxRate        float64 `yaml:"tax_rate"`

	OrderPollSeconds     int `yaml:"order_poll_seconds"`
	DashboardPollSeconds int `yaml:"dashboard_poll_seconds"`

	TrailingRevenueDays int `yaml:"trailing_revenue_days"`
	TopItemsLimit       int `yaml:"top_items_limit"`
}

func DefaultRules() Rules {
	return Rules{
		ServiceOriginLat:     17.4399,
		ServiceOriginLon:     78.4983,
		ServiceRadiusKm:      40,
		DeliveryCharge:       40,
		TaxRate:              0.05,
		OrderPollSeconds:     30,
		DashboardPollSeconds: 60,
		TrailingRevenueDays:  14,
		TopItemsLimit:        7,
	}
}

// LoadRules reads the rules file over the defaults. An empty path returns
// the defaults unchanged.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("could not read rules file: %v", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("could not parse rules file: %v", err)
	}
	return rules, nil
}

func (r Rules) OrderPollInterval() time.Duration {
	return time.Duration(r.OrderPollSeconds) * time.Second
}

func (r Rules) DashboardPollInterval() time.Duration {
	return time.Duration(r.DashboardPollSeconds) * time.Second
}
