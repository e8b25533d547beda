package entity

// DayStats are the admin dashboard numbers for one calendar day.
// Delta fields are percentage changes versus the previous calendar day and
// stay nil when the previous day has no comparable value, so a zero
// baseline never produces Inf or NaN.
type DayStats struct {
	Date                string         `json:"date"`
	Revenue             float64        `json:"revenue"`
	OrderCount          int            `json:"orderCount"`
	CompletedCount      int            `json:"completedCount"`
	CancelledCount      int            `json:"cancelledCount"`
	PendingPaymentCount int            `json:"pendingPaymentCount"`
	SourceCounts        map[string]int `json:"sourceCounts"`
	AverageOrderValue   float64        `json:"averageOrderValue"`
	RevenueDelta        *float64       `json:"revenueDelta,omitempty"`
	OrderCountDelta     *float64       `json:"orderCountDelta,omitempty"`
}

// RevenuePoint is one day of the trailing revenue series.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// ItemCount is an aggregated quantity for one item name.
type ItemCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// DashboardSnapshot bundles everything the admin dashboard renders for a
// selected date.
type DashboardSnapshot struct {
	Date     string         `json:"date"`
	Stats    DayStats       `json:"stats"`
	Trailing []RevenuePoint `json:"trailingRevenue"`
	TopItems []ItemCount    `json:"topItems"`
}
