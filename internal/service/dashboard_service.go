package service

import (
	"context"
	"sort"
	"time"

	"restaurant-order-service/internal/config"
	"restaurant-order-service/internal/entity"
)

// istOffset shifts stored UTC timestamps to the business timezone before
// taking the date portion. This is a fixed-offset approximation of
// UTC+5:30, not full timezone handling; kept as a documented limitation.
const istOffset = 5*time.Hour + 30*time.Minute

const dateLayout = "2006-01-02"

// DashboardService recomputes the admin dashboard numbers from the flat
// order list served by the admin API.
type DashboardService struct {
	adminAPI AdminOrderAPI
	rules    config.Rules
}

func NewDashboardService(adminAPI AdminOrderAPI, rules config.Rules) *DashboardService {
	return &DashboardService{adminAPI: adminAPI, rules: rules}
}

// CalendarDate returns the business-local calendar date of a timestamp.
func CalendarDate(t time.Time) string {
	return t.UTC().Add(istOffset).Format(dateLayout)
}

// Snapshot fetches the order list and computes everything the dashboard
// shows for the selected date.
func (s *DashboardService) Snapshot(ctx context.Context, date string) (*entity.DashboardSnapshot, error) {
	orders, err := s.adminAPI.ListOrders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error fetching admin orders")
		return nil, err
	}
	return s.Compute(orders, date)
}

// Compute aggregates an already-fetched order list for the selected date.
func (s *DashboardService) Compute(orders []entity.Order, date string) (*entity.DashboardSnapshot, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, err
	}

	stats := s.DayStats(orders, date)
	return &entity.DashboardSnapshot{
		Date:     date,
		Stats:    stats,
		Trailing: s.TrailingRevenue(orders, date, s.rules.TrailingRevenueDays),
		TopItems: s.TopItems(orders, date, s.rules.TopItemsLimit),
	}, nil
}

// DayStats partitions orders by calendar date and computes the selected
// day's numbers plus day-over-day deltas against the previous date.
func (s *DashboardService) DayStats(orders []entity.Order, date string) entity.DayStats {
	stats := entity.DayStats{Date: date, SourceCounts: map[string]int{}}

	prevDate := shiftDate(date, -1)
	var prevRevenue float64
	var prevCount int

	for i := range orders {
		order := &orders[i]
		day := CalendarDate(order.CreatedAt)
		switch day {
		case date:
			stats.OrderCount++
			if order.PaymentStatus == entity.PaymentCompleted {
				stats.Revenue += order.FinalAmount
				stats.CompletedCount++
			}
			if order.OrderStatus == entity.StatusCancelled {
				stats.CancelledCount++
			}
			if order.PaymentStatus == entity.PaymentPending {
				stats.PendingPaymentCount++
			}
			source := order.OrderSource
			if source == "" {
				source = "online"
			}
			stats.SourceCounts[source]++
		case prevDate:
			prevCount++
			if order.PaymentStatus == entity.PaymentCompleted {
				prevRevenue += order.FinalAmount
			}
		}
	}

	if stats.CompletedCount > 0 {
		stats.AverageOrderValue = stats.Revenue / float64(stats.CompletedCount)
	}
	stats.RevenueDelta = percentDelta(stats.Revenue, prevRevenue)
	stats.OrderCountDelta = percentDelta(float64(stats.OrderCount), float64(prevCount))
	return stats
}

// percentDelta returns the percentage change from prev to cur, or nil when
// prev is zero. A zero baseline must never yield Inf or NaN.
func percentDelta(cur, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	delta := (cur - prev) / prev * 100
	return &delta
}

// TrailingRevenue builds the revenue-per-day series for the given number
// of days ending at (and including) the selected date.
func (s *DashboardService) TrailingRevenue(orders []entity.Order, endDate string, days int) []entity.RevenuePoint {
	revenueByDay := map[string]float64{}
	for i := range orders {
		if orders[i].PaymentStatus != entity.PaymentCompleted {
			continue
		}
		day := CalendarDate(orders[i].CreatedAt)
		revenueByDay[day] += orders[i].FinalAmount
	}

	series := make([]entity.RevenuePoint, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		day := shiftDate(endDate, -offset)
		series = append(series, entity.RevenuePoint{Date: day, Revenue: revenueByDay[day]})
	}
	return series
}

// TopItems ranks item quantities over the selected day's orders, highest
// first. Ties keep their original encounter order, hence the stable sort.
func (s *DashboardService) TopItems(orders []entity.Order, date string, limit int) []entity.ItemCount {
	quantities := map[string]int{}
	var names []string

	for i := range orders {
		if CalendarDate(orders[i].CreatedAt) != date {
			continue
		}
		for _, item := range orders[i].Items {
			if _, seen := quantities[item.Name]; !seen {
				names = append(names, item.Name)
			}
			quantities[item.Name] += item.Quantity
		}
	}

	ranked := make([]entity.ItemCount, 0, len(names))
	for _, name := range names {
		ranked = append(ranked, entity.ItemCount{Name: name, Quantity: quantities[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// RefreshLoop recomputes the snapshot for today's date on the given
// interval until ctx is cancelled, handing each result to onUpdate.
func (s *DashboardService) RefreshLoop(ctx context.Context, interval time.Duration, onUpdate func(*entity.DashboardSnapshot)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapshot, err := s.Snapshot(ctx, CalendarDate(time.Now()))
			if err != nil {
				continue
			}
			if onUpdate != nil {
				onUpdate(snapshot)
			}
		}
	}
}

// shiftDate moves a yyyy-mm-dd date by whole days.
func shiftDate(date string, days int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(dateLayout)
}
