package service

import (
	"context"
	"math"

	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// AnalyticsService computes the derived dashboard views: customer
// aggregation, overview stats, and the analytics panel. Everything is derived
// from registry snapshots on demand; nothing here writes.
type AnalyticsService struct {
	registry ports.Registry
}

func NewAnalyticsService(registry ports.Registry) *AnalyticsService {
	return &AnalyticsService{registry: registry}
}

func (s *AnalyticsService) Overview(_ context.Context) (*ports.OverviewStats, error) {
	orders := s.registry.Orders()
	products := s.registry.Products()

	stats := &ports.OverviewStats{TotalOrders: len(orders)}
	for _, o := range orders {
		if o.Status == domain.OrderPending {
			stats.PendingOrders++
		}
	}
	for _, p := range products {
		if p.LowStock() {
			stats.LowStockItems++
		}
	}
	return stats, nil
}

// Customers aggregates the customer table from orders, keyed by email: one
// row per distinct email with order count and most recent order date.
func (s *AnalyticsService) Customers(_ context.Context) ([]ports.CustomerSummary, error) {
	orders := s.registry.Orders()

	byEmail := make(map[string]*ports.CustomerSummary)
	var keys []string
	for _, o := range orders {
		c, ok := byEmail[o.Email]
		if !ok {
			c = &ports.CustomerSummary{
				Name:      o.CustomerName,
				Email:     o.Email,
				Phone:     o.Phone,
				LastOrder: o.CreatedAt,
			}
			byEmail[o.Email] = c
			keys = append(keys, o.Email)
		}
		c.OrderCount++
		if o.CreatedAt.After(c.LastOrder) {
			c.LastOrder = o.CreatedAt
		}
	}

	summaries := make([]ports.CustomerSummary, 0, len(keys))
	for _, k := range keys {
		summaries = append(summaries, *byEmail[k])
	}
	return summaries, nil
}

func (s *AnalyticsService) Report(_ context.Context) (*ports.AnalyticsReport, error) {
	orders := s.registry.Orders()
	report := &ports.AnalyticsReport{TopProduct: "—"}
	if len(orders) == 0 {
		return report, nil
	}

	productCounts := make(map[string]int)
	totalQuantity := 0
	completed := 0
	emails := make(map[string]struct{})

	for _, o := range orders {
		for _, item := range o.Lines.Display() {
			productCounts[item.Material]++
		}
		qty := o.Lines.TotalQuantity()
		if qty == 0 {
			qty = 1
		}
		totalQuantity += qty
		if o.Status == domain.OrderCompleted {
			completed++
		}
		emails[o.Email] = struct{}{}
	}

	top, best := "—", 0
	for name, n := range productCounts {
		if n > best {
			top, best = name, n
		}
	}

	report.TopProduct = top
	report.AvgOrderSize = int(math.Round(float64(totalQuantity) / float64(len(orders))))
	report.UniqueCustomers = len(emails)
	report.FulfillmentRate = int(math.Round(float64(completed) / float64(len(orders)) * 100))
	return report, nil
}
