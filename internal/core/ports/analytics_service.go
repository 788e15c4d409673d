package ports

import (
	"context"
	"time"
)

// CustomerSummary is one row of the derived customer table, aggregated from
// orders by email.
type CustomerSummary struct {
	Name       string
	Email      string
	Phone      string
	OrderCount int
	LastOrder  time.Time
}

// OverviewStats are the dashboard headline numbers.
type OverviewStats struct {
	TotalOrders   int
	PendingOrders int
	LowStockItems int
}

// AnalyticsReport aggregates order history into the analytics panel view.
type AnalyticsReport struct {
	TopProduct      string
	AvgOrderSize    int
	UniqueCustomers int
	// FulfillmentRate is the percentage of orders marked completed, 0-100.
	FulfillmentRate int
}

// AnalyticsService computes derived views over the registry collections.
type AnalyticsService interface {
	Overview(ctx context.Context) (*OverviewStats, error)
	Customers(ctx context.Context) ([]CustomerSummary, error)
	Report(ctx context.Context) (*AnalyticsReport, error)
}
