package ports

import (
	"context"
	"time"

	"github.com/atelier-studio/registry-api/internal/core/domain"
)

// OrderLineInput is one requested material/quantity pair.
type OrderLineInput struct {
	Material string
	Quantity int
}

// CreateOrderInput carries all data needed to place a new order. Actor is the
// acting username ("storefront" for unauthenticated intake).
type CreateOrderInput struct {
	CustomerName string
	Email        string
	Phone        string
	Pickup       string
	Message      string
	Items        []OrderLineInput
	Actor        string
}

// OrderView is the uniform read view over both historical order shapes.
type OrderView struct {
	ID           int
	CustomerName string
	Email        string
	Phone        string
	Pickup       string
	Status       string
	Message      string
	Items        []domain.OrderItem
	Legacy       bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// StatusChangeResult reports the outcome of an order status change. Completing
// an order additionally decrements product stock in a second, separate write;
// when that second write fails, the status change has already been committed
// and StockUpdateFailed is set instead of rolling anything back.
type StatusChangeResult struct {
	Order             OrderView
	StockUpdateFailed bool
	StockUpdateError  string
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	// List returns orders, newest first, optionally filtered by status.
	// Unrecognized status strings simply match nothing.
	List(ctx context.Context, status string) ([]OrderView, error)
	Get(ctx context.Context, id int) (*OrderView, error)
	Create(ctx context.Context, in CreateOrderInput) (*OrderView, error)
	ChangeStatus(ctx context.Context, id int, status, actor string) (*StatusChangeResult, error)
	Delete(ctx context.Context, id int, actor string) error
}
