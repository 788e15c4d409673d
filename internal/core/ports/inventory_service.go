package ports

import (
	"context"
	"time"
)

// ProductInput carries all fields for a new product.
type ProductInput struct {
	Name        string
	Category    string
	Stock       int
	MinStock    int
	Unit        string
	Price       string
	Icon        string
	Image       string
	Specs       string
	Description string
}

// ProductUpdateInput carries a partial update; nil fields are left unchanged.
type ProductUpdateInput struct {
	Name        *string
	Category    *string
	Stock       *int
	MinStock    *int
	Unit        *string
	Price       *string
	Icon        *string
	Image       *string
	Specs       *string
	Description *string
}

// ProductView is a product plus its derived low-stock flag.
type ProductView struct {
	ID          int
	Name        string
	Category    string
	Stock       int
	MinStock    int
	Unit        string
	Price       string
	Icon        string
	Image       string
	Specs       string
	Description string
	LowStock    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// InventoryService defines use-case operations for products.
type InventoryService interface {
	List(ctx context.Context) ([]ProductView, error)
	Create(ctx context.Context, in ProductInput, actor string) (*ProductView, error)
	Update(ctx context.Context, id int, in ProductUpdateInput, actor string) (*ProductView, error)
	// AdjustStock applies a signed delta. Stock is allowed to go negative;
	// the console relies on the low-stock flag, not on hard validation.
	AdjustStock(ctx context.Context, id, delta int, actor string) (*ProductView, error)
	Delete(ctx context.Context, id int, actor string) error
}
