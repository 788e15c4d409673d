package domain

import "time"

// Product is a stocked inventory item.
type Product struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Stock       int        `json:"stock"`
	MinStock    int        `json:"minStock"`
	Unit        string     `json:"unit"`
	Price       string     `json:"price,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Image       string     `json:"image,omitempty"`
	Specs       string     `json:"specs,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// LowStock reports whether the product is at or below its minimum stock level.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}
