package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// InventoryService implements product CRUD and stock adjustments.
type InventoryService struct {
	registry ports.Registry
	log      zerolog.Logger
}

func NewInventoryService(registry ports.Registry, log zerolog.Logger) *InventoryService {
	return &InventoryService{registry: registry, log: log}
}

func (s *InventoryService) List(_ context.Context) ([]ports.ProductView, error) {
	products := s.registry.Products()
	views := make([]ports.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p))
	}
	return views, nil
}

func (s *InventoryService) Create(ctx context.Context, in ports.ProductInput, actor string) (*ports.ProductView, error) {
	product := domain.Product{
		ID:          s.registry.GenerateID(domain.CollectionProducts),
		Name:        in.Name,
		Category:    in.Category,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Unit:        in.Unit,
		Price:       in.Price,
		Icon:        in.Icon,
		Image:       in.Image,
		Specs:       in.Specs,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}

	products := append(s.registry.Products(), product)
	commit := domain.Commit{
		Message: fmt.Sprintf("Add product %q", product.Name),
		Actor:   actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionProducts, products, commit); err != nil {
		return nil, err
	}

	v := productView(product)
	return &v, nil
}

// Update merges the supplied fields into the product and stamps updatedAt.
func (s *InventoryService) Update(ctx context.Context, id int, in ports.ProductUpdateInput, actor string) (*ports.ProductView, error) {
	products := s.registry.Products()
	idx := -1
	for i, p := range products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrProductNotFound
	}

	p := &products[idx]
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Icon != nil {
		p.Icon = *in.Icon
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Specs != nil {
		p.Specs = *in.Specs
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	now := time.Now().UTC()
	p.UpdatedAt = &now

	commit := domain.Commit{
		Message: fmt.Sprintf("Update product %q", p.Name),
		Actor:   actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionProducts, products, commit); err != nil {
		return nil, err
	}

	v := productView(*p)
	return &v, nil
}

// AdjustStock applies a signed delta to the product's stock. Negative
// resulting stock is allowed.
func (s *InventoryService) AdjustStock(ctx context.Context, id, delta int, actor string) (*ports.ProductView, error) {
	products := s.registry.Products()
	idx := -1
	for i, p := range products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrProductNotFound
	}

	now := time.Now().UTC()
	products[idx].Stock += delta
	products[idx].UpdatedAt = &now

	commit := domain.Commit{
		Message: fmt.Sprintf("Adjust stock of %q by %+d", products[idx].Name, delta),
		Actor:   actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionProducts, products, commit); err != nil {
		return nil, err
	}

	v := productView(products[idx])
	return &v, nil
}

func (s *InventoryService) Delete(ctx context.Context, id int, actor string) error {
	products := s.registry.Products()
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return domain.ErrProductNotFound
	}

	commit := domain.Commit{
		Message: fmt.Sprintf("Delete product #%d", id),
		Actor:   actor,
	}
	return s.registry.Put(ctx, domain.CollectionProducts, kept, commit)
}

func productView(p domain.Product) ports.ProductView {
	return ports.ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Unit:        p.Unit,
		Price:       p.Price,
		Icon:        p.Icon,
		Image:       p.Image,
		Specs:       p.Specs,
		Description: p.Description,
		LowStock:    p.LowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
