package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

func productFixture() domain.Document {
	return domain.Document{
		Products: []domain.Product{
			{ID: 1, Name: "Oak board", Category: "wood", Stock: 10, MinStock: 2, Unit: "pcs"},
			{ID: 5, Name: "Walnut slab", Category: "wood", Stock: 1, MinStock: 3, Unit: "pcs"},
		},
	}
}

func TestInventoryService_List_LowStockFlag(t *testing.T) {
	svc := NewInventoryService(newStubRegistry(productFixture()), zerolog.Nop())

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if views[0].LowStock {
		t.Fatal("oak board is above min stock")
	}
	if !views[1].LowStock {
		t.Fatal("walnut slab is below min stock")
	}
}

func TestInventoryService_Create(t *testing.T) {
	reg := newStubRegistry(productFixture())
	svc := NewInventoryService(reg, zerolog.Nop())

	view, err := svc.Create(context.Background(), ports.ProductInput{
		Name: "Brass hinge", Category: "hardware", Stock: 50, MinStock: 10, Unit: "pcs",
	}, "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Ids 1 and 5 exist; max+1 is 6.
	if view.ID != 6 {
		t.Fatalf("expected id 6, got %d", view.ID)
	}
	if len(reg.doc.Products) != 3 {
		t.Fatalf("expected 3 products persisted, got %d", len(reg.doc.Products))
	}
}

func TestInventoryService_Update_PartialMerge(t *testing.T) {
	reg := newStubRegistry(productFixture())
	svc := NewInventoryService(reg, zerolog.Nop())

	stock := 20
	view, err := svc.Update(context.Background(), 1, ports.ProductUpdateInput{Stock: &stock}, "admin")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if view.Stock != 20 {
		t.Fatalf("expected stock 20, got %d", view.Stock)
	}
	// Untouched fields survive the merge.
	if view.Name != "Oak board" || view.Category != "wood" || view.Unit != "pcs" {
		t.Fatalf("merge clobbered fields: %+v", view)
	}
	if view.UpdatedAt == nil {
		t.Fatal("expected updatedAt to be stamped")
	}
}

func TestInventoryService_AdjustStock(t *testing.T) {
	reg := newStubRegistry(productFixture())
	svc := NewInventoryService(reg, zerolog.Nop())

	view, err := svc.AdjustStock(context.Background(), 1, -4, "admin")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if view.Stock != 6 {
		t.Fatalf("expected stock 6, got %d", view.Stock)
	}

	// Stock may go negative.
	view, err = svc.AdjustStock(context.Background(), 5, -10, "admin")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if view.Stock != -9 {
		t.Fatalf("expected stock -9, got %d", view.Stock)
	}
	if !view.LowStock {
		t.Fatal("negative stock must flag low stock")
	}
}

func TestInventoryService_AdjustStock_NotFound(t *testing.T) {
	svc := NewInventoryService(newStubRegistry(productFixture()), zerolog.Nop())

	if _, err := svc.AdjustStock(context.Background(), 99, 1, "admin"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestInventoryService_Delete(t *testing.T) {
	reg := newStubRegistry(productFixture())
	svc := NewInventoryService(reg, zerolog.Nop())

	if err := svc.Delete(context.Background(), 5, "admin"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(reg.doc.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(reg.doc.Products))
	}
	if err := svc.Delete(context.Background(), 5, "admin"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestInventoryService_Create_PutFailurePropagates(t *testing.T) {
	reg := newStubRegistry(productFixture())
	reg.putErr = func(domain.CollectionKey) error { return domain.ErrVersionConflict }
	svc := NewInventoryService(reg, zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.ProductInput{Name: "x", Category: "y", Unit: "pcs"}, "admin")
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if len(reg.doc.Products) != 2 {
		t.Fatal("failed create must not change the stub document")
	}
}
