package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// OrderService implements order CRUD on top of the registry, including the
// stock decrement that follows order completion.
type OrderService struct {
	registry ports.Registry
	log      zerolog.Logger
}

func NewOrderService(registry ports.Registry, log zerolog.Logger) *OrderService {
	return &OrderService{registry: registry, log: log}
}

// List returns orders newest first, optionally filtered by status. The status
// is an open string: filtering by a value no order carries matches nothing
// rather than failing.
func (s *OrderService) List(_ context.Context, status string) ([]ports.OrderView, error) {
	orders := s.registry.Orders()

	views := make([]ports.OrderView, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		if status != "" && status != "all" && string(o.Status) != status {
			continue
		}
		views = append(views, orderView(o))
	}
	return views, nil
}

func (s *OrderService) Get(_ context.Context, id int) (*ports.OrderView, error) {
	for _, o := range s.registry.Orders() {
		if o.ID == id {
			v := orderView(o)
			return &v, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

// Create appends a new pending order. New orders always use the multi-item
// shape; the legacy shape only ever enters through old documents.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderView, error) {
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, domain.OrderItem{Material: it.Material, Quantity: it.Quantity})
	}

	order := domain.Order{
		ID:           s.registry.GenerateID(domain.CollectionOrders),
		CustomerName: in.CustomerName,
		Email:        in.Email,
		Phone:        in.Phone,
		Pickup:       in.Pickup,
		Message:      in.Message,
		Status:       domain.OrderPending,
		Lines:        domain.OrderLines{Items: items},
		CreatedAt:    time.Now().UTC(),
	}

	orders := append(s.registry.Orders(), order)
	commit := domain.Commit{
		Message: fmt.Sprintf("New order #%d from %s", order.ID, order.CustomerName),
		Actor:   in.Actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionOrders, orders, commit); err != nil {
		return nil, err
	}

	s.log.Info().Int("order_id", order.ID).Str("customer", order.CustomerName).Msg("order created")
	v := orderView(order)
	return &v, nil
}

// ChangeStatus updates an order's status. Moving to completed additionally
// decrements each line's matching product stock in a second write; the two
// writes are sequential and not atomic, so a failed stock write leaves the
// order completed and is reported through the result instead of rolled back.
func (s *OrderService) ChangeStatus(ctx context.Context, id int, status, actor string) (*ports.StatusChangeResult, error) {
	orders := s.registry.Orders()
	idx := -1
	for i, o := range orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrOrderNotFound
	}

	now := time.Now().UTC()
	orders[idx].Status = domain.OrderStatus(status)
	orders[idx].UpdatedAt = &now

	commit := domain.Commit{
		Message: fmt.Sprintf("Order #%d marked %s", id, status),
		Actor:   actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionOrders, orders, commit); err != nil {
		return nil, err
	}

	result := &ports.StatusChangeResult{Order: orderView(orders[idx])}
	if domain.OrderStatus(status) == domain.OrderCompleted {
		if err := s.decrementStock(ctx, orders[idx], actor); err != nil {
			result.StockUpdateFailed = true
			result.StockUpdateError = err.Error()
			s.log.Warn().Err(err).Int("order_id", id).Msg("stock decrement not persisted")
		}
	}
	return result, nil
}

// decrementStock reduces each ordered product's stock by the ordered
// quantity, matching products by name. Lines without a matching product are
// skipped, and stock may go negative.
func (s *OrderService) decrementStock(ctx context.Context, order domain.Order, actor string) error {
	products := s.registry.Products()
	now := time.Now().UTC()
	changed := false

	for _, item := range order.Lines.Display() {
		for i, p := range products {
			if p.Name == item.Material {
				products[i].Stock -= item.Quantity
				products[i].UpdatedAt = &now
				changed = true
				break
			}
		}
	}
	if !changed {
		return nil
	}

	commit := domain.Commit{
		Message: fmt.Sprintf("Stock adjustment for order #%d", order.ID),
		Actor:   actor,
	}
	return s.registry.Put(ctx, domain.CollectionProducts, products, commit)
}

func (s *OrderService) Delete(ctx context.Context, id int, actor string) error {
	orders := s.registry.Orders()
	kept := orders[:0]
	for _, o := range orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(orders) {
		return domain.ErrOrderNotFound
	}

	commit := domain.Commit{
		Message: fmt.Sprintf("Delete order #%d", id),
		Actor:   actor,
	}
	return s.registry.Put(ctx, domain.CollectionOrders, kept, commit)
}

func orderView(o domain.Order) ports.OrderView {
	return ports.OrderView{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Phone:        o.Phone,
		Pickup:       o.Pickup,
		Status:       string(o.Status),
		Message:      o.Message,
		Items:        o.Lines.Display(),
		Legacy:       o.Lines.Legacy(),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
