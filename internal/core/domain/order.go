package domain

import (
	"encoding/json"
	"time"
)

// OrderStatus is an open string enum: the known values drive workflow, but
// unrecognized values coming out of older documents must still round-trip and
// render.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
)

// Known reports whether the status is one of the workflow values.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderPending, OrderReady, OrderCompleted:
		return true
	}
	return false
}

// OrderItem is a single requested line: a material name and a quantity.
type OrderItem struct {
	Material string `json:"material"`
	Quantity int    `json:"quantity"`
}

// OrderLines is a tagged variant over the two historical order shapes.
// Legacy orders carried a single productName/quantity pair; current orders
// carry an items array. Exactly one arm is populated, and each order writes
// back in the shape it was read in.
type OrderLines struct {
	// Legacy arm.
	ProductName string
	Quantity    int
	// Current arm.
	Items []OrderItem
}

// Legacy reports whether this order uses the old single-item shape.
func (l OrderLines) Legacy() bool {
	return len(l.Items) == 0 && l.ProductName != ""
}

// Display normalizes either shape into a uniform list of items, the only view
// the rest of the system aggregates or renders from.
func (l OrderLines) Display() []OrderItem {
	if l.Legacy() {
		return []OrderItem{{Material: l.ProductName, Quantity: l.Quantity}}
	}
	return l.Items
}

// TotalQuantity sums the quantities across all lines.
func (l OrderLines) TotalQuantity() int {
	total := 0
	for _, it := range l.Display() {
		total += it.Quantity
	}
	return total
}

// Order is a customer pickup order.
type Order struct {
	ID           int
	CustomerName string
	Email        string
	Phone        string
	Pickup       string
	Status       OrderStatus
	Message      string
	Lines        OrderLines
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Clone deep-copies the order, including its line items.
func (o Order) Clone() Order {
	c := o
	if o.Lines.Items != nil {
		c.Lines.Items = append([]OrderItem(nil), o.Lines.Items...)
	}
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}

// orderJSON is the wire form covering both historical shapes.
type orderJSON struct {
	ID           int         `json:"id"`
	CustomerName string      `json:"customerName"`
	Email        string      `json:"email,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Pickup       string      `json:"pickup,omitempty"`
	Status       OrderStatus `json:"status"`
	Message      string      `json:"message,omitempty"`
	ProductName  string      `json:"productName,omitempty"`
	Quantity     int         `json:"quantity,omitempty"`
	Items        []OrderItem `json:"items,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    *time.Time  `json:"updatedAt,omitempty"`
}

func (o Order) MarshalJSON() ([]byte, error) {
	w := orderJSON{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Phone:        o.Phone,
		Pickup:       o.Pickup,
		Status:       o.Status,
		Message:      o.Message,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if o.Lines.Legacy() {
		w.ProductName = o.Lines.ProductName
		w.Quantity = o.Lines.Quantity
	} else {
		w.Items = o.Lines.Items
	}
	return json.Marshal(w)
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var w orderJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*o = Order{
		ID:           w.ID,
		CustomerName: w.CustomerName,
		Email:        w.Email,
		Phone:        w.Phone,
		Pickup:       w.Pickup,
		Status:       w.Status,
		Message:      w.Message,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
	if len(w.Items) > 0 {
		o.Lines = OrderLines{Items: w.Items}
	} else {
		o.Lines = OrderLines{ProductName: w.ProductName, Quantity: w.Quantity}
	}
	return nil
}
