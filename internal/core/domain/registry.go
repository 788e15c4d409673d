package domain

import (
	"encoding/json"
	"time"
)

// CollectionKey names one of the entity collections inside the registry
// document.
type CollectionKey string

const (
	CollectionUsers     CollectionKey = "users"
	CollectionProducts  CollectionKey = "products"
	CollectionOrders    CollectionKey = "orders"
	CollectionCustomers CollectionKey = "customers"
	CollectionQuotes    CollectionKey = "quotes"
)

// CollectionKeys lists every collection in document order.
var CollectionKeys = []CollectionKey{
	CollectionUsers,
	CollectionProducts,
	CollectionOrders,
	CollectionCustomers,
	CollectionQuotes,
}

// Metadata is the free-form bookkeeping block persisted under "_metadata".
type Metadata struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version,omitempty"`
	Note        string    `json:"note,omitempty"`
}

// Document is the single registry document: every collection plus metadata,
// persisted remotely as one JSON file.
type Document struct {
	Users     []User     `json:"users"`
	Products  []Product  `json:"products"`
	Orders    []Order    `json:"orders"`
	Customers []Customer `json:"customers"`
	Quotes    []Quote    `json:"quotes"`
	Metadata  Metadata   `json:"_metadata"`
}

// Commit describes a single registry write: the human-readable change message
// sent to the remote store and the acting username. The actor is threaded
// explicitly from the session, never read from a global.
type Commit struct {
	Message string
	Actor   string
}

// NextID returns the next entity id for a collection: 1 when empty, otherwise
// max(existing ids)+1. Only safe under the repository's single-writer lock.
func (d *Document) NextID(key CollectionKey) int {
	max := 0
	for _, id := range d.ids(key) {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (d *Document) ids(key CollectionKey) []int {
	var ids []int
	switch key {
	case CollectionUsers:
		for _, u := range d.Users {
			ids = append(ids, u.ID)
		}
	case CollectionProducts:
		for _, p := range d.Products {
			ids = append(ids, p.ID)
		}
	case CollectionOrders:
		for _, o := range d.Orders {
			ids = append(ids, o.ID)
		}
	case CollectionCustomers:
		for _, c := range d.Customers {
			ids = append(ids, c.ID)
		}
	case CollectionQuotes:
		for _, q := range d.Quotes {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Set replaces the named collection. The value must be the slice type of that
// collection.
func (d *Document) Set(key CollectionKey, value any) error {
	switch key {
	case CollectionUsers:
		v, ok := value.([]User)
		if !ok {
			return ErrUnknownCollection
		}
		d.Users = v
	case CollectionProducts:
		v, ok := value.([]Product)
		if !ok {
			return ErrUnknownCollection
		}
		d.Products = v
	case CollectionOrders:
		v, ok := value.([]Order)
		if !ok {
			return ErrUnknownCollection
		}
		d.Orders = v
	case CollectionCustomers:
		v, ok := value.([]Customer)
		if !ok {
			return ErrUnknownCollection
		}
		d.Customers = v
	case CollectionQuotes:
		v, ok := value.([]Quote)
		if !ok {
			return ErrUnknownCollection
		}
		d.Quotes = v
	default:
		return ErrUnknownCollection
	}
	return nil
}

// CollectionJSON serializes one collection as a JSON array, the shape the
// cache mirror stores per key.
func (d *Document) CollectionJSON(key CollectionKey) ([]byte, error) {
	switch key {
	case CollectionUsers:
		return json.Marshal(d.Users)
	case CollectionProducts:
		return json.Marshal(d.Products)
	case CollectionOrders:
		return json.Marshal(d.Orders)
	case CollectionCustomers:
		return json.Marshal(d.Customers)
	case CollectionQuotes:
		return json.Marshal(d.Quotes)
	}
	return nil, ErrUnknownCollection
}

// Clone returns a deep copy. Snapshots handed out by the repository must not
// alias the live document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := &Document{
		Users:     append([]User(nil), d.Users...),
		Products:  append([]Product(nil), d.Products...),
		Customers: append([]Customer(nil), d.Customers...),
		Quotes:    append([]Quote(nil), d.Quotes...),
		Metadata:  d.Metadata,
	}
	c.Orders = CloneOrders(d.Orders)
	return c
}

// CloneOrders deep-copies an order slice, including per-order line items.
func CloneOrders(orders []Order) []Order {
	if orders == nil {
		return nil
	}
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
