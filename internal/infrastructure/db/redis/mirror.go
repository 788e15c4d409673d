package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/atelier-studio/registry-api/internal/core/domain"
)

const keyNamespace = "atelier"

// Mirror is the cache mirror backed by Redis: one key per collection
// (atelier_users, atelier_products, …), each holding the JSON-serialized
// collection array. Entries carry no TTL; the mirror is only as fresh as the
// last successful remote operation.
type Mirror struct {
	client *redis.Client
}

// NewMirror creates a Mirror wrapping the given Redis client.
func NewMirror(client *redis.Client) *Mirror {
	return &Mirror{client: client}
}

// WriteCollection stores one collection's JSON array under its namespaced key.
func (m *Mirror) WriteCollection(ctx context.Context, key domain.CollectionKey, data []byte) error {
	if err := m.client.Set(ctx, m.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("mirror write %s: %w", key, err)
	}
	return nil
}

// ReadDocument reassembles a registry document from the mirrored collections.
// Returns nil when no collection has ever been mirrored.
func (m *Mirror) ReadDocument(ctx context.Context) (*domain.Document, error) {
	doc := &domain.Document{}
	found := false

	for _, key := range domain.CollectionKeys {
		raw, err := m.client.Get(ctx, m.key(key)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("mirror read %s: %w", key, err)
		}
		found = true
		if err := unmarshalCollection(doc, key, raw); err != nil {
			return nil, fmt.Errorf("mirror read %s: %w", key, err)
		}
	}

	if !found {
		return nil, nil
	}
	return doc, nil
}

func unmarshalCollection(doc *domain.Document, key domain.CollectionKey, raw []byte) error {
	switch key {
	case domain.CollectionUsers:
		return json.Unmarshal(raw, &doc.Users)
	case domain.CollectionProducts:
		return json.Unmarshal(raw, &doc.Products)
	case domain.CollectionOrders:
		return json.Unmarshal(raw, &doc.Orders)
	case domain.CollectionCustomers:
		return json.Unmarshal(raw, &doc.Customers)
	case domain.CollectionQuotes:
		return json.Unmarshal(raw, &doc.Quotes)
	}
	return domain.ErrUnknownCollection
}

func (m *Mirror) key(key domain.CollectionKey) string {
	return fmt.Sprintf("%s_%s", keyNamespace, key)
}
