package service

import (
	"context"

	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// stubRegistry is an in-memory ports.Registry for service tests. Put applies
// the mutation to the held document unless a scripted error is set, and every
// commit is recorded for assertions.
type stubRegistry struct {
	doc     domain.Document
	state   ports.RegistryState
	putErr  func(key domain.CollectionKey) error
	commits []domain.Commit
	putKeys []domain.CollectionKey
}

func newStubRegistry(doc domain.Document) *stubRegistry {
	return &stubRegistry{doc: doc, state: ports.StateReady}
}

func (s *stubRegistry) Initialize(ctx context.Context) error { return nil }
func (s *stubRegistry) Reload(ctx context.Context) error     { return nil }
func (s *stubRegistry) State() ports.RegistryState           { return s.state }
func (s *stubRegistry) VersionToken() string                 { return "stub-token" }
func (s *stubRegistry) Metadata() domain.Metadata            { return s.doc.Metadata }

func (s *stubRegistry) Users() []domain.User {
	return append([]domain.User(nil), s.doc.Users...)
}

func (s *stubRegistry) Products() []domain.Product {
	return append([]domain.Product(nil), s.doc.Products...)
}

func (s *stubRegistry) Orders() []domain.Order {
	return domain.CloneOrders(s.doc.Orders)
}

func (s *stubRegistry) Customers() []domain.Customer {
	return append([]domain.Customer(nil), s.doc.Customers...)
}

func (s *stubRegistry) Quotes() []domain.Quote {
	return append([]domain.Quote(nil), s.doc.Quotes...)
}

func (s *stubRegistry) GenerateID(key domain.CollectionKey) int {
	return s.doc.NextID(key)
}

func (s *stubRegistry) Put(ctx context.Context, key domain.CollectionKey, value any, commit domain.Commit) error {
	if s.putErr != nil {
		if err := s.putErr(key); err != nil {
			return err
		}
	}
	if err := s.doc.Set(key, value); err != nil {
		return err
	}
	s.commits = append(s.commits, commit)
	s.putKeys = append(s.putKeys, key)
	return nil
}
