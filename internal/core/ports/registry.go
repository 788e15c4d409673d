package ports

import (
	"context"

	"github.com/atelier-studio/registry-api/internal/core/domain"
)

// RegistryState is the lifecycle state of the registry repository.
type RegistryState string

const (
	StateUninitialized RegistryState = "uninitialized"
	StateLoading       RegistryState = "loading"
	StateReady         RegistryState = "ready"
	// StateDegraded means the remote store was unreachable after all retries
	// and the registry runs on mirror or fallback data. Writes are accepted
	// in memory but are not durable.
	StateDegraded RegistryState = "degraded"
)

// Registry is the collection-level read/write contract the domain services
// build on. Reads return deep-copied snapshots and never block; writes commit
// the whole document to the remote store under the held version token.
type Registry interface {
	Initialize(ctx context.Context) error
	// Reload re-fetches the document and refreshes the version token. It is
	// the prescribed recovery path after a version conflict.
	Reload(ctx context.Context) error
	State() RegistryState
	VersionToken() string
	Metadata() domain.Metadata

	Users() []domain.User
	Products() []domain.Product
	Orders() []domain.Order
	Customers() []domain.Customer
	Quotes() []domain.Quote

	// GenerateID returns the next id for a collection. Callers must follow it
	// with a Put through this interface; the repository lock is the only
	// serialization point.
	GenerateID(key domain.CollectionKey) int

	Put(ctx context.Context, key domain.CollectionKey, value any, commit domain.Commit) error
}
