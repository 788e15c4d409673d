package ports

import (
	"context"

	"github.com/atelier-studio/registry-api/internal/core/domain"
)

// RemoteStore is the remote document store: one named file resource holding
// the whole registry document, guarded by an opaque version token.
type RemoteStore interface {
	// FetchDocument retrieves the current document and its version token.
	// Fails with domain.ErrRemoteUnavailable on transport or HTTP errors.
	FetchDocument(ctx context.Context) (*domain.Document, string, error)

	// WriteDocument overwrites the remote document. The token must be the one
	// returned by the last fetch or write; a stale token fails with
	// domain.ErrVersionConflict and a fresh token is returned on success.
	// Every write carries a human-readable change message.
	WriteDocument(ctx context.Context, doc *domain.Document, token, message string) (string, error)
}
