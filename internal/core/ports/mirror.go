package ports

import (
	"context"

	"github.com/atelier-studio/registry-api/internal/core/domain"
)

// CacheMirror is the local key-value mirror of the registry: one JSON array
// per collection. It is written opportunistically after successful remote
// operations and read only when initialization exhausts its retries.
type CacheMirror interface {
	WriteCollection(ctx context.Context, key domain.CollectionKey, data []byte) error
	// ReadDocument reassembles a document from the mirrored collections.
	// Returns nil with no error when the mirror is empty.
	ReadDocument(ctx context.Context) (*domain.Document, error)
}

// MirrorJob is one pending mirror write.
type MirrorJob struct {
	Collection domain.CollectionKey
	Data       []byte
}

// MirrorEnqueuer hands mirror writes to the write-behind queue. Jobs for the
// same collection are applied in enqueue order.
type MirrorEnqueuer interface {
	Enqueue(job MirrorJob)
	EnqueueAll(jobs []MirrorJob)
}
