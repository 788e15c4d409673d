package ports

import (
	"context"
	"time"

	"github.com/atelier-studio/registry-api/internal/core/domain"
)

// CommitRecord is one entry in the registry write audit trail.
type CommitRecord struct {
	Token      string
	Message    string
	Actor      string
	Collection domain.CollectionKey
	At         time.Time
}

// AuditTrail records registry commits. Recording is best-effort: failures are
// logged by the caller and never fail the write itself.
type AuditTrail interface {
	Record(ctx context.Context, rec CommitRecord) error
}
