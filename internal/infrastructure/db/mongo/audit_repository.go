package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atelier-studio/registry-api/internal/core/ports"
)

const auditCollection = "registry_commits"

// AuditRepository stores the registry commit trail: one record per successful
// remote write. Recording is best-effort; the registry logs and continues when
// an insert fails.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type commitDoc struct {
	Token      string `bson:"token"`
	Message    string `bson:"message"`
	Actor      string `bson:"actor,omitempty"`
	Collection string `bson:"collection"`
	At         int64  `bson:"at"`
}

// Record inserts one commit record.
func (r *AuditRepository) Record(ctx context.Context, rec ports.CommitRecord) error {
	doc := commitDoc{
		Token:      rec.Token,
		Message:    rec.Message,
		Actor:      rec.Actor,
		Collection: string(rec.Collection),
		At:         rec.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert commit record: %w", err)
	}
	return nil
}
