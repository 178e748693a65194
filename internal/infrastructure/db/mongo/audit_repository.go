package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/identity-service/internal/core/domain"
)

const auditCollection = "auth_audit"

// MongoAuditRepository appends authentication audit entries. The collection
// is write-only from the service's point of view.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	Email     string `bson:"email"`
	Action    string `bson:"action"`
	Success   bool   `bson:"success"`
	Reason    string `bson:"reason,omitempty"`
	RemoteIP  string `bson:"remote_ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`
	At        int64  `bson:"at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := mongoAuthEvent{
		Email:     event.Email,
		Action:    event.Action,
		Success:   event.Success,
		Reason:    event.Reason,
		RemoteIP:  event.RemoteIP,
		UserAgent: event.UserAgent,
		At:        event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
