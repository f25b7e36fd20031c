package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

const sessionEventCollection = "session_events"

// SessionRepository implements ports.SessionAuditor using MongoDB.
type SessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionEventCollection)}
}

// Record persists a session transition to the audit collection.
func (r *SessionRepository) Record(ctx context.Context, ev *domain.SessionEvent) error {
	doc := *ev
	doc.Timestamp = doc.Timestamp.UTC()
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert session event: %w", err)
	}
	return nil
}

// Recent returns the latest events for app, newest first.
func (r *SessionRepository) Recent(ctx context.Context, app string, limit int64) ([]domain.SessionEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"app": app}, opts)
	if err != nil {
		return nil, fmt.Errorf("find session events: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.SessionEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode session events: %w", err)
	}
	return out, nil
}
