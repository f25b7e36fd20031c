package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

const stateCollection = "client_state"

// StateRepository implements ports.KeyValueStore with one document per key.
type StateRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewStateRepository(db *mongo.Database) *StateRepository {
	return &StateRepository{coll: db.Collection(stateCollection), now: time.Now}
}

type stateDoc struct {
	Key       string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (r *StateRepository) Get(ctx context.Context, key string) (string, error) {
	var doc stateDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("find state %s: %w", key, err)
	}
	return doc.Value, nil
}

func (r *StateRepository) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{
		"value":      value,
		"updated_at": r.now().Unix(),
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert state %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}

// Ping checks the server behind the repository's database.
func (r *StateRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
