package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoBucket binds a Bucket to its document identity.
type mongoBucket struct {
	Key    string `bson:"_id"`
	Bucket `bson:",inline"`
}

// MongoStore persists buckets in a MongoDB collection, one document per key,
// replaced whole on every decision.
//
// It is a plain Store with the same accepted lost-update window as the other
// shared stores. Idle documents are expired by MongoDB itself once
// EnsureIndexes has created the TTL index.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a store backed by the given collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the TTL index that expires buckets untouched for
// longer than ttl. Idempotent; call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl / time.Second)),
	})
	if err != nil {
		return fmt.Errorf("create bucket ttl index: %w", err)
	}
	return nil
}

// Get returns the bucket stored for key, or (nil, nil) when no document
// exists.
func (s *MongoStore) Get(ctx context.Context, key string) (*Bucket, error) {
	var doc mongoBucket
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Bucket, nil
}

// Set upserts the whole document for key.
func (s *MongoStore) Set(ctx context.Context, key string, bucket *Bucket) error {
	doc := mongoBucket{Key: key, Bucket: *bucket}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

// Reset deletes the document for key. Absent keys are a no-op.
func (s *MongoStore) Reset(ctx context.Context, key string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Healthcheck verifies MongoDB connectivity with a ping. Suitable for
// readiness probes.
func (s *MongoStore) Healthcheck(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}
