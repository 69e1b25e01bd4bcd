package cache

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/treekit/treekit/pkg/errors"
)

// mongoEntry is the stored document shape. ExpiresAt drives a TTL index so
// Mongo reaps stale entries server-side; Get still checks the timestamp
// because the TTL monitor runs on a coarse interval.
type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// MongoCache stores entries in a MongoDB collection.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoCache connects to MongoDB and ensures the TTL index exists. The
// cache uses the given database with a fixed "cache" collection.
func NewMongoCache(ctx context.Context, uri, database string) (*MongoCache, error) {
	if database == "" {
		database = "treekit"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "pinging mongodb")
	}
	coll := client.Database(database).Collection("cache")
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating ttl index")
	}
	return &MongoCache{client: client, coll: coll}, nil
}

// Get implements [Cache].
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "reading from mongodb")
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set implements [Cache].
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		t := time.Now().Add(ttl)
		entry.ExpiresAt = &t
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing to mongodb")
	}
	return nil
}

// Delete implements [Cache].
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "deleting from mongodb")
	}
	return nil
}

// Close implements [Cache].
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}
