package share

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // Connection string, e.g. "mongodb://localhost:27017"
	Database   string // Database name
	Collection string // Collection name, defaults to "shares"
}

// MongoStore is a MongoDB-backed share store for production deployments.
// Multiple server instances share one collection.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Collection == "" {
		cfg.Collection = "shares"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		col:    client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a share by ID. Expired shares are removed and reported
// as missing.
func (s *MongoStore) Get(ctx context.Context, id string) (*Share, error) {
	var sh Share
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sh)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find share: %w", err)
	}

	if sh.IsExpired() {
		_, _ = s.col.DeleteOne(ctx, bson.M{"_id": id})
		return nil, nil
	}
	return &sh, nil
}

// Set stores a share, replacing any existing share with the same ID.
func (s *MongoStore) Set(ctx context.Context, sh *Share) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": sh.ID}, sh, opts); err != nil {
		return fmt.Errorf("store share: %w", err)
	}
	return nil
}

// Delete removes a share.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	return nil
}

// Cleanup removes expired shares.
func (s *MongoStore) Cleanup(ctx context.Context) error {
	filter := bson.M{"expires_at": bson.M{"$lt": time.Now()}}
	if _, err := s.col.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("cleanup shares: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
