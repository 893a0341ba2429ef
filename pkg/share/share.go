// Package share provides persistent storage for shared network snapshots.
//
// A share pairs a network snapshot with the document rendered from it, under
// a stable identifier that can be handed to someone else. The API host
// creates shares on request and serves them back until they expire.
//
// # Architecture
//
// Shares are immutable once created. The Store interface supports:
//   - Get/Set/Delete operations
//   - Automatic expiration checking
//   - Cleanup of expired shares
//
// Two backends are provided:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// # Usage
//
// Create a share store:
//
//	// Development
//	store := share.NewMemoryStore()
//
//	// Production
//	store, err := share.NewMongoStore(ctx, share.MongoConfig{
//	    URI:      "mongodb://localhost:27017",
//	    Database: "bgpfig",
//	})
//
// Manage shares:
//
//	sh := share.New("lab topology", snapshot, document, share.DefaultTTL)
//	if err := store.Set(ctx, sh); err != nil {
//	    return err
//	}
//
//	sh, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sh == nil {
//	    // Share not found or expired
//	}
package share

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Share stores a network snapshot together with its rendered document.
type Share struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name,omitempty" bson:"name,omitempty"`
	Snapshot  json.RawMessage `json:"snapshot" bson:"snapshot"`
	Document  string          `json:"document,omitempty" bson:"document,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time       `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the share has expired.
func (s *Share) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for share storage backends.
type Store interface {
	// Get retrieves a share by ID.
	// Returns nil, nil if the share doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Share, error)

	// Set stores a share, replacing any existing share with the same ID.
	Set(ctx context.Context, sh *Share) error

	// Delete removes a share. Deleting a missing share is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired shares (optional, may be no-op for backends
	// with native expiry).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the default share duration.
const DefaultTTL = 30 * 24 * time.Hour

// New creates a new share with a generated identifier.
func New(name string, snapshot json.RawMessage, document string, ttl time.Duration) *Share {
	now := time.Now()
	return &Share{
		ID:        uuid.NewString(),
		Name:      name,
		Snapshot:  snapshot,
		Document:  document,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
