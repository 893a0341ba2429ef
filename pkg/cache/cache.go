// Package cache provides pluggable caching for rendered documents.
//
// Rendering a document is deterministic, so a document rendered once for a
// given snapshot and option set never needs to be rendered again. Backends
// trade persistence for operational cost:
//   - FileCache: directory-backed, used by the CLI
//   - RedisCache: shared, used by the API server
//   - NullCache: disabled caching
//
// Keys are derived from content hashes, never from user input, so two
// requests for the same snapshot and options share one entry regardless of
// where the snapshot came from.
package cache

import (
	"context"
	"time"
)

// TTL values for different entry types.
const (
	// TTLDocument is how long rendered documents stay cached.
	// Documents are content-addressed so staleness is impossible; the TTL
	// only bounds disk and memory growth.
	TTLDocument = 24 * time.Hour

	// TTLShare is how long share-derived documents stay cached.
	// Shares can be deleted, so these entries expire faster.
	TTLShare = time.Hour
)

// Cache is the interface all cache backends implement.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DocumentKeyOpts captures the options that affect rendered output.
// Two renders with equal snapshot hashes and equal opts produce identical
// documents, so all fields participate in the cache key.
type DocumentKeyOpts struct {
	Format   string   // Output format (tex, dot, svg, json)
	Overlays []string // Overlay switches activated after rendering
	Prefix   string   // Prefix selected after rendering, if any
	Weights  bool     // Weight labels in graph previews
}

// Keyer generates cache keys for the entry types the application stores.
// Implementations must be deterministic.
type Keyer interface {
	// DocumentKey generates a key for a rendered document.
	DocumentKey(snapshotHash string, opts DocumentKeyOpts) string

	// ShareKey generates a key for a document rendered from a stored share.
	ShareKey(id, format string) string
}

// DefaultKeyer is the standard Keyer implementation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for a rendered document.
func (k *DefaultKeyer) DocumentKey(snapshotHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", snapshotHash, opts)
}

// ShareKey generates a key for a document rendered from a stored share.
func (k *DefaultKeyer) ShareKey(id, format string) string {
	return "share:" + id + ":" + format
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
