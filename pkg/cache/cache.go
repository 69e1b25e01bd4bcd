// Package cache provides content-addressed caching for pipeline results.
//
// Layouts and consensus trees are pure functions of their inputs, so cache
// keys are derived from content hashes of the input trees plus an option
// fingerprint. Several backends implement the same small interface: a local
// file cache for CLI usage, Redis and MongoDB for hosted deployments, and a
// null cache for tests or disabled caching.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTLs.
//
// Implementations must treat a missing key as (nil, false, nil), not an
// error; errors are reserved for backend failures.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts fingerprints the option surface of a layout computation.
type LayoutKeyOpts struct {
	Orientation           string
	UseEdgeLengths        bool
	FixedOrder            []string
	FixedPosition         []float64
	XBaseline             float64
	YBaseline             float64
	MaxDaylightIterations int
}

// ConsensusKeyOpts fingerprints the option surface of a consensus run.
type ConsensusKeyOpts struct {
	Cutoff        float64
	ReferenceHash string
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey keys a layout result by input-tree content hash and options.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ConsensusKey keys a consensus result by collection content hash and options.
	ConsensusKey(collectionHash string, opts ConsensusKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ConsensusKey implements Keyer.
func (DefaultKeyer) ConsensusKey(collectionHash string, opts ConsensusKeyOpts) string {
	return hashKey("consensus", collectionHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, used by
// hosted deployments that share one backend between tenants.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ConsensusKey implements Keyer.
func (k *ScopedKeyer) ConsensusKey(collectionHash string, opts ConsensusKeyOpts) string {
	return k.prefix + k.inner.ConsensusKey(collectionHash, opts)
}
