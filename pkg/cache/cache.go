// Package cache provides result caching for replay runs and rendered
// artifacts. Recomputing a chain of partition steps is cheap per step but a
// long replay over a large graph is not, so the replay runner stores final
// statistic values and rendered images keyed by content hashes of its
// inputs.
package cache

import (
	"context"
	"time"
)

// Cache TTLs per entry kind. Entries are keyed by content hashes, so they
// never go stale; the TTLs only bound disk growth.
const (
	TTLStats  = 30 * 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RenderKeyOpts carries the rendering options that affect artifact bytes.
type RenderKeyOpts struct {
	Format string
}

// Keyer generates cache keys for the things flipgraph caches. Keys are built
// from content hashes, never file paths, so moving an input file does not
// poison the cache.
type Keyer interface {
	// StatsKey identifies one updater's final value for a replay: the
	// graph, the initial assignment, and the step sequence pin the result.
	StatsKey(graphHash, replayHash, updater string) string

	// RenderKey identifies a rendered artifact for one partition state.
	RenderKey(graphHash, assignHash string, opts RenderKeyOpts) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// StatsKey generates a key for a cached statistic value.
func (k *DefaultKeyer) StatsKey(graphHash, replayHash, updater string) string {
	return hashKey("stats", graphHash, replayHash, updater)
}

// RenderKey generates a key for a cached rendered artifact.
func (k *DefaultKeyer) RenderKey(graphHash, assignHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, assignHash, opts)
}
