package cache

// ScopedKeyer wraps a Keyer with a prefix so separate projects or runs can
// share one cache directory without colliding.
//
// Example usage:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "proj:iowa:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// StatsKey generates a prefixed key for a cached statistic value.
func (k *ScopedKeyer) StatsKey(graphHash, replayHash, updater string) string {
	return k.prefix + k.inner.StatsKey(graphHash, replayHash, updater)
}

// RenderKey generates a prefixed key for a cached rendered artifact.
func (k *ScopedKeyer) RenderKey(graphHash, assignHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, assignHash, opts)
}
