// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about replay execution, cache
// operations, and rendering.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetChainHooks(&myChainHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Chain().OnStepStart(ctx, index, flips)
//	// ... merge the step ...
//	observability.Chain().OnStepComplete(ctx, index, flips, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Chain Hooks
// =============================================================================

// ChainHooks receives events from partition chain execution.
type ChainHooks interface {
	// Replay events
	OnReplayStart(ctx context.Context, nodeCount, stepCount int)
	OnReplayComplete(ctx context.Context, stepCount int, duration time.Duration, err error)

	// Step events: one merge per step, flips counts the proposed moves.
	OnStepStart(ctx context.Context, index, flips int)
	OnStepComplete(ctx context.Context, index, flips int, duration time.Duration, err error)

	// Updater events, fired per evaluated statistic.
	OnUpdaterComplete(ctx context.Context, name string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from partition rendering.
type RenderHooks interface {
	// OnRenderStart records the beginning of a render.
	OnRenderStart(ctx context.Context, format string, nodeCount int)

	// OnRenderComplete records a finished render.
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopChainHooks is a no-op implementation of ChainHooks.
type NoopChainHooks struct{}

func (NoopChainHooks) OnReplayStart(context.Context, int, int)                          {}
func (NoopChainHooks) OnReplayComplete(context.Context, int, time.Duration, error)      {}
func (NoopChainHooks) OnStepStart(context.Context, int, int)                            {}
func (NoopChainHooks) OnStepComplete(context.Context, int, int, time.Duration, error)   {}
func (NoopChainHooks) OnUpdaterComplete(context.Context, string, time.Duration, error)  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                  {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	chainHooks  ChainHooks  = NoopChainHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	hooksMu     sync.RWMutex
)

// SetChainHooks registers custom chain hooks.
// This should be called once at application startup before any replays.
func SetChainHooks(h ChainHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		chainHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any rendering.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Chain returns the registered chain hooks.
func Chain() ChainHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return chainHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	chainHooks = NoopChainHooks{}
	cacheHooks = NoopCacheHooks{}
	renderHooks = NoopRenderHooks{}
}
