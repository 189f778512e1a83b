// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends to the resolution core.
// Consumers register hooks at startup to receive events about collection,
// resolution and rendering.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [PromHooks] is the bundled Prometheus implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    prom := observability.NewPromHooks()
//	    observability.SetPipelineHooks(prom)
//	    observability.SetCacheHooks(prom)
//	    // ... run application
//	    _ = prom.WriteTextfile("nmgraph.prom")
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnCollectStart(ctx, dir)
//	// ... walk node_modules ...
//	observability.Pipeline().OnCollectComplete(ctx, dir, len(instances), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the resolution pipeline.
type PipelineHooks interface {
	// Collect events
	OnCollectStart(ctx context.Context, dir string)
	OnCollectComplete(ctx context.Context, dir string, instances int, duration time.Duration, err error)

	// Resolve events
	OnResolveStart(ctx context.Context, instances int)
	OnResolveComplete(ctx context.Context, bindings int, duration time.Duration, err error)

	// OnDiagnostic records one requirement that could not be bound cleanly.
	OnDiagnostic(ctx context.Context, code string)

	// OnBuildComplete records the size of the built adjacency table.
	OnBuildComplete(ctx context.Context, nodes, edges int, duration time.Duration)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives cache usage reports.
type CacheHooks interface {
	// OnCacheStats records the hits and misses of a named cache since the
	// last report.
	OnCacheStats(ctx context.Context, cache string, hits, misses int64)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnCollectStart(context.Context, string) {}
func (NoopPipelineHooks) OnCollectComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnResolveStart(context.Context, int)                            {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnDiagnostic(context.Context, string)                           {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration)       {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheStats(context.Context, string, int64, int64) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
