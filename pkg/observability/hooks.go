// Package observability provides hooks for metrics, tracing, and logging.
//
// The core packages stay free of observability backends; consumers register
// hook implementations at startup and the pipeline, cache, and API layers
// emit events through the registry. No-op defaults mean instrumentation is
// strictly opt-in.
//
// # Usage
//
// Register hooks before running any pipeline operations:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries emit events through the accessors:
//
//	observability.Pipeline().OnStageStart(ctx, "layout", nodeCount)
//	// ... compute coordinates ...
//	observability.Pipeline().OnStageComplete(ctx, "layout", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from pipeline stages. Stage names are
// "decode", "consensus", "layout", and "export".
type PipelineHooks interface {
	// OnStageStart records that a stage began processing size nodes
	// (or, for consensus, size input trees).
	OnStageStart(ctx context.Context, stage string, size int)

	// OnStageComplete records stage completion with its duration and
	// terminal error, if any.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is "layout" or
// "consensus".
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write of size bytes.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// API Hooks
// =============================================================================

// APIHooks receives events from the HTTP API server.
type APIHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string, int)                     {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopAPIHooks is a no-op implementation of APIHooks.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string)                            {}
func (NoopAPIHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	apiHooks      APIHooks      = NoopAPIHooks{}
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
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetAPIHooks registers custom API hooks.
// This should be called once at application startup before serving requests.
func SetAPIHooks(h APIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		apiHooks = h
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

// API returns the registered API hooks.
func API() APIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return apiHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	apiHooks = NoopAPIHooks{}
}
