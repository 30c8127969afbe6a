// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; main decides what
// receives them. The defaults do nothing, so instrumented code costs one
// interface call when nothing is registered.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, "parse", "theory")
//	// ... do parsing ...
//	observability.Pipeline().OnStageComplete(ctx, "parse", "theory", nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from pipeline stages (parse, validate,
// analyze, optimize, transform, layout, compare, export). Subject names what the
// stage ran: a parser name, layout name or transform code.
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage, subject string)
	OnStageComplete(ctx context.Context, stage, subject string, nodeCount int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request. Route is the matched pattern,
	// e.g. "/v1/layout/{name}".
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the status written for a request.
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
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

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
