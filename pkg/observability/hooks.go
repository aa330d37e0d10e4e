// Package observability provides hooks for metrics, tracing, and logging.
//
// The hooks pattern keeps the core packages free of hard dependencies on any
// observability backend: libraries emit events through no-op defaults, and
// main registers real implementations at startup.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAnalysisHooks(&myAnalysisHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Analysis().OnAggregateStart(ctx, key)
//	// ... gather facts ...
//	observability.Analysis().OnAggregateComplete(ctx, key, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// AnalysisHooks receives events from the aggregation pipeline.
type AnalysisHooks interface {
	// OnAggregateStart fires when an aggregation begins.
	OnAggregateStart(ctx context.Context, key string)

	// OnFetchComplete fires once per fact fetch, success or failure.
	OnFetchComplete(ctx context.Context, key, fact string, duration time.Duration, err error)

	// OnAggregateComplete fires when all fetches have settled.
	OnAggregateComplete(ctx context.Context, key string, duration time.Duration, err error)
}

// CacheHooks receives events from cache store operations.
type CacheHooks interface {
	// OnHit records a lookup that returned a valid entry.
	OnHit(ctx context.Context, key string)

	// OnMiss records a lookup that found nothing usable.
	OnMiss(ctx context.Context, key string)

	// OnSet records an upsert.
	OnSet(ctx context.Context, key string)

	// OnEvict records entries removed by expiry, sweep, or clear.
	OnEvict(ctx context.Context, count int)
}

// HTTPHooks receives events from the HTTP layer.
type HTTPHooks interface {
	// OnRequest fires after a request has been served.
	OnRequest(ctx context.Context, method, path string, status int, duration time.Duration)
}

// NoopAnalysisHooks is the default AnalysisHooks implementation.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnAggregateStart(context.Context, string) {}
func (NoopAnalysisHooks) OnFetchComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopAnalysisHooks) OnAggregateComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is the default CacheHooks implementation.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)   {}
func (NoopCacheHooks) OnMiss(context.Context, string)  {}
func (NoopCacheHooks) OnSet(context.Context, string)   {}
func (NoopCacheHooks) OnEvict(context.Context, int)    {}

// NoopHTTPHooks is the default HTTPHooks implementation.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

var (
	mu            sync.RWMutex
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
)

// SetAnalysisHooks registers analysis hooks. Pass nil to restore no-ops.
func SetAnalysisHooks(h AnalysisHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopAnalysisHooks{}
	}
	analysisHooks = h
}

// SetCacheHooks registers cache hooks. Pass nil to restore no-ops.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// SetHTTPHooks registers HTTP hooks. Pass nil to restore no-ops.
func SetHTTPHooks(h HTTPHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopHTTPHooks{}
	}
	httpHooks = h
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	mu.RLock()
	defer mu.RUnlock()
	return analysisHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	mu.RLock()
	defer mu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to no-ops. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
