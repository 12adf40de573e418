// Package observability lets the search, cache and API layers report events
// without importing a metrics or tracing backend. Until a command registers
// hooks every call is a no-op.
//
//	observability.SetSearchHooks(metrics.NewSearchHooks(reg))
//	observability.Search().OnSolution(ctx, 42)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from graph construction and cycle search.
type SearchHooks interface {
	// OnBuildComplete fires once the adjacency structure is built (or failed).
	OnBuildComplete(ctx context.Context, nodes, edges int, duration time.Duration, err error)

	// OnSearchStart fires before the first root is walked.
	OnSearchStart(ctx context.Context, length, nodes int)

	// OnSolution fires for every cycle found.
	OnSolution(ctx context.Context, length int)

	// OnSearchComplete fires when a pass ends, including cancelled passes.
	OnSearchComplete(ctx context.Context, length, solutions int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, backend string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, backend string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, backend string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response to a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnBuildComplete(context.Context, int, int, time.Duration, error)  {}
func (NoopSearchHooks) OnSearchStart(context.Context, int, int)                         {}
func (NoopSearchHooks) OnSolution(context.Context, int)                                 {}
func (NoopSearchHooks) OnSearchComplete(context.Context, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds one registered hook set. Loads never block a running search.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return s.noop
}

func (s *slot[T]) set(h T) { s.p.Store(&h) }

var (
	searchHooks = slot[SearchHooks]{noop: NoopSearchHooks{}}
	cacheHooks  = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpHooks   = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetSearchHooks registers search hooks. A nil h is ignored.
func SetSearchHooks(h SearchHooks) {
	if h != nil {
		searchHooks.set(h)
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.set(h)
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.set(h)
	}
}

func Search() SearchHooks { return searchHooks.get() }
func Cache() CacheHooks   { return cacheHooks.get() }
func HTTP() HTTPHooks     { return httpHooks.get() }

// Reset restores the no-op hooks.
func Reset() {
	searchHooks.p.Store(nil)
	cacheHooks.p.Store(nil)
	httpHooks.p.Store(nil)
}
