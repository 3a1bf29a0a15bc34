// Package observability carries optional instrumentation for molline.
//
// Three hook families exist: [SerializeHooks] for the parse and serialize
// stages of the pipeline, [CacheHooks] for result lookups, and [HTTPHooks]
// for the API server. Each starts as a no-op; the serve command installs
// the Prometheus implementation from the [prom] subpackage:
//
//	m := prom.New(reg)
//	m.Register()
//	defer observability.Reset()
//
// Emitting an event never fails and never blocks on a backend:
//
//	start := time.Now()
//	observability.Serialize().OnSerializeStart(ctx, atoms)
//	res, err := line.Serialize(m, opts)
//	observability.Serialize().OnSerializeComplete(ctx, atoms, len(res.Warnings), time.Since(start), err)
//
// The graph, parser and writer packages stay free of hooks.
//
// [prom]: github.com/matzehuels/molline/pkg/observability/prom
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Serialize Hooks
// =============================================================================

// SerializeHooks receives events from the parse and serialize stages.
type SerializeHooks interface {
	// OnParse records reading one input record. format is "smiles" or "json".
	OnParse(ctx context.Context, format string, atoms int, duration time.Duration, err error)

	// Serialize events
	OnSerializeStart(ctx context.Context, atoms int)
	OnSerializeComplete(ctx context.Context, atoms, warnings int, duration time.Duration, err error)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request. route is the matched pattern,
	// not the raw path.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSerializeHooks is a no-op implementation of SerializeHooks.
type NoopSerializeHooks struct{}

func (NoopSerializeHooks) OnParse(context.Context, string, int, time.Duration, error)          {}
func (NoopSerializeHooks) OnSerializeStart(context.Context, int)                               {}
func (NoopSerializeHooks) OnSerializeComplete(context.Context, int, int, time.Duration, error) {}

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
// Global Hook Registry
// =============================================================================

var (
	serializeHooks SerializeHooks = NoopSerializeHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetSerializeHooks installs h. A nil h is ignored.
func SetSerializeHooks(h SerializeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serializeHooks = h
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks installs h before the server starts. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Serialize returns the registered serialize hooks.
func Serialize() SerializeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serializeHooks
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

// Reset restores the no-op hooks. serve calls it on shutdown so a second
// server in the same process starts clean.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	serializeHooks = NoopSerializeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
