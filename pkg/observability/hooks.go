// Package observability lets an application watch what SlideCraft does
// without the libraries depending on a metrics or tracing backend.
//
// Three hook sets exist: [PipelineHooks] for generation, rendering and
// export, [CacheHooks] for the artifact and image cache, and [HTTPHooks] for
// outgoing requests to the generator endpoint and image hosts. Each starts
// as a no-op. main installs real implementations once, before any work
// starts; [LogHooks] is the bundled one.
//
//	observability.NewLogHooks(logger).Install()
//
// Libraries fetch the current set at the call site:
//
//	hooks := observability.Pipeline()
//	hooks.OnExportStart(ctx, th.Name, len(slides))
//	// ...
//	hooks.OnExportComplete(ctx, th.Name, len(blob), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives generation, render and export events.
type PipelineHooks interface {
	// Operation is "generate", or an update operation such as "edit",
	// "remove" or "regenerate".
	OnGenerateStart(ctx context.Context, operation string)
	// fallback reports whether the offline template produced the deck.
	OnGenerateComplete(ctx context.Context, operation string, slides int, fallback bool, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string, slides int)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)

	OnExportStart(ctx context.Context, theme string, slides int)
	OnExportComplete(ctx context.Context, theme string, size int, duration time.Duration, err error)
}

// CacheHooks receives cache events. keyType is the key namespace, for
// example "artifact" or "image".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives outgoing HTTP client events.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError is called when no response arrived at all.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, string) {}

func (NoopPipelineHooks) OnGenerateComplete(context.Context, string, int, bool, time.Duration, error) {
}

func (NoopPipelineHooks) OnRenderStart(context.Context, []string, int) {}

func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

func (NoopPipelineHooks) OnExportStart(context.Context, string, int) {}

func (NoopPipelineHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string) {}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (NoopHTTPHooks) OnError(context.Context, string, string, string, error) {}

// registry holds the installed hook sets.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	r := &registry{}
	r.reset()
	return r
}

func (r *registry) reset() {
	r.pipeline = NoopPipelineHooks{}
	r.cache = NoopCacheHooks{}
	r.http = NoopHTTPHooks{}
}

// SetPipelineHooks installs h. A nil h keeps the current hooks.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h. A nil h keeps the current hooks.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetHTTPHooks installs h. A nil h keeps the current hooks.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset puts the no-op hooks back. Tests call it in cleanup.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.reset()
}
