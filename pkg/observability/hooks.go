// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about fetch attempts, version extraction, and API requests.
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
//	    observability.SetFetchHooks(&myFetchHooks{})
//	    observability.SetServeHooks(&myServeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Fetch().OnAttemptStart(ctx, attempt, url)
//	// ... do request ...
//	observability.Fetch().OnAttemptComplete(ctx, attempt, statusCode, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Fetch Hooks
// =============================================================================

// FetchHooks receives events from the version fetch lifecycle.
type FetchHooks interface {
	// OnAttemptStart records the start of one fetch attempt (1-based).
	OnAttemptStart(ctx context.Context, attempt int, url string)

	// OnAttemptComplete records the outcome of one fetch attempt.
	// statusCode is 0 when the request never produced a response.
	OnAttemptComplete(ctx context.Context, attempt int, statusCode int, duration time.Duration, err error)

	// OnFetchComplete records the outcome of the whole fetch, after retries.
	OnFetchComplete(ctx context.Context, attempts int, duration time.Duration, err error)
}

// =============================================================================
// Extract Hooks
// =============================================================================

// ExtractHooks receives events from version extraction.
type ExtractHooks interface {
	// OnExtractComplete records the result of one extraction pass:
	// how many links were inspected and how many records each channel got.
	OnExtractComplete(ctx context.Context, links, stable, preview int)
}

// =============================================================================
// Serve Hooks
// =============================================================================

// ServeHooks receives events from the HTTP API.
type ServeHooks interface {
	// OnRequest records an incoming API request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an API response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFetchHooks is a no-op implementation of FetchHooks.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnAttemptStart(context.Context, int, string)                       {}
func (NoopFetchHooks) OnAttemptComplete(context.Context, int, int, time.Duration, error) {}
func (NoopFetchHooks) OnFetchComplete(context.Context, int, time.Duration, error)        {}

// NoopExtractHooks is a no-op implementation of ExtractHooks.
type NoopExtractHooks struct{}

func (NoopExtractHooks) OnExtractComplete(context.Context, int, int, int) {}

// NoopServeHooks is a no-op implementation of ServeHooks.
type NoopServeHooks struct{}

func (NoopServeHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServeHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	fetchHooks   FetchHooks   = NoopFetchHooks{}
	extractHooks ExtractHooks = NoopExtractHooks{}
	serveHooks   ServeHooks   = NoopServeHooks{}
	hooksMu      sync.RWMutex
)

// SetFetchHooks registers custom fetch hooks.
// This should be called once at application startup before any fetch operations.
func SetFetchHooks(h FetchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fetchHooks = h
	}
}

// SetExtractHooks registers custom extraction hooks.
// This should be called once at application startup before any extraction.
func SetExtractHooks(h ExtractHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		extractHooks = h
	}
}

// SetServeHooks registers custom API hooks.
// This should be called once at application startup before serving requests.
func SetServeHooks(h ServeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serveHooks = h
	}
}

// Fetch returns the registered fetch hooks.
func Fetch() FetchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fetchHooks
}

// Extract returns the registered extraction hooks.
func Extract() ExtractHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return extractHooks
}

// Serve returns the registered API hooks.
func Serve() ServeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serveHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	fetchHooks = NoopFetchHooks{}
	extractHooks = NoopExtractHooks{}
	serveHooks = NoopServeHooks{}
}
