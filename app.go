// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package webapp

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
)

// HandlerFunc is the handler contract for block routes, middleware, and the
// default handler. Handlers receive a per-request Context and write their
// response through it.
type HandlerFunc func(*Context)

// Option defines functional options for application configuration.
type Option func(*App)

// App is the application base. It holds an ordered route table, a mount
// table for sub-applications, an optional default handler, and a global
// middleware chain. App implements http.Handler.
//
// Routes, mounts, and the default handler are registered at definition time.
// The tables freeze on the first request; registration after that point
// panics with ErrFrozen. This makes configuration and serving mutually
// exclusive phases, so no locking is needed on the hot path beyond a
// read-side snapshot.
//
// Dispatch order for an incoming request:
//
//  1. Block routes, in declaration order; first match wins.
//  2. Mounted sub-applications, longest prefix first.
//  3. The default handler, if one was registered.
//  4. An empty-bodied 404 response.
type App struct {
	mu             sync.RWMutex
	routes         []*route
	mounts         []*mount
	defaultHandler HandlerFunc
	middleware     []HandlerFunc
	frozen         atomic.Bool

	logger  *slog.Logger
	metrics *metricsRecorder
	tracer  trace.Tracer

	enableH2C      bool
	serverTimeouts *serverTimeouts

	serverMu sync.Mutex
	server   *http.Server
}

// route is a single entry in the ordered route table.
type route struct {
	method   string
	pattern  string
	handlers []HandlerFunc

	// wildcard patterns end in "/*"; prefix is the pattern with the "*"
	// removed, retaining the trailing slash.
	wildcard bool
	prefix   string
}

// match reports whether the route matches the given path.
// The method is checked by the caller.
func (rt *route) match(path string) bool {
	if rt.wildcard {
		return strings.HasPrefix(path, rt.prefix) || path == strings.TrimSuffix(rt.prefix, "/")
	}
	return rt.pattern == path
}

// New creates a new application with optional configuration.
//
// The returned App is ready to use: register routes, mounts, and a default
// handler, then serve it with http.ListenAndServe or App.Serve.
//
// Returns an error if the configuration is invalid. Configuration is
// validated at startup rather than at request time.
//
// Example:
//
//	a, err := webapp.New(webapp.WithLogger(logger))
//	if err != nil {
//	    log.Fatalf("invalid application configuration: %v", err)
//	}
//	a.GET("/health", healthHandler)
func New(opts ...Option) (*App, error) {
	a := &App{
		logger: noopLogger,
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("application configuration validation failed: %w", err)
	}

	return a, nil
}

// MustNew is like New but panics if the configuration is invalid.
// Intended for program initialization where a bad configuration is fatal.
//
// Example:
//
//	a := webapp.MustNew()
//	a.GET("/", indexHandler)
func MustNew(opts ...Option) *App {
	a, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// validate checks the configured options.
func (a *App) validate() error {
	if t := a.serverTimeouts; t != nil {
		if t.readHeader <= 0 || t.read <= 0 || t.write <= 0 || t.idle <= 0 {
			return ErrServerTimeoutInvalid
		}
	}
	return nil
}

// checkMutable panics if the application has started serving.
func (a *App) checkMutable() {
	if a.frozen.Load() {
		panic(ErrFrozen)
	}
}

// normalizePattern ensures a leading slash on route patterns.
func normalizePattern(pattern string) string {
	if pattern == "" || pattern[0] != '/' {
		return "/" + pattern
	}
	return pattern
}

// Handle registers handlers for the given HTTP method and path pattern.
//
// Patterns are matched in declaration order; the first matching route wins.
// A pattern is either an exact path ("/users") or a prefix wildcard ending
// in "/*" ("/assets/*"). Registering the same (method, pattern) pair again
// replaces the earlier handlers in place, keeping the original position in
// the match order (last write wins).
//
// When multiple handlers are given, they form a per-route chain executed
// via Context.Next, with any global middleware running first.
//
// Handle panics with ErrFrozen if called after the first request, and with
// ErrNilHandler if no handlers are given.
func (a *App) Handle(method, pattern string, handlers ...HandlerFunc) {
	a.checkMutable()
	if len(handlers) == 0 {
		panic(ErrNilHandler)
	}

	pattern = normalizePattern(pattern)
	rt := &route{
		method:   method,
		pattern:  pattern,
		handlers: handlers,
	}
	if strings.HasSuffix(pattern, "/*") {
		rt.wildcard = true
		rt.prefix = strings.TrimSuffix(pattern, "*")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Re-registration of the same method+pattern replaces in place.
	for i, existing := range a.routes {
		if existing.method == method && existing.pattern == pattern {
			a.routes[i] = rt
			return
		}
	}
	a.routes = append(a.routes, rt)
}

// GET registers handlers for GET requests at the given pattern.
func (a *App) GET(pattern string, handlers ...HandlerFunc) {
	a.Handle(http.MethodGet, pattern, handlers...)
}

// POST registers handlers for POST requests at the given pattern.
func (a *App) POST(pattern string, handlers ...HandlerFunc) {
	a.Handle(http.MethodPost, pattern, handlers...)
}

// PUT registers handlers for PUT requests at the given pattern.
func (a *App) PUT(pattern string, handlers ...HandlerFunc) {
	a.Handle(http.MethodPut, pattern, handlers...)
}

// DELETE registers handlers for DELETE requests at the given pattern.
func (a *App) DELETE(pattern string, handlers ...HandlerFunc) {
	a.Handle(http.MethodDelete, pattern, handlers...)
}

// PATCH registers handlers for PATCH requests at the given pattern.
func (a *App) PATCH(pattern string, handlers ...HandlerFunc) {
	a.Handle(http.MethodPatch, pattern, handlers...)
}

// HEAD registers handlers for HEAD requests at the given pattern.
func (a *App) HEAD(pattern string, handlers ...HandlerFunc) {
	a.Handle(http.MethodHead, pattern, handlers...)
}

// OPTIONS registers handlers for OPTIONS requests at the given pattern.
func (a *App) OPTIONS(pattern string, handlers ...HandlerFunc) {
	a.Handle(http.MethodOptions, pattern, handlers...)
}

// Default sets the fallback handler invoked when no route and no mount
// matches a request. Setting it again replaces the previous handler
// (last write wins). Exactly one default handler is active at a time.
//
// Without a default handler, unmatched requests receive an empty-bodied
// 404 response.
//
// Example:
//
//	a.Default(func(c *webapp.Context) {
//	    c.String(http.StatusOK, "nothing here, but that's fine")
//	})
func (a *App) Default(handler HandlerFunc) {
	a.checkMutable()
	if handler == nil {
		panic(ErrNilHandler)
	}

	a.mu.Lock()
	a.defaultHandler = handler
	a.mu.Unlock()
}

// Use appends middleware to the global chain. Global middleware runs ahead
// of route handlers, mounted sub-applications, and the default handler.
// Middleware calls Context.Next to continue the chain and Context.Abort to
// stop it.
//
// Example:
//
//	a.Use(accesslog.New(), recovery.New())
func (a *App) Use(mw ...HandlerFunc) {
	a.checkMutable()

	a.mu.Lock()
	a.middleware = append(a.middleware, mw...)
	a.mu.Unlock()
}

// RouteInfo describes a registered route for introspection.
type RouteInfo struct {
	Method  string
	Pattern string
}

// Routes returns a snapshot of the registered block routes in declaration
// order. Mounts and the default handler are not included.
func (a *App) Routes() []RouteInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()

	infos := make([]RouteInfo, 0, len(a.routes))
	for _, rt := range a.routes {
		infos = append(infos, RouteInfo{Method: rt.method, Pattern: rt.pattern})
	}
	return infos
}

// sortMounts orders the mount table longest-prefix-first so that the most
// specific mount wins when prefixes nest. Callers must hold a.mu.
func (a *App) sortMounts() {
	sort.SliceStable(a.mounts, func(i, j int) bool {
		return len(a.mounts[i].prefix) > len(a.mounts[j].prefix)
	})
}
