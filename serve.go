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
	"context"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Route label sentinels used for metrics and traces when a request is not
// handled by a block route.
const (
	defaultRouteLabel  = "_default"
	notFoundRouteLabel = "_not_found"
)

// ServeHTTP implements http.Handler.
//
// The first request freezes the route and mount tables; registration after
// that point panics. Dispatch order:
//
//  1. Block routes in declaration order; the first (method, pattern) match
//     wins and its handler chain runs.
//  2. Mounts, longest prefix first. The matched sub-application receives the
//     request with the mount prefix stripped; OriginalPath still reports the
//     full path.
//  3. The default handler, if registered.
//  4. Otherwise an empty-bodied 404. No body, no error: an unmatched request
//     is a normal outcome for this layer.
//
// Global middleware wraps cases 1–3. The bare 404 bypasses the chain, so the
// empty body is guaranteed.
func (a *App) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	a.frozen.Store(true)

	rw := &responseWriter{ResponseWriter: w}
	start := time.Now()

	ctx, span := a.startSpan(req)
	if span != nil {
		req = req.WithContext(ctx)
	}

	label := a.dispatch(rw, req)

	a.finishSpan(span, req, label, rw.StatusCode())
	if a.metrics != nil {
		a.metrics.record(req.Method, label, rw.StatusCode(), time.Since(start))
	}
}

// dispatch routes the request and returns the route label used for
// observability.
func (a *App) dispatch(rw *responseWriter, req *http.Request) string {
	a.mu.RLock()
	routes := a.routes
	mounts := a.mounts
	defaultHandler := a.defaultHandler
	middleware := a.middleware
	a.mu.RUnlock()

	path := req.URL.Path

	for _, rt := range routes {
		if rt.method == req.Method && rt.match(path) {
			a.runChain(rw, req, middleware, rt.handlers)
			return rt.pattern
		}
	}

	for _, m := range mounts {
		if m.matches(path) {
			chain := append(append([]HandlerFunc{}, m.middleware...), m.handlerFunc())
			a.runChain(rw, req, middleware, chain)
			return m.name
		}
	}

	if defaultHandler != nil {
		a.runChain(rw, req, middleware, []HandlerFunc{defaultHandler})
		return defaultRouteLabel
	}

	rw.WriteHeader(http.StatusNotFound)
	return notFoundRouteLabel
}

// runChain executes the global middleware followed by the target handlers
// on a fresh Context.
func (a *App) runChain(rw *responseWriter, req *http.Request, middleware, handlers []HandlerFunc) {
	chain := make([]HandlerFunc, 0, len(middleware)+len(handlers))
	chain = append(chain, middleware...)
	chain = append(chain, handlers...)

	c := &Context{
		Request:  req,
		Response: rw,
		handlers: chain,
		index:    -1,
		app:      a,
		logger:   a.logger,
	}
	c.Next()
}

// serverTimeouts holds HTTP server timeout configuration.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

// defaultServerTimeouts returns the default timeout configuration.
func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// Serve starts the HTTP server on the specified address. It blocks until
// the server exits; use Shutdown from another goroutine for graceful
// shutdown. H2C is enabled when configured via WithH2C.
//
// The server runs with production-safe timeouts to prevent slowloris
// attacks and resource exhaustion; override them with WithServerTimeouts.
//
// Example:
//
//	a := webapp.MustNew()
//	a.GET("/", func(c *webapp.Context) {
//	    c.String(http.StatusOK, "Hello, World!")
//	})
//
//	go func() {
//	    if err := a.Serve(":8080"); err != nil && err != http.ErrServerClosed {
//	        log.Fatal(err)
//	    }
//	}()
//
//	quit := make(chan os.Signal, 1)
//	signal.Notify(quit, os.Interrupt)
//	<-quit
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	a.Shutdown(ctx)
func (a *App) Serve(addr string) error {
	h := http.Handler(a)

	if a.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
	}

	timeouts := a.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}

	a.serverMu.Lock()
	a.server = srv
	a.serverMu.Unlock()

	return srv.ListenAndServe()
}

// ServeTLS starts the HTTPS server. HTTP/2 is enabled automatically via
// ALPN. It blocks until the server exits.
func (a *App) ServeTLS(addr, certFile, keyFile string) error {
	timeouts := a.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}

	a.serverMu.Lock()
	a.server = srv
	a.serverMu.Unlock()

	return srv.ListenAndServeTLS(certFile, keyFile)
}

// Shutdown gracefully shuts down the server without interrupting active
// connections, following the http.Server.Shutdown pattern. It returns nil
// if no server is running.
func (a *App) Shutdown(ctx context.Context) error {
	a.serverMu.Lock()
	srv := a.server
	a.server = nil
	a.serverMu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
