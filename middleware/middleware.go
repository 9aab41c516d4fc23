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

package middleware

import (
	"fmt"
	"net/http"
)

// Middleware is the base for Rack-style middleware. It holds a reference to
// the wrapped downstream application, a default HTTP status for helper-built
// responses, and default headers merged into every helper-built response.
//
// The zero value is not usable; construct with New or MustNew. Configuration
// is fixed at construction, except through the WithSetup callback and the
// SetDefaultStatus/SetDefaultHeader accessors, which are intended for
// post-construction configuration before the middleware serves its first
// request. They are not synchronized for concurrent use during serving.
type Middleware struct {
	next          http.Handler
	defaultStatus int
	defaultHeader http.Header
	setup         func(*Middleware)
}

// Option defines functional options for middleware construction.
type Option func(*Middleware)

// WithDefaultStatus sets the HTTP status used when a helper builds a
// response without specifying one. The default is 200 OK.
func WithDefaultStatus(code int) Option {
	return func(m *Middleware) {
		m.defaultStatus = code
	}
}

// WithDefaultHeader adds a single header merged into every helper-built
// response. Call-specific headers win on key collision.
func WithDefaultHeader(key, value string) Option {
	return func(m *Middleware) {
		m.defaultHeader.Set(key, value)
	}
}

// WithDefaultHeaders merges a header map into the default response headers.
func WithDefaultHeaders(h http.Header) Option {
	return func(m *Middleware) {
		for key, values := range h {
			for _, v := range values {
				m.defaultHeader.Add(key, v)
			}
		}
	}
}

// WithSetup registers a callback that may mutate the middleware after all
// other options have been applied and before first use, e.g. to add headers
// computed from the environment.
//
// Example:
//
//	m := middleware.MustNew(app, middleware.WithSetup(func(m *middleware.Middleware) {
//	    m.SetDefaultHeader("X-Served-By", hostname)
//	}))
func WithSetup(fn func(*Middleware)) Option {
	return func(m *Middleware) {
		m.setup = fn
	}
}

// New creates a middleware wrapping the given downstream handler.
// Returns ErrNilNext if next is nil.
//
// Example:
//
//	m, err := middleware.New(app,
//	    middleware.WithDefaultStatus(http.StatusOK),
//	    middleware.WithDefaultHeader("Cache-Control", "no-cache"),
//	)
func New(next http.Handler, opts ...Option) (*Middleware, error) {
	if next == nil {
		return nil, fmt.Errorf("middleware construction failed: %w", ErrNilNext)
	}

	m := &Middleware{
		next:          next,
		defaultStatus: http.StatusOK,
		defaultHeader: make(http.Header),
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.setup != nil {
		m.setup(m)
	}

	return m, nil
}

// MustNew is like New but panics on error. Intended for stack assembly at
// program initialization.
func MustNew(next http.Handler, opts ...Option) *Middleware {
	m, err := New(next, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Forward passes the request to the wrapped downstream application
// unmodified. This is the pass-through default; embedding types override
// ServeHTTP for the requests they care about and call Forward for the rest.
func (m *Middleware) Forward(w http.ResponseWriter, r *http.Request) {
	m.next.ServeHTTP(w, r)
}

// ServeHTTP makes the base middleware itself a transparent http.Handler.
func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.Forward(w, r)
}

// Next returns the wrapped downstream handler.
func (m *Middleware) Next() http.Handler {
	return m.next
}

// DefaultStatus returns the status used for helper-built responses that do
// not specify one.
func (m *Middleware) DefaultStatus() int {
	return m.defaultStatus
}

// SetDefaultStatus changes the default status. Intended for
// post-construction configuration before serving begins.
func (m *Middleware) SetDefaultStatus(code int) {
	m.defaultStatus = code
}

// DefaultHeader returns the default response headers. The returned map is
// the live header set; mutating it changes the defaults.
func (m *Middleware) DefaultHeader() http.Header {
	return m.defaultHeader
}

// SetDefaultHeader sets one default response header. Intended for
// post-construction configuration before serving begins.
func (m *Middleware) SetDefaultHeader(key, value string) {
	m.defaultHeader.Set(key, value)
}
