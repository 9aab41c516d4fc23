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
	"strings"
)

// mount associates a path prefix with a sub-application.
type mount struct {
	prefix     string // normalized: leading slash, no trailing slash ("/" for root)
	handler    http.Handler
	middleware []HandlerFunc // extra middleware for this mount
	name       string        // observability label; defaults to prefix + "/*"
}

// MountOption configures how a sub-application is mounted.
type MountOption func(*mount)

// WithMountMiddleware adds middleware that runs only for requests forwarded
// to this mount. It runs after the application's global middleware and
// before the sub-application.
func WithMountMiddleware(mw ...HandlerFunc) MountOption {
	return func(m *mount) {
		m.middleware = append(m.middleware, mw...)
	}
}

// WithMountName sets the label used for this mount in metrics and traces.
// The default is the mount prefix followed by "/*".
//
// Example:
//
//	a.Mount("/tests/subapp", sub, webapp.WithMountName("subapp"))
func WithMountName(name string) MountOption {
	return func(m *mount) {
		m.name = name
	}
}

// originalPathKey is the context key under which the pre-mount request path
// is preserved.
type originalPathKey struct{}

// OriginalPath returns the full request path as seen before any mount prefix
// was stripped. For requests that never passed through a mount it returns
// the current request path.
//
// This lets code inside a mounted sub-application reconstruct full URLs:
//
//	sub.GET("/hello", func(c *webapp.Context) {
//	    full := webapp.OriginalPath(c.Request) // "/tests/subapp/hello"
//	    ...
//	})
func OriginalPath(r *http.Request) string {
	if p, ok := r.Context().Value(originalPathKey{}).(string); ok {
		return p
	}
	return r.URL.Path
}

// normalizeMountPrefix canonicalizes a mount prefix: leading slash ensured,
// trailing slash trimmed. The root prefix stays "/".
func normalizeMountPrefix(prefix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return "/"
	}
	if prefix[0] != '/' {
		prefix = "/" + prefix
	}
	return prefix
}

// Mount registers a sub-application at a path prefix. Requests whose path
// falls under the prefix are forwarded to the sub-application with the
// prefix stripped from the path it sees; the original full path remains
// queryable via OriginalPath. A trailing slash on the prefix is ignored:
// "/tests/subapp/" and "/tests/subapp" are the same mount point.
//
// Any http.Handler can be mounted, including another *App. Mounting a new
// handler at an existing prefix replaces the earlier one (last write wins).
// When mount prefixes nest, the longest matching prefix wins.
//
// Block routes take precedence over mounts: a route registered on the parent
// that matches the request path exactly is dispatched before any mount is
// consulted.
//
// Example:
//
//	sub := webapp.MustNew()
//	sub.GET("/hello", func(c *webapp.Context) {
//	    c.String(http.StatusOK, "hello from "+webapp.OriginalPath(c.Request))
//	})
//
//	a := webapp.MustNew()
//	a.Mount("/tests/subapp", sub)
//	// GET /tests/subapp/hello → sub sees GET /hello
//	// GET /tests/subapp/      → sub sees GET /
func (a *App) Mount(prefix string, handler http.Handler, opts ...MountOption) {
	a.checkMutable()
	if handler == nil {
		panic(ErrNilHandler)
	}

	m := &mount{
		prefix:  normalizeMountPrefix(prefix),
		handler: handler,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.name == "" {
		if m.prefix == "/" {
			m.name = "/*"
		} else {
			m.name = m.prefix + "/*"
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Remounting the same prefix replaces the earlier sub-application.
	for i, existing := range a.mounts {
		if existing.prefix == m.prefix {
			a.mounts[i] = m
			return
		}
	}
	a.mounts = append(a.mounts, m)
	a.sortMounts()
}

// matches reports whether path falls under the mount prefix on a segment
// boundary. "/tests/subapp" matches "/tests/subapp" and "/tests/subapp/x"
// but not "/tests/subapplication".
func (m *mount) matches(path string) bool {
	if m.prefix == "/" {
		return true
	}
	return path == m.prefix || strings.HasPrefix(path, m.prefix+"/")
}

// requestForMount clones the request with the mount prefix stripped from the
// URL path, preserving the original path in the request context. The clone
// leaves the caller's request untouched, matching http.StripPrefix semantics.
func (m *mount) requestForMount(r *http.Request) *http.Request {
	stripped := strings.TrimPrefix(r.URL.Path, m.prefix)
	if stripped == "" || stripped[0] != '/' {
		stripped = "/" + stripped
	}

	ctx := r.Context()
	// The outermost mount records the original path; nested mounts keep it.
	if _, ok := ctx.Value(originalPathKey{}).(string); !ok {
		ctx = context.WithValue(ctx, originalPathKey{}, r.URL.Path)
	}

	r2 := r.Clone(ctx)
	r2.URL.Path = stripped
	if r.URL.RawPath != "" {
		rawStripped := strings.TrimPrefix(r.URL.RawPath, m.prefix)
		if rawStripped == "" || rawStripped[0] != '/' {
			rawStripped = "/" + rawStripped
		}
		r2.URL.RawPath = rawStripped
	}
	return r2
}

// handlerFunc adapts the mount into a HandlerFunc so the global middleware
// chain applies to mounted requests as well.
func (m *mount) handlerFunc() HandlerFunc {
	return func(c *Context) {
		m.handler.ServeHTTP(c.Response, m.requestForMount(c.Request))
	}
}
