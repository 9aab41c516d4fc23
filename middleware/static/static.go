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

// Package static serves files from one or more public directories ahead of
// a downstream application.
//
// GET and HEAD requests are checked against each configured root in order;
// the first root containing the requested file serves it. Requests for
// anything else, and requests no root can satisfy, forward to the wrapped
// application. Chain it ahead of a routing application so static assets
// short-circuit before dynamic dispatch:
//
//	a := webapp.MustNew()
//	a.GET("/api/ping", pingHandler)
//
//	h := static.MustNew(a,
//	    static.WithRoot("./public"),
//	    static.WithRoot("./themes/default/public"),
//	)
//	http.ListenAndServe(":8080", h)
package static

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"rivaas.dev/webapp/middleware"
)

// Handler serves static files from public directory roots, forwarding
// everything it cannot serve to the wrapped application.
type Handler struct {
	*middleware.Middleware

	roots    []string
	index    string
	logger   *slog.Logger
	baseOpts []middleware.Option
}

// Option defines functional options for the static handler.
type Option func(*Handler)

// WithRoot appends a public directory root. Roots are searched in the order
// they were added; the first root containing the requested file wins.
func WithRoot(dir string) Option {
	return func(h *Handler) {
		h.roots = append(h.roots, dir)
	}
}

// WithRoots appends several public directory roots at once.
func WithRoots(dirs ...string) Option {
	return func(h *Handler) {
		h.roots = append(h.roots, dirs...)
	}
}

// WithIndexFile sets the file served when the request path resolves to a
// directory, e.g. "index.html". Without it, directory requests forward
// downstream.
func WithIndexFile(name string) Option {
	return func(h *Handler) {
		h.index = name
	}
}

// WithLogger sets the logger used for body write failures. Without it,
// write failures (typically client disconnects) are dropped.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMiddlewareOptions forwards options to the underlying middleware base,
// e.g. default headers applied to every served file.
//
// Example:
//
//	static.MustNew(app,
//	    static.WithRoot("./public"),
//	    static.WithMiddlewareOptions(
//	        middleware.WithDefaultHeader("Cache-Control", "public, max-age=3600"),
//	    ),
//	)
func WithMiddlewareOptions(opts ...middleware.Option) Option {
	return func(h *Handler) {
		h.baseOpts = append(h.baseOpts, opts...)
	}
}

// New creates a static file handler wrapping the downstream application.
// At least one root must be configured.
func New(next http.Handler, opts ...Option) (*Handler, error) {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	if len(h.roots) == 0 {
		return nil, errors.New("static: at least one public directory root is required")
	}

	base, err := middleware.New(next, h.baseOpts...)
	if err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}
	h.Middleware = base

	return h, nil
}

// MustNew is like New but panics on error.
func MustNew(next http.Handler, opts ...Option) *Handler {
	h, err := New(next, opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// ServeHTTP serves the request from the first root containing the file, or
// forwards it downstream. Path traversal attempts are rejected with an
// empty-bodied 400 and never reach the filesystem or the downstream app.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.Forward(w, r)
		return
	}

	for _, root := range h.roots {
		resolved, err := middleware.ResolveWithin(root, r.URL.Path)
		if err != nil {
			if errors.Is(err, middleware.ErrTraversal) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			// Unescapable garbage cannot name a file in any root.
			h.Forward(w, r)
			return
		}

		if h.serveResolved(w, r, resolved) {
			return
		}
	}

	h.Forward(w, r)
}

// serveResolved attempts to serve one resolved filesystem path.
// Returns false when the path cannot be served from this root.
func (h *Handler) serveResolved(w http.ResponseWriter, r *http.Request, resolved string) bool {
	info, err := os.Stat(resolved)
	if err != nil {
		return false
	}
	if info.IsDir() {
		if h.index == "" {
			return false
		}
		resolved = filepath.Join(resolved, h.index)
		if _, err := os.Stat(resolved); err != nil {
			return false
		}
	}

	resp, err := h.FileResponse(resolved, nil, 0)
	if err != nil {
		return false
	}

	if r.Method == http.MethodHead {
		err = resp.WriteHead(w)
	} else {
		err = resp.Write(w)
	}
	if err != nil && h.logger != nil {
		h.logger.Debug("static file write failed",
			"path", r.URL.Path, "file", resolved, "err", err)
	}
	return true
}
