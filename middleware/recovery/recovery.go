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

// Package recovery provides middleware that recovers from panics in the
// handler chain, logs them, and responds 500 Internal Server Error.
package recovery

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"rivaas.dev/webapp"
)

// config holds the configuration for the recovery middleware.
type config struct {
	logger *slog.Logger
	stack  bool
}

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

// WithLogger sets the logger used for recovered panics.
// The default is the request-scoped logger from the Context.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithoutStackTrace disables logging the goroutine stack with each
// recovered panic. Enabled by default.
func WithoutStackTrace() Option {
	return func(cfg *config) {
		cfg.stack = false
	}
}

// New returns middleware that recovers panics from later handlers in the
// chain. The client receives a 500 response with an empty body unless the
// panicking handler already wrote one.
//
// Example:
//
//	a := webapp.MustNew()
//	a.Use(recovery.New())
func New(opts ...Option) webapp.HandlerFunc {
	cfg := &config{stack: true}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *webapp.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger := cfg.logger
			if logger == nil {
				logger = c.Logger()
			}

			attrs := []any{
				"panic", r,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			}
			if cfg.stack {
				attrs = append(attrs, "stack", string(debug.Stack()))
			}
			logger.Error("panic recovered", attrs...)

			c.Status(http.StatusInternalServerError)
			c.Abort()
		}()

		c.Next()
	}
}
