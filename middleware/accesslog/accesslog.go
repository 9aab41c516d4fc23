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

// Package accesslog provides middleware that writes one structured access
// log line per request after the handler chain completes.
package accesslog

import (
	"log/slog"
	"time"

	"rivaas.dev/webapp"
)

// config holds the configuration for the access log middleware.
type config struct {
	logger *slog.Logger
	level  slog.Level
}

// Option defines functional options for access log configuration.
type Option func(*config)

// WithLogger sets the logger that receives access log entries.
// The default is the request-scoped logger from the Context.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithLevel sets the level access entries are logged at. Default: Info.
func WithLevel(level slog.Level) Option {
	return func(cfg *config) {
		cfg.level = level
	}
}

// New returns middleware that logs one canonical line per request: method,
// path, status, response size, and duration. It runs the rest of the chain
// first, so the logged status and size are final.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	a := webapp.MustNew(webapp.WithLogger(logger))
//	a.Use(accesslog.New())
func New(opts ...Option) webapp.HandlerFunc {
	cfg := &config{level: slog.LevelInfo}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *webapp.Context) {
		start := time.Now()

		c.Next()

		logger := cfg.logger
		if logger == nil {
			logger = c.Logger()
		}

		logger.Log(c.Request.Context(), cfg.level, "request",
			"method", c.Request.Method,
			"path", webapp.OriginalPath(c.Request),
			"status", c.StatusCode(),
			"size", c.ResponseSize(),
			"duration", time.Since(start),
		)
	}
}
