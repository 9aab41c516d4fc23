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
	"log/slog"
	"time"
)

// WithLogger sets the structured logger used for request-scoped logging via
// Context.Logger. Without it, a no-op logger is used and handlers can log
// unconditionally.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	a := webapp.MustNew(webapp.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithH2C enables HTTP/2 Cleartext support for Serve.
//
// Only use in development or behind a trusted load balancer; do not enable
// on public-facing servers without TLS.
//
// Example:
//
//	a := webapp.MustNew(webapp.WithH2C(true))
//	a.Serve(":8080")
func WithH2C(enable bool) Option {
	return func(a *App) {
		a.enableH2C = enable
	}
}

// WithServerTimeouts configures HTTP server timeouts for Serve and ServeTLS.
// All values must be positive; configuration is validated by New.
//
// Defaults (if not set):
//
//	ReadHeaderTimeout: 5s
//	ReadTimeout:       15s
//	WriteTimeout:      30s
//	IdleTimeout:       60s
//
// Example:
//
//	a := webapp.MustNew(webapp.WithServerTimeouts(
//	    10*time.Second,  // ReadHeaderTimeout
//	    30*time.Second,  // ReadTimeout
//	    60*time.Second,  // WriteTimeout
//	    120*time.Second, // IdleTimeout
//	))
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(a *App) {
		a.serverTimeouts = &serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}
