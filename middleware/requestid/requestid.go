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

// Package requestid provides middleware that tags each request with a unique
// identifier for log correlation.
package requestid

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"rivaas.dev/webapp"
)

type contextKey struct{}

// Option defines functional options for requestid middleware configuration.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

// generateUUIDv7 generates a UUID v7 string. UUID v7 is time-ordered and
// lexicographically sortable (RFC 9562).
func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy provides monotonic ordering within the same millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// WithHeader sets the header name carrying the request ID.
// The default is "X-Request-ID".
func WithHeader(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.headerName = name
		}
	}
}

// WithGenerator sets a custom request ID generator.
func WithGenerator(generator func() string) Option {
	return func(cfg *config) {
		if generator != nil {
			cfg.generator = generator
		}
	}
}

// WithULID switches ID generation to ULIDs: time-ordered and a compact 26
// characters.
func WithULID() Option {
	return WithGenerator(generateULID)
}

// WithAllowClientID controls whether a request ID supplied by the client in
// the configured header is trusted. Enabled by default; disable it when the
// application is directly exposed to untrusted clients.
func WithAllowClientID(allow bool) Option {
	return func(cfg *config) {
		cfg.allowClientID = allow
	}
}

// New returns middleware that assigns each request a unique ID, echoes it in
// the response header, and stores it in the request context for retrieval
// with Get.
//
// An ID already present in the request header is reused when client IDs are
// allowed; otherwise a fresh one is generated. The default generator produces
// UUID v7 values.
//
// Example:
//
//	a := webapp.MustNew()
//	a.Use(requestid.New())
//
// With ULIDs:
//
//	a.Use(requestid.New(requestid.WithULID()))
func New(opts ...Option) webapp.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *webapp.Context) {
		var id string
		if cfg.allowClientID {
			id = c.Request.Header.Get(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		c.Response.Header().Set(cfg.headerName, id)

		ctx := context.WithValue(c.Request.Context(), contextKey{}, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Get returns the request ID assigned by New, or the empty string if the
// middleware did not run.
//
// Example:
//
//	func handler(c *webapp.Context) {
//	    c.Logger().Info("processing", "request_id", requestid.Get(c))
//	}
func Get(c *webapp.Context) string {
	if id, ok := c.Request.Context().Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}
