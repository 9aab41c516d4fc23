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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// Context carries a single request through the handler chain. It wraps the
// incoming request and the response writer and provides helpers for writing
// responses.
//
// A Context is valid only for the duration of the request that created it.
type Context struct {
	// Request is the incoming HTTP request.
	Request *http.Request

	// Response is the response writer. It implements ResponseInfo, so the
	// final status code and size are observable after handlers run.
	Response http.ResponseWriter

	handlers []HandlerFunc
	index    int
	aborted  bool
	app      *App
	logger   *slog.Logger
}

// Next executes the next handler in the chain. Middleware calls Next to
// continue execution; if Next is not called, the remaining handlers do not
// run.
//
// Example middleware:
//
//	func Auth() webapp.HandlerFunc {
//	    return func(c *webapp.Context) {
//	        if !authenticated(c.Request) {
//	            c.Status(http.StatusUnauthorized)
//	            c.Abort()
//	            return
//	        }
//	        c.Next()
//	    }
//	}
func (c *Context) Next() {
	c.index++
	for c.index < len(c.handlers) {
		if c.aborted {
			return
		}
		if err := c.Request.Context().Err(); err != nil {
			return // context canceled or deadline exceeded
		}
		c.handlers[c.index](c)
		c.index++
	}
}

// Abort stops the handler chain from executing any further handlers.
// Handlers that already ran are unaffected.
func (c *Context) Abort() {
	c.aborted = true
}

// IsAborted returns true if the handler chain has been aborted.
func (c *Context) IsAborted() bool {
	return c.aborted
}

// Status writes the HTTP status code with no body.
// It is a no-op if headers were already written.
func (c *Context) Status(code int) {
	if rw, ok := c.Response.(*responseWriter); ok {
		if !rw.Written() {
			c.Response.WriteHeader(code)
		}
		return
	}
	c.Response.WriteHeader(code)
}

// writeHead sets the status code unless headers were already written.
func (c *Context) writeHead(code int) {
	c.Status(code)
}

// String sends a plain text response with the given status code.
// The value is written as-is; use Stringf for formatting.
func (c *Context) String(code int, value string) error {
	if c.Response.Header().Get("Content-Type") == "" {
		c.Response.Header().Set("Content-Type", "text/plain")
	}
	c.writeHead(code)

	if _, err := c.Response.Write([]byte(value)); err != nil {
		return fmt.Errorf("writing string response: %w", err)
	}
	return nil
}

// Stringf sends a formatted plain text response with the given status code.
func (c *Context) Stringf(code int, format string, values ...any) error {
	if c.Response.Header().Get("Content-Type") == "" {
		c.Response.Header().Set("Content-Type", "text/plain")
	}
	c.writeHead(code)

	if _, err := fmt.Fprintf(c.Response, format, values...); err != nil {
		return fmt.Errorf("writing formatted string response: %w", err)
	}
	return nil
}

// JSON sends a JSON response with the given status code.
//
// The value is encoded to a buffer first, so an encoding failure returns an
// error before any headers are written.
func (c *Context) JSON(code int, obj any) error {
	var buf bytes.Buffer
	buf.Grow(256)
	if err := json.NewEncoder(&buf).Encode(obj); err != nil {
		return fmt.Errorf("JSON encoding failed for type %T: %w", obj, err)
	}

	c.Response.Header().Set("Content-Type", "application/json")
	c.writeHead(code)

	if _, err := c.Response.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing JSON response: %w", err)
	}
	return nil
}

// HTML sends an HTML response with the given status code.
func (c *Context) HTML(code int, html string) error {
	c.Response.Header().Set("Content-Type", "text/html")
	c.writeHead(code)

	if _, err := c.Response.Write([]byte(html)); err != nil {
		return fmt.Errorf("writing HTML response: %w", err)
	}
	return nil
}

// Data sends raw bytes with the given status code and content type.
func (c *Context) Data(code int, contentType string, data []byte) error {
	if contentType != "" {
		c.Response.Header().Set("Content-Type", contentType)
	}
	c.writeHead(code)

	if _, err := c.Response.Write(data); err != nil {
		return fmt.Errorf("writing data response: %w", err)
	}
	return nil
}

// Header sets a response header. Values containing CR or LF are rejected to
// prevent header injection; the header is silently dropped and a warning is
// logged through the request logger.
func (c *Context) Header(key, value string) {
	for _, r := range value {
		if r == '\r' || r == '\n' {
			c.Logger().Warn("header value dropped: contains newline",
				"key", key, "path", c.Request.URL.Path)
			return
		}
	}
	c.Response.Header().Set(key, value)
}

// Query returns the first query parameter value for the given key,
// or the empty string.
func (c *Context) Query(key string) string {
	return c.Request.URL.Query().Get(key)
}

// QueryDefault returns the query parameter value for key, or defaultValue
// if the parameter is absent.
func (c *Context) QueryDefault(key, defaultValue string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return defaultValue
}

// FormValue returns the form value for the given key.
func (c *Context) FormValue(key string) string {
	return c.Request.FormValue(key)
}

// Redirect sends an HTTP redirect to the given location.
func (c *Context) Redirect(code int, location string) {
	http.Redirect(c.Response, c.Request, location, code)
}

// NoContent sends a 204 No Content response.
func (c *Context) NoContent() {
	c.Status(http.StatusNoContent)
}

// NotFound sends an empty-bodied 404 response. "Not found" is a normal
// response at this layer, not an error.
func (c *Context) NotFound() {
	c.Status(http.StatusNotFound)
}

// ServeFile serves the named file, handling Range requests, If-Modified-Since,
// and Content-Type detection.
func (c *Context) ServeFile(filepath string) {
	http.ServeFile(c.Response, c.Request, filepath)
}

// SetCookie adds a Set-Cookie header to the response.
func (c *Context) SetCookie(name, value string, maxAge int, path, domain string, secure, httpOnly bool) {
	http.SetCookie(c.Response, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     path,
		Domain:   domain,
		Secure:   secure,
		HttpOnly: httpOnly,
	})
}

// GetCookie returns the value of the named request cookie.
func (c *Context) GetCookie(name string) (string, error) {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return "", fmt.Errorf("reading cookie %q: %w", name, err)
	}
	return cookie.Value, nil
}

// StatusCode returns the response status code written so far,
// or 200 if nothing was written yet.
func (c *Context) StatusCode() int {
	if info, ok := c.Response.(ResponseInfo); ok {
		return info.StatusCode()
	}
	return http.StatusOK
}

// ResponseSize returns the number of body bytes written so far.
func (c *Context) ResponseSize() int64 {
	if info, ok := c.Response.(ResponseInfo); ok {
		return info.Size()
	}
	return 0
}

// Logger returns the request-scoped logger. Without WithLogger configured on
// the application this is a no-op logger, so handlers can log unconditionally.
func (c *Context) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return noopLogger
}
