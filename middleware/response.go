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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// octetStream is the Content-Type fallback for unrecognized file extensions.
const octetStream = "application/octet-stream"

// Response is a (status, headers, body) triple with a streamable body.
// Build one with NewResponse or FileResponse and emit it with Write.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers, defaults already merged.
	Header http.Header

	// Body streams the response body. May be nil for an empty body.
	Body io.ReadCloser

	// Size is the body length in bytes, or -1 when unknown.
	Size int64
}

// mergeHeader combines the middleware defaults with call-specific headers;
// call-specific values win on key collision.
func (m *Middleware) mergeHeader(h http.Header) http.Header {
	merged := m.defaultHeader.Clone()
	if merged == nil {
		merged = make(http.Header)
	}
	for key, values := range h {
		merged.Del(key)
		for _, v := range values {
			merged.Add(key, v)
		}
	}
	return merged
}

// NewResponse builds a response from a plain text body. A zero status means
// the middleware's default status; header entries override the defaults on
// key collision. The body string becomes a single streamable chunk,
// satisfying the body contract of Write.
//
// Example:
//
//	resp := m.NewResponse("forbidden", nil, http.StatusForbidden)
//	resp.Write(w)
func (m *Middleware) NewResponse(body string, header http.Header, status int) *Response {
	if status == 0 {
		status = m.defaultStatus
	}

	return &Response{
		Status: status,
		Header: m.mergeHeader(header),
		Body:   io.NopCloser(strings.NewReader(body)),
		Size:   int64(len(body)),
	}
}

// FileResponse opens the file at path for streaming and builds a response
// for it. The Content-Type header is inferred from the file extension,
// falling back to application/octet-stream for unrecognized extensions; a
// call-specific Content-Type wins over the inferred one.
//
// A missing file returns an error wrapping ErrNotFound. Other I/O errors
// (permissions, etc.) pass through so callers can distinguish them.
//
// Example:
//
//	resp, err := m.FileResponse("./public/logo.png", nil, 0)
//	if errors.Is(err, middleware.ErrNotFound) {
//	    m.Forward(w, r)
//	    return
//	}
func (m *Middleware) FileResponse(path string, header http.Header, status int) (*Response, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	if status == 0 {
		status = m.defaultStatus
	}

	merged := m.mergeHeader(header)
	if merged.Get("Content-Type") == "" {
		merged.Set("Content-Type", ContentTypeByExt(path))
	}

	return &Response{
		Status: status,
		Header: merged,
		Body:   f,
		Size:   info.Size(),
	}, nil
}

// Write emits the response triple to the writer and closes the body.
// A known body size sets Content-Length before the body streams.
func (r *Response) Write(w http.ResponseWriter) error {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if r.Size >= 0 && w.Header().Get("Content-Length") == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(r.Size, 10))
	}

	w.WriteHeader(r.Status)

	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	if _, err := io.Copy(w, r.Body); err != nil {
		return fmt.Errorf("writing response body: %w", err)
	}
	return nil
}

// WriteHead emits only the status and headers, closing the body unread.
// Used for HEAD requests.
func (r *Response) WriteHead(w http.ResponseWriter) error {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if r.Size >= 0 && w.Header().Get("Content-Length") == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(r.Size, 10))
	}

	w.WriteHeader(r.Status)

	if r.Body != nil {
		return r.Body.Close()
	}
	return nil
}

// ContentTypeByExt resolves a MIME type from a file extension, falling back
// to application/octet-stream when the extension is unrecognized.
//
// Examples:
//
//	"logo.png"  → "image/png"
//	"notes.txt" → "text/plain; charset=utf-8"
//	"blob"      → "application/octet-stream"
func ContentTypeByExt(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return octetStream
}

// IsNotExist reports whether err indicates a missing file, covering both
// ErrNotFound from this package and raw fs errors.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
