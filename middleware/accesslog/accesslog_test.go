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

package accesslog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/webapp"
)

// logLine is the decoded shape of one access log record.
type logLine struct {
	Msg    string `json:"msg"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`
	Size   int64  `json:"size"`
}

func TestLogsOneLinePerRequest(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	a := webapp.MustNew()
	a.Use(New(WithLogger(logger)))
	a.GET("/users", func(c *webapp.Context) {
		c.String(http.StatusAccepted, "hello")
	})

	a.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))

	var line logLine
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "request", line.Msg)
	assert.Equal(t, http.MethodGet, line.Method)
	assert.Equal(t, "/users", line.Path)
	assert.Equal(t, http.StatusAccepted, line.Status)
	assert.EqualValues(t, 5, line.Size)
}

// TestLogsOriginalPathInsideMount verifies the logged path is the full
// pre-strip path even when the middleware runs inside a mounted sub-app.
func TestLogsOriginalPathInsideMount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	sub := webapp.MustNew()
	sub.Use(New(WithLogger(logger)))
	sub.GET("/hello", func(c *webapp.Context) {
		c.NoContent()
	})

	a := webapp.MustNew()
	a.Mount("/tests/subapp", sub)

	a.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tests/subapp/hello", nil))

	var line logLine
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "/tests/subapp/hello", line.Path)
}

func TestUsesApplicationLoggerByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	a := webapp.MustNew(webapp.WithLogger(logger))
	a.Use(New())
	a.GET("/", func(c *webapp.Context) { c.NoContent() })

	a.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), `"msg":"request"`)
}

func TestWithLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := webapp.MustNew()
	a.Use(New(WithLogger(logger), WithLevel(slog.LevelDebug)))
	a.GET("/", func(c *webapp.Context) { c.NoContent() })

	a.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
}
