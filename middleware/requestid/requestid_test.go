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

package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/webapp"
)

func TestGeneratesUUIDv7ByDefault(t *testing.T) {
	t.Parallel()

	var got string
	a := webapp.MustNew()
	a.Use(New())
	a.GET("/", func(c *webapp.Context) {
		got = Get(c)
		c.NoContent()
	})

	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, got)
	assert.Equal(t, got, rec.Header().Get("X-Request-ID"))

	id, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestReusesClientID(t *testing.T) {
	t.Parallel()

	a := webapp.MustNew()
	a.Use(New())
	a.GET("/", func(c *webapp.Context) { c.NoContent() })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied")

	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	assert.Equal(t, "client-supplied", rec.Header().Get("X-Request-ID"))
}

func TestDisallowClientID(t *testing.T) {
	t.Parallel()

	a := webapp.MustNew()
	a.Use(New(WithAllowClientID(false)))
	a.GET("/", func(c *webapp.Context) { c.NoContent() })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied")

	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "client-supplied", got)
}

func TestWithULID(t *testing.T) {
	t.Parallel()

	a := webapp.MustNew()
	a.Use(New(WithULID()))
	a.GET("/", func(c *webapp.Context) { c.NoContent() })

	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	got := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, got)

	_, err := ulid.Parse(got)
	assert.NoError(t, err)
}

func TestWithHeader(t *testing.T) {
	t.Parallel()

	a := webapp.MustNew()
	a.Use(New(WithHeader("X-Correlation-ID")))
	a.GET("/", func(c *webapp.Context) { c.NoContent() })

	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
	assert.Empty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetWithoutMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	a := webapp.MustNew()
	a.GET("/", func(c *webapp.Context) {
		got = Get(c)
		c.NoContent()
	})

	a.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, got)
}
