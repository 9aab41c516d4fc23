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
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestMetricsCountRequestsByRoute(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := MustNew(WithMetricsRegistry(reg))
	a.GET("/users", func(c *Context) { c.NoContent() })

	perform(a, http.MethodGet, "/users")
	perform(a, http.MethodGet, "/users")
	perform(a, http.MethodGet, "/missing")

	require.NotNil(t, a.metrics)

	got := testutil.ToFloat64(a.metrics.requests.WithLabelValues(http.MethodGet, "/users", "204"))
	assert.Equal(t, float64(2), got)

	notFound := testutil.ToFloat64(a.metrics.requests.WithLabelValues(http.MethodGet, notFoundRouteLabel, "404"))
	assert.Equal(t, float64(1), notFound)
}

func TestMetricsLabelUsesPatternNotPath(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := MustNew(WithMetricsRegistry(reg))
	a.GET("/assets/*", func(c *Context) { c.NoContent() })

	perform(a, http.MethodGet, "/assets/css/site.css")
	perform(a, http.MethodGet, "/assets/js/site.js")

	got := testutil.ToFloat64(a.metrics.requests.WithLabelValues(http.MethodGet, "/assets/*", "204"))
	assert.Equal(t, float64(2), got)
}

func TestMetricsDefaultAndMountLabels(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := MustNew(WithMetricsRegistry(reg))
	a.Default(func(c *Context) { c.NoContent() })

	sub := MustNew()
	sub.Default(func(c *Context) { c.NoContent() })
	a.Mount("/sub", sub, WithMountName("subapp"))

	perform(a, http.MethodGet, "/anywhere")
	perform(a, http.MethodGet, "/sub/thing")

	assert.Equal(t, float64(1),
		testutil.ToFloat64(a.metrics.requests.WithLabelValues(http.MethodGet, defaultRouteLabel, "204")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(a.metrics.requests.WithLabelValues(http.MethodGet, "subapp", "204")))
}

func TestMetricsHandlerExposition(t *testing.T) {
	t.Parallel()

	a := MustNew(WithMetrics())
	a.GET("/ping", func(c *Context) { c.String(http.StatusOK, "pong") })
	a.GET("/metrics", func(c *Context) {
		a.MetricsHandler().ServeHTTP(c.Response, c.Request)
	})

	perform(a, http.MethodGet, "/ping")

	rec := perform(a, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "webapp_requests_total")
	assert.Contains(t, rec.Body.String(), "webapp_request_duration_seconds")
}

func TestMetricsHandlerNilWhenDisabled(t *testing.T) {
	t.Parallel()

	a := MustNew()
	assert.Nil(t, a.MetricsHandler())
}

func TestTracingRecordsServerSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	a := MustNew(WithTracing(tp))
	a.GET("/users", func(c *Context) { c.String(http.StatusOK, "ok") })

	perform(a, http.MethodGet, "/users")

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "GET /users", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())

	attrs := make(map[attribute.Key]attribute.Value, len(span.Attributes()))
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "/users", attrs["http.route"].AsString())
	assert.EqualValues(t, http.StatusOK, attrs["http.response.status_code"].AsInt64())
}

func TestTracingNamesUnmatchedRequests(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	a := MustNew(WithTracing(tp))
	perform(a, http.MethodGet, "/nothing")

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET "+notFoundRouteLabel, spans[0].Name())
}

func TestTracingDisabledByDefault(t *testing.T) {
	t.Parallel()

	a := MustNew()
	a.GET("/", func(c *Context) { c.NoContent() })

	// Must not panic without a tracer provider.
	perform(a, http.MethodGet, "/")
	assert.Nil(t, a.tracer)
}
