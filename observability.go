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
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope reported on spans.
const tracerName = "rivaas.dev/webapp"

// metricsRecorder collects per-request Prometheus metrics.
//
// Metrics are labeled with the matched route pattern, never the raw request
// path, to keep cardinality bounded. Requests handled by a mount use the
// mount name; the default handler and bare 404s use the "_default" and
// "_not_found" sentinels.
type metricsRecorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	handler  http.Handler
}

// newMetricsRecorder registers the request instruments on the given registry.
func newMetricsRecorder(reg *prometheus.Registry) *metricsRecorder {
	factory := promauto.With(reg)

	return &metricsRecorder{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webapp_requests_total",
			Help: "Total number of HTTP requests processed, by method, route, and status.",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webapp_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
}

// record updates the instruments for one completed request.
func (m *metricsRecorder) record(method, routeLabel string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, routeLabel, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, routeLabel).Observe(elapsed.Seconds())
}

// WithMetrics enables Prometheus request metrics on a private registry.
// Expose them by registering MetricsHandler on a route:
//
//	a := webapp.MustNew(webapp.WithMetrics())
//	a.GET("/metrics", func(c *webapp.Context) {
//	    a.MetricsHandler().ServeHTTP(c.Response, c.Request)
//	})
func WithMetrics() Option {
	return WithMetricsRegistry(prometheus.NewRegistry())
}

// WithMetricsRegistry enables Prometheus request metrics on the caller's
// registry, for applications that already aggregate collectors.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		if reg != nil {
			a.metrics = newMetricsRecorder(reg)
		}
	}
}

// MetricsHandler returns the HTTP handler serving the Prometheus exposition
// for this application's registry, or nil when metrics are not enabled.
func (a *App) MetricsHandler() http.Handler {
	if a.metrics == nil {
		return nil
	}
	return a.metrics.handler
}

// WithTracing enables OpenTelemetry tracing of requests using the given
// tracer provider. One server span is recorded per request, named after the
// method and matched route pattern.
//
// Example:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	a := webapp.MustNew(webapp.WithTracing(tp))
func WithTracing(tp trace.TracerProvider) Option {
	return func(a *App) {
		if tp != nil {
			a.tracer = tp.Tracer(tracerName)
		}
	}
}

// startSpan begins the request span. Returns a nil span when tracing is
// disabled.
func (a *App) startSpan(req *http.Request) (context.Context, trace.Span) {
	if a.tracer == nil {
		return req.Context(), nil
	}

	return a.tracer.Start(req.Context(), req.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
}

// finishSpan names the span after the matched route and records the final
// status. The span name uses the route pattern, not the raw path, so traces
// aggregate by route.
func (a *App) finishSpan(span trace.Span, req *http.Request, routeLabel string, status int) {
	if span == nil {
		return
	}

	span.SetName(req.Method + " " + routeLabel)
	span.SetAttributes(
		attribute.String("http.route", routeLabel),
		attribute.Int("http.response.status_code", status),
	)
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	span.End()
}
