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

// Package webapp is a small web-serving convenience layer on top of net/http.
//
// It provides an application base type (App) with declarative, ordered route
// registration, a fallback handler for unmatched requests, sub-application
// mounting at path prefixes, and static file hosting across multiple public
// directories. Dispatch is deliberately simple: routes are tried in
// declaration order (first match wins), then mounts longest-prefix-first,
// then the default handler. A request that matches nothing receives an
// empty-bodied 404 — "no route matched" is a normal response, never an error.
//
// Basic usage:
//
//	a := webapp.MustNew()
//	a.GET("/hello", func(c *webapp.Context) {
//	    c.String(http.StatusOK, "hello")
//	})
//	a.Default(func(c *webapp.Context) {
//	    c.String(http.StatusOK, "fallback")
//	})
//	http.ListenAndServe(":8080", a)
//
// Mounting a sub-application:
//
//	sub := webapp.MustNew()
//	sub.GET("/hello", helloHandler)
//	a.Mount("/tests/subapp", sub)
//	// GET /tests/subapp/hello reaches sub as GET /hello;
//	// webapp.OriginalPath still reports /tests/subapp/hello.
//
// Static file hosting searches public directories in order; the first
// directory containing the requested file serves it:
//
//	a.Static("/assets", "./public", "./shared/public")
//
// The companion middleware package provides a Rack-style middleware base for
// wrapping any http.Handler; see rivaas.dev/webapp/middleware.
package webapp
