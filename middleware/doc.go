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

// Package middleware provides a base for building HTTP middleware that wraps
// a downstream http.Handler.
//
// The Middleware type carries the wrapped application, a default response
// status, and default response headers. It offers helpers for constructing
// (status, headers, body) responses, resolving Content-Type from file
// extensions, and sanitizing request paths before filesystem lookups.
//
// A concrete middleware embeds Middleware, overrides ServeHTTP for the
// requests it cares about, and calls Forward for everything else:
//
//	type OnlyText struct {
//	    *middleware.Middleware
//	}
//
//	func (ot *OnlyText) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    if strings.HasSuffix(r.URL.Path, ".txt") {
//	        resp, err := ot.FileResponse("."+r.URL.Path, nil, 0)
//	        if err == nil {
//	            resp.Write(w)
//	            return
//	        }
//	    }
//	    ot.Forward(w, r)
//	}
//
// The static sub-package builds on this base for public-directory file
// serving. The recovery, accesslog, and requestid sub-packages are handler
// middleware for the webapp chain instead; they follow the same
// construction idiom.
package middleware
