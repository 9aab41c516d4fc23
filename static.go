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
	"os"
	"strings"
)

// multiDir searches several filesystem roots in order; the first root that
// can open the requested name serves it.
type multiDir []http.Dir

// Open implements http.FileSystem.
func (d multiDir) Open(name string) (http.File, error) {
	for _, dir := range d {
		f, err := dir.Open(name)
		if err == nil {
			return f, nil
		}
	}
	return nil, os.ErrNotExist
}

// Dirs builds an http.FileSystem that searches the given public directory
// roots in order. The first root containing the requested file wins, so
// earlier roots shadow later ones.
//
// Example:
//
//	fs := webapp.Dirs("./public", "./shared/public")
//	a.StaticFS("/assets", fs)
func Dirs(roots ...string) http.FileSystem {
	d := make(multiDir, 0, len(roots))
	for _, root := range roots {
		d = append(d, http.Dir(root))
	}
	return d
}

// Static serves static files under the given URL prefix from one or more
// public directory roots. Roots are searched in order; the first root
// containing the requested file serves it.
//
// SECURITY: serving uses http.FileServer, which cleans paths and prevents
// access to parent directories. Still, the roots should only contain files
// intended to be publicly accessible.
//
// Example:
//
//	a.Static("/static", "./public")
//	a.Static("/assets", "./public", "./themes/default/public")
func (a *App) Static(prefix string, roots ...string) {
	a.StaticFS(prefix, Dirs(roots...))
}

// StaticFS serves static files from the given http.FileSystem under the URL
// prefix. Registers both GET and HEAD routes per HTTP/1.1 requirements
// (RFC 7231): HEAD must be supported for any resource that supports GET.
//
// Example:
//
//	a.StaticFS("/files", http.Dir("./public"))
func (a *App) StaticFS(prefix string, fs http.FileSystem) {
	if len(prefix) == 0 {
		panic(ErrEmptyPrefix)
	}

	if prefix[0] != '/' {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/*") {
		if strings.HasSuffix(prefix, "/") {
			prefix += "*"
		} else {
			prefix += "/*"
		}
	}

	fileServer := http.StripPrefix(strings.TrimSuffix(prefix, "/*"), http.FileServer(fs))

	handler := func(c *Context) {
		fileServer.ServeHTTP(c.Response, c.Request)
	}

	a.GET(prefix, handler)
	a.HEAD(prefix, handler)
}

// StaticFile serves a single file at the given URL path. Useful for files
// like favicon.ico or robots.txt. Registers both GET and HEAD routes.
//
// Example:
//
//	a.StaticFile("/favicon.ico", "./assets/favicon.ico")
func (a *App) StaticFile(path, filepath string) {
	if len(path) == 0 {
		panic(ErrEmptyPrefix)
	}
	if len(filepath) == 0 {
		panic(ErrNilHandler)
	}

	if path[0] != '/' {
		path = "/" + path
	}

	handler := func(c *Context) {
		c.ServeFile(filepath)
	}

	a.GET(path, handler)
	a.HEAD(path, handler)
}
