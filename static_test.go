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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file with content under dir, creating parents.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestStaticMultipleRootsFirstHitWins verifies that roots are searched in
// order and an earlier root shadows a later one.
func TestStaticMultipleRootsFirstHitWins(t *testing.T) {
	t.Parallel()

	dir1 := t.TempDir()
	dir2 := t.TempDir()
	writeFile(t, dir1, "static1.txt", "from dir1")
	writeFile(t, dir1, "shared.txt", "dir1 copy")
	writeFile(t, dir2, "static2.txt", "from dir2")
	writeFile(t, dir2, "shared.txt", "dir2 copy")

	a := MustNew()
	a.Static("/static", dir1, dir2)

	rec := perform(a, http.MethodGet, "/static/static1.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from dir1", rec.Body.String())

	// Only present in the second root.
	rec = perform(a, http.MethodGet, "/static/static2.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from dir2", rec.Body.String())

	// Present in both: the first root wins.
	rec = perform(a, http.MethodGet, "/static/shared.txt")
	assert.Equal(t, "dir1 copy", rec.Body.String())
}

func TestStaticMissReturns404(t *testing.T) {
	t.Parallel()

	a := MustNew()
	a.Static("/static", t.TempDir())

	assert.Equal(t, http.StatusNotFound, perform(a, http.MethodGet, "/static/missing.txt").Code)
}

func TestStaticHEAD(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "robots.txt", "User-agent: *")

	a := MustNew()
	a.Static("/static", dir)

	rec := perform(a, http.MethodHead, "/static/robots.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestStaticContentType(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app.css", "body {}")

	a := MustNew()
	a.Static("/assets", dir)

	rec := perform(a, http.MethodGet, "/assets/app.css")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

// TestStaticTraversalBlocked relies on http.FileServer path cleaning; a
// dot-dot path must not escape the configured roots.
func TestStaticTraversalBlocked(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "public.txt", "public")

	a := MustNew()
	a.Static("/static", dir)

	rec := perform(a, http.MethodGet, "/static/../../etc/passwd")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestStaticFSEmptyPrefixPanics(t *testing.T) {
	t.Parallel()

	a := MustNew()
	assert.PanicsWithValue(t, ErrEmptyPrefix, func() {
		a.StaticFS("", http.Dir(t.TempDir()))
	})
}

func TestStaticPrefixNormalization(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "f.txt", "f")

	for _, prefix := range []string{"/files", "/files/", "/files/*", "files"} {
		a := MustNew()
		a.Static(prefix, dir)
		rec := perform(a, http.MethodGet, "/files/f.txt")
		assert.Equal(t, http.StatusOK, rec.Code, "prefix %q", prefix)
	}
}

func TestStaticFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "favicon.ico", "icon-bytes")

	a := MustNew()
	a.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))

	rec := perform(a, http.MethodGet, "/favicon.ico")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "icon-bytes", rec.Body.String())
}

func TestDirsOpenOrder(t *testing.T) {
	t.Parallel()

	dir1 := t.TempDir()
	dir2 := t.TempDir()
	writeFile(t, dir2, "only2.txt", "two")

	fs := Dirs(dir1, dir2)

	f, err := fs.Open("/only2.txt")
	require.NoError(t, err)
	f.Close()

	_, err = fs.Open("/nowhere.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
