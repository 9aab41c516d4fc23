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
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SanitizePath unescapes percent-encoding in a raw request path and
// resolves it to an absolute, normalized filesystem path with "." and ".."
// segments collapsed.
//
// Normalization alone does not confine the result to any directory:
// SanitizePath("../../etc/passwd") yields a valid absolute path outside the
// caller's tree. Callers serving files MUST additionally verify containment,
// which ResolveWithin does.
func SanitizePath(raw string) (string, error) {
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if strings.ContainsRune(unescaped, 0) {
		return "", fmt.Errorf("%w: contains NUL byte", ErrInvalidPath)
	}

	abs, err := filepath.Abs(filepath.FromSlash(unescaped))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return abs, nil
}

// ResolveWithin sanitizes a raw request path and resolves it relative to the
// given root directory, verifying that the result stays inside the root.
// A path that escapes the root returns an error wrapping ErrTraversal.
//
// The raw path is interpreted as root-relative regardless of leading
// slashes, matching how a public-directory file server treats URL paths.
//
// Example:
//
//	p, err := middleware.ResolveWithin("/srv/public", "/css/../logo.png")
//	// p == "/srv/public/logo.png"
//
//	_, err = middleware.ResolveWithin("/srv/public", "../../etc/passwd")
//	// errors.Is(err, middleware.ErrTraversal)
func ResolveWithin(root, raw string) (string, error) {
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if strings.ContainsRune(unescaped, 0) {
		return "", fmt.Errorf("%w: contains NUL byte", ErrInvalidPath)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	resolved := filepath.Join(absRoot, filepath.FromSlash(unescaped))

	// Join cleans ".." segments, but a crafted path can still land above the
	// root. Verify containment explicitly.
	rel, err := filepath.Rel(absRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q resolves outside %q", ErrTraversal, raw, root)
	}

	return resolved, nil
}
