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

import "errors"

var (
	// ErrNotFound indicates that the requested file does not exist.
	// Callers treat it as a normal "serve something else" signal, not a
	// failure; other I/O errors pass through unwrapped.
	ErrNotFound = errors.New("file not found")

	// ErrTraversal indicates that a sanitized path resolves outside the
	// permitted root directory.
	ErrTraversal = errors.New("path escapes root directory")

	// ErrInvalidPath indicates that a raw path could not be sanitized,
	// for example because it contains a NUL byte or bad percent-encoding.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNilNext indicates that a middleware was constructed without a
	// downstream handler to wrap.
	ErrNilNext = errors.New("downstream handler cannot be nil")
)
