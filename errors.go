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

import "errors"

var (
	// ErrFrozen indicates that routes, mounts, or the default handler were
	// modified after the application started serving requests.
	ErrFrozen = errors.New("application is frozen: registration after first request")

	// ErrEmptyPrefix indicates that a mount or static prefix is empty.
	ErrEmptyPrefix = errors.New("prefix cannot be empty")

	// ErrNilHandler indicates that a nil handler or sub-application was registered.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrServerTimeoutInvalid indicates that a server timeout value must be positive.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")

	// ErrResponseWriterNotHijacker indicates that the underlying ResponseWriter
	// does not implement the http.Hijacker interface.
	ErrResponseWriterNotHijacker = errors.New("responseWriter does not implement http.Hijacker")
)
