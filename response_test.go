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
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriterCapturesStatusAndSize(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}

	rw.WriteHeader(http.StatusAccepted)
	n, err := rw.Write([]byte("body"))
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.Equal(t, http.StatusAccepted, rw.StatusCode())
	assert.EqualValues(t, 4, rw.Size())
	assert.True(t, rw.Written())
}

func TestResponseWriterDefaultsTo200(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.False(t, rw.Written())

	_, err := rw.Write([]byte("implicit"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.True(t, rw.Written())
}

// TestResponseWriterSuppressesDuplicateWriteHeader verifies only the first
// status sticks.
func TestResponseWriterSuppressesDuplicateWriteHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK)

	assert.Equal(t, http.StatusNotFound, rw.StatusCode())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestResponseWriterHijack(t *testing.T) {
	t.Parallel()

	h := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	rw := &responseWriter{ResponseWriter: h}

	_, _, err := rw.Hijack()
	require.NoError(t, err)
	assert.True(t, h.hijacked)
}

func TestResponseWriterHijackUnsupported(t *testing.T) {
	t.Parallel()

	rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rw.Hijack()
	assert.ErrorIs(t, err, ErrResponseWriterNotHijacker)
}

func TestResponseWriterFlush(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}

	rw.Flush()
	assert.True(t, rec.Flushed)
}
