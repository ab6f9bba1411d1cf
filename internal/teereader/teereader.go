// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// LastLineTeeReader wraps an io.Reader and captures both the complete output
// and the last complete line for progress display purposes.
// It is safe for concurrent use.
type LastLineTeeReader struct {
	reader  io.Reader
	full    *bytes.Buffer
	last    string
	partial strings.Builder // holds an incomplete trailing line
	mu      sync.RWMutex
}

// New creates a LastLineTeeReader that wraps the given reader.
func New(r io.Reader) *LastLineTeeReader {
	return &LastLineTeeReader{
		reader: r,
		full:   &bytes.Buffer{},
	}
}

// Read implements io.Reader. It reads from the underlying reader and updates
// both the full buffer and the last-line tracking.
func (lt *LastLineTeeReader) Read(p []byte) (int, error) {
	n, err := lt.reader.Read(p)
	if n > 0 {
		lt.mu.Lock()
		lt.full.Write(p[:n])
		lt.track(string(p[:n]))
		lt.mu.Unlock()
	}

	return n, err //nolint:wrapcheck
}

// track updates the last complete line. Must be called with the lock held.
func (lt *LastLineTeeReader) track(data string) {
	lt.partial.WriteString(data)
	combined := lt.partial.String()

	lines := strings.Split(combined, "\n")
	if len(lines) == 1 {
		// No newline yet; partial line stays in the builder.
		return
	}

	lt.last = lines[len(lines)-2]
	lt.partial.Reset()

	if tail := lines[len(lines)-1]; tail != "" {
		lt.partial.WriteString(tail)
	}
}

// LastLine returns the last complete line read so far, or the empty string.
// If maxLength > 0 the line is truncated to maxLength with a trailing "...".
func (lt *LastLineTeeReader) LastLine(maxLength int) string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	result := lt.last
	if maxLength > 0 && len(result) > maxLength {
		result = result[:maxLength-3] + "..."
	}

	return result
}

// Bytes returns all data read so far. Safe for concurrent use.
func (lt *LastLineTeeReader) Bytes() []byte {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.full.Bytes()
}
