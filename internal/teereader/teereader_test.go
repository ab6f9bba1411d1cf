// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastLineTracking(t *testing.T) {
	tr := New(strings.NewReader("one\ntwo\nthree"))

	out, err := io.ReadAll(tr)
	require.NoError(t, err)

	assert.Equal(t, "one\ntwo\nthree", string(out))
	assert.Equal(t, "two", tr.LastLine(0))
	assert.Equal(t, "one\ntwo\nthree", string(tr.Bytes()))
}

func TestLastLineWithTrailingNewline(t *testing.T) {
	tr := New(strings.NewReader("alpha\nbeta\n"))

	_, err := io.ReadAll(tr)
	require.NoError(t, err)

	assert.Equal(t, "beta", tr.LastLine(0))
}

func TestLastLineTruncation(t *testing.T) {
	tr := New(strings.NewReader("a very long line of output\n"))

	_, err := io.ReadAll(tr)
	require.NoError(t, err)

	assert.Equal(t, "a very ...", tr.LastLine(10))
}

func TestEmptyReader(t *testing.T) {
	tr := New(strings.NewReader(""))

	_, err := io.ReadAll(tr)
	require.NoError(t, err)

	assert.Empty(t, tr.LastLine(0))
	assert.Empty(t, tr.Bytes())
}
