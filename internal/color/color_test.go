// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	assert.Equal(t, "\033[1m", sequence([]Code{Bold}))
	assert.Equal(t, "\033[1;31m", sequence([]Code{Bold, FgRed}))
	assert.Equal(t, "\033[m", sequence(nil))
}

func TestColorizeDisabled(t *testing.T) {
	orig := enabled
	t.Cleanup(func() { enabled = orig })

	enabled = false
	assert.Equal(t, "plain", Colorize("plain", FgGreen))
	assert.Empty(t, ControlString(Bold))
}

func TestColorizeEnabled(t *testing.T) {
	orig := enabled
	t.Cleanup(func() { enabled = orig })

	enabled = true
	assert.Equal(t, "\033[32mok\033[0m", Colorize("ok", FgGreen))
	assert.Equal(t, "\033[32mok", ColorizeNoReset("ok", FgGreen))
}
