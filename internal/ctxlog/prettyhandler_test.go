// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyHandlerWritesMessageAndAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewPrettyHandler(&slog.HandlerOptions{
		Level: slog.LevelDebug,
	}, WithDestinationWriter(buf))

	logger := slog.New(handler)
	logger.Info("processing", "target", "lint", "attempt", 1)

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "processing")
	assert.Contains(t, out, "target")
	assert.Contains(t, out, "lint")
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewPrettyHandler(&slog.HandlerOptions{
		Level: slog.LevelWarn,
	}, WithDestinationWriter(buf))

	require.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, handler.Enabled(context.Background(), slog.LevelError))

	logger := slog.New(handler)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewPrettyHandler(&slog.HandlerOptions{
		Level: slog.LevelDebug,
	}, WithDestinationWriter(buf))

	logger := slog.New(handler).With("problem", "tsp")
	logger.Warn("evaluation slow")

	out := buf.String()
	assert.Contains(t, out, "WARN:")
	assert.Contains(t, out, "problem")
	assert.Contains(t, out, "tsp")
}
