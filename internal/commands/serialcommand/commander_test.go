// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package serialcommand

import (
	"context"
	"testing"

	"github.com/matt-FFFFFF/hew/internal/commandregistry"
	"github.com/matt-FFFFFF/hew/internal/commands/shellcommand"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newFactory() commandregistry.Registry {
	return commandregistry.New(Register, shellcommand.Register)
}

func TestCommanderCreate_NestedShellCommands(t *testing.T) {
	payload := []byte(`
type: serial
name: checks
commands:
  - type: shell
    name: first
    command_line: echo one
  - type: shell
    name: second
    command_line: echo two
`)

	factory := newFactory()

	runnable, err := factory.CreateRunnableFromYAML(context.Background(), payload)
	require.NoError(t, err)

	batch, ok := runnable.(*runbatch.SerialBatch)
	require.True(t, ok)
	assert.Equal(t, "checks", batch.Label)
	require.Len(t, batch.Commands, 2)
	assert.Equal(t, "first", batch.Commands[0].GetLabel())
	assert.Equal(t, "checks", runbatch.FullLabel(batch.Commands[0].GetParent()))
}

func TestCommanderCreate_NestedSerial(t *testing.T) {
	payload := []byte(`
type: serial
name: outer
commands:
  - type: serial
    name: inner
    commands:
      - type: shell
        name: leaf
        command_line: echo leaf
`)

	factory := newFactory()

	runnable, err := factory.CreateRunnableFromYAML(context.Background(), payload)
	require.NoError(t, err)

	outer, ok := runnable.(*runbatch.SerialBatch)
	require.True(t, ok)
	require.Len(t, outer.Commands, 1)

	inner, ok := outer.Commands[0].(*runbatch.SerialBatch)
	require.True(t, ok)
	require.Len(t, inner.Commands, 1)
	assert.Equal(t, "outer > inner > leaf", runbatch.FullLabel(inner.Commands[0]))
}

func TestCommanderCreate_UnknownNestedType(t *testing.T) {
	payload := []byte(`
type: serial
name: broken
commands:
  - type: nonsense
    name: what
`)

	factory := newFactory()

	_, err := factory.CreateRunnableFromYAML(context.Background(), payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, commandregistry.ErrUnknownCommandType)
}
