// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionCommandRun_Success(t *testing.T) {
	cmd := &FunctionCommand{
		BaseCommand: NewBaseCommand("fn", "/tmp", RunOnSuccess, nil, nil),
		Func: func(_ context.Context, cwd string) FunctionCommandReturn {
			return FunctionCommandReturn{StdOut: []byte("ran in " + cwd)}
		},
	}

	results := cmd.Run(context.Background())
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, ResultStatusSuccess, res.Status)
	assert.Equal(t, "ran in /tmp", string(res.StdOut))
}

func TestFunctionCommandRun_Error(t *testing.T) {
	boom := errors.New("boom")

	cmd := &FunctionCommand{
		BaseCommand: NewBaseCommand("fn", "", RunOnSuccess, nil, nil),
		Func: func(_ context.Context, _ string) FunctionCommandReturn {
			return FunctionCommandReturn{Err: boom}
		},
	}

	results := cmd.Run(context.Background())
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, ResultStatusError, res.Status)
	assert.Equal(t, -1, res.ExitCode)
	assert.ErrorIs(t, res.Error, boom)
}

func TestFunctionCommandRun_PanicRecovered(t *testing.T) {
	cmd := &FunctionCommand{
		BaseCommand: NewBaseCommand("fn", "", RunOnSuccess, nil, nil),
		Func: func(_ context.Context, _ string) FunctionCommandReturn {
			panic("kaboom")
		},
	}

	results := cmd.Run(context.Background())
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, ResultStatusError, res.Status)

	var panicErr *ErrFunctionCmdPanic

	require.ErrorAs(t, res.Error, &panicErr)
	assert.Contains(t, res.Error.Error(), "kaboom")
}

func TestFunctionCommandRun_Skip(t *testing.T) {
	cmd := &FunctionCommand{
		BaseCommand: NewBaseCommand("fn", "", RunOnSuccess, nil, nil),
		Func: func(_ context.Context, _ string) FunctionCommandReturn {
			return FunctionCommandReturn{Err: ErrSkipIntentional}
		},
	}

	results := cmd.Run(context.Background())
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, ResultStatusSuccess, res.Status)
	assert.ErrorIs(t, res.Error, ErrSkipIntentional)
}

func TestFunctionCommandRun_NewCwdPropagatesInSerialBatch(t *testing.T) {
	dir := t.TempDir()

	changer := &FunctionCommand{
		BaseCommand: NewBaseCommand("chdir", "", RunOnSuccess, nil, nil),
		Func: func(_ context.Context, _ string) FunctionCommandReturn {
			return FunctionCommandReturn{NewCwd: dir}
		},
	}

	after := newFakeCmd("after", 0, nil)

	batch := &SerialBatch{
		BaseCommand: NewBaseCommand("batch", "", RunOnSuccess, nil, nil),
		Commands:    []Runnable{changer, after},
	}

	results := batch.Run(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, dir, after.Cwd)
}

func TestFunctionCommandRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})

	cmd := &FunctionCommand{
		BaseCommand: NewBaseCommand("fn", "", RunOnSuccess, nil, nil),
		Func: func(_ context.Context, _ string) FunctionCommandReturn {
			close(started)
			<-release

			return FunctionCommandReturn{}
		},
	}

	go func() {
		<-started
		cancel()
	}()

	results := cmd.Run(ctx)
	close(release)

	require.Len(t, results, 1)
	assert.Equal(t, ResultStatusError, results[0].Status)
	assert.ErrorIs(t, results[0].Error, context.Canceled)

	// Let the function goroutine finish before the test exits.
	time.Sleep(10 * time.Millisecond)
}
