// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
)

var _ Runnable = (*FunctionCommand)(nil)

// ErrFunctionCmdPanic is the error returned when a function command panics.
type ErrFunctionCmdPanic struct {
	v any
}

// Error implements the error interface for ErrFunctionCmdPanic.
func (e *ErrFunctionCmdPanic) Error() string {
	const prefix = "function command panic:"

	switch x := e.v.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// NewErrFunctionCmdPanic creates a new ErrFunctionCmdPanic with the given value.
func NewErrFunctionCmdPanic(v any) error {
	return &ErrFunctionCmdPanic{v: v}
}

// FunctionCommandFunc is the signature of functions run by FunctionCommand.
// It receives the working directory of the command.
type FunctionCommandFunc func(ctx context.Context, workingDirectory string) FunctionCommandReturn

// FunctionCommandReturn is returned by a FunctionCommandFunc.
type FunctionCommandReturn struct {
	NewCwd string // The new working directory for subsequent commands, if changed
	StdOut []byte // Optional output to attach to the result
	Err    error  // Any error that occurred during execution
}

// FunctionCommand runs an in-process Go function as part of a batch.
type FunctionCommand struct {
	*BaseCommand
	Func FunctionCommandFunc // The function to run
}

// Run implements the Runnable interface for FunctionCommand.
func (f *FunctionCommand) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "FunctionCommand").
		With("label", FullLabel(f))

	if f.Func == nil {
		logger.Debug("no function to run, returning success")
		return Results{{Label: f.Label, Status: ResultStatusSuccess}}
	}

	frCh := make(chan FunctionCommandReturn, 1)

	// The function runs in its own goroutine so that context cancellation is
	// honoured even if the function does not check the context itself.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("function command panicked", "panic", r)
				frCh <- FunctionCommandReturn{Err: NewErrFunctionCmdPanic(r)}
			}
		}()

		frCh <- f.Func(ctx, f.Cwd)
	}()

	select {
	case fr := <-frCh:
		// Skips propagate like skip exit codes from OS commands.
		if errors.Is(fr.Err, ErrSkipIntentional) {
			return Results{{
				Label:  f.Label,
				Error:  ErrSkipIntentional,
				StdOut: fr.StdOut,
				Status: ResultStatusSuccess,
			}}
		}

		if fr.Err != nil {
			return Results{{
				Label:    f.Label,
				ExitCode: -1,
				Error:    fr.Err,
				StdOut:   fr.StdOut,
				Status:   ResultStatusError,
			}}
		}

		return Results{{
			Label:  f.Label,
			StdOut: fr.StdOut,
			Status: ResultStatusSuccess,
			newCwd: fr.NewCwd,
		}}

	case <-ctx.Done():
		logger.Debug("function command context cancelled", "error", ctx.Err())

		return Results{{
			Label:    f.Label,
			ExitCode: -1,
			Error:    ctx.Err(),
			Status:   ResultStatusError,
		}}
	}
}
