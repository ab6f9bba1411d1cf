// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
)

var _ Runnable = (*ForEachCommand)(nil)

const (
	// ItemEnvVar is the environment variable holding the current item of the iteration.
	ItemEnvVar = "ITEM"
)

// ItemsProviderFunc returns the list of items to iterate over. It receives
// the working directory of the foreach command.
type ItemsProviderFunc func(ctx context.Context, workingDirectory string) ([]string, error)

// ErrItemsProviderFailed is returned when the items provider function fails.
var ErrItemsProviderFailed = errors.New("items provider function failed")

// ForEachMode determines whether the per-item batches run in serial or parallel.
type ForEachMode int

const (
	// ForEachSerial executes the per-item batches one after another.
	ForEachSerial ForEachMode = iota
	// ForEachParallel executes the per-item batches concurrently.
	ForEachParallel
)

// ErrUnknownForEachMode is returned when a mode string is not recognised.
var ErrUnknownForEachMode = errors.New("unknown foreach mode")

// ParseForEachMode parses a mode string. The empty string means serial.
func ParseForEachMode(s string) (ForEachMode, error) {
	switch strings.ToLower(s) {
	case "", "serial":
		return ForEachSerial, nil
	case "parallel":
		return ForEachParallel, nil
	default:
		return ForEachSerial, fmt.Errorf("%w: %q", ErrUnknownForEachMode, s)
	}
}

// ForEachCommand executes its commands once per item returned by the items
// provider. Each iteration gets a clone of the command list with the ITEM
// environment variable set, so iterations never share mutable state.
type ForEachCommand struct {
	*BaseCommand
	ItemsProvider  ItemsProviderFunc
	Commands       []Runnable
	Mode           ForEachMode
	CwdFromItem    bool // Run each iteration with the item as its working directory
	MaxConcurrency int  // Bounds parallel iterations, zero means unbounded
}

// GetLabel returns the label of the command.
func (f *ForEachCommand) GetLabel() string {
	if f.Label == "" {
		return "ForEach Command"
	}

	return f.Label
}

// Run implements the Runnable interface for ForEachCommand.
func (f *ForEachCommand) Run(ctx context.Context) Results {
	items, err := f.ItemsProvider(ctx, f.Cwd)
	if err != nil {
		return Results{{
			Label:    f.GetLabel(),
			ExitCode: -1,
			Error:    errors.Join(ErrItemsProviderFailed, err),
			Status:   ResultStatusError,
		}}
	}

	// An empty list is not an error.
	if len(items) == 0 {
		return Results{{
			Label:  f.GetLabel(),
			Status: ResultStatusSuccess,
		}}
	}

	iterations := make([]Runnable, len(items))

	for i, item := range items {
		env := maps.Clone(f.Env)
		if env == nil {
			env = make(map[string]string)
		}

		env[ItemEnvVar] = item

		cwd := f.Cwd
		if f.CwdFromItem {
			cwd = item
		}

		commands := make([]Runnable, len(f.Commands))
		for j, cmd := range f.Commands {
			commands[j] = cloneRunnable(cmd)
		}

		batch := &SerialBatch{
			BaseCommand: NewBaseCommand(
				fmt.Sprintf("%s [%s]", f.GetLabel(), item),
				cwd,
				f.RunsOnCondition,
				f.RunsOnExitCodes,
				env,
			),
			Commands: commands,
		}

		for _, cmd := range commands {
			cmd.SetParent(batch)
		}

		iterations[i] = batch
	}

	base := NewBaseCommand(f.GetLabel(), f.Cwd, f.RunsOnCondition, f.RunsOnExitCodes, maps.Clone(f.Env))
	base.SetParent(f.GetParent())

	var run Runnable

	switch f.Mode {
	case ForEachParallel:
		run = &ParallelBatch{
			BaseCommand:    base,
			Commands:       iterations,
			MaxConcurrency: f.MaxConcurrency,
		}
	default:
		run = &SerialBatch{
			BaseCommand: base,
			Commands:    iterations,
		}
	}

	for _, it := range iterations {
		it.SetParent(run)
	}

	return run.Run(ctx)
}
