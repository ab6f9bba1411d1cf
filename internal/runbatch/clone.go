// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"maps"
	"slices"
)

// cloneRunnable deep copies a Runnable so that foreach iterations do not
// share mutable state such as environment maps and working directories.
func cloneRunnable(r Runnable) Runnable {
	switch cmd := r.(type) {
	case *OSCommand:
		return &OSCommand{
			BaseCommand:      cloneBaseCommand(cmd.BaseCommand),
			Path:             cmd.Path,
			Args:             slices.Clone(cmd.Args),
			StdIn:            slices.Clone(cmd.StdIn),
			SuccessExitCodes: slices.Clone(cmd.SuccessExitCodes),
			SkipExitCodes:    slices.Clone(cmd.SkipExitCodes),
			cleanup:          cmd.cleanup,
			// sigCh is left nil, it is initialized during Run.
		}
	case *FunctionCommand:
		return &FunctionCommand{
			BaseCommand: cloneBaseCommand(cmd.BaseCommand),
			Func:        cmd.Func,
		}
	case *SerialBatch:
		return &SerialBatch{
			BaseCommand: cloneBaseCommand(cmd.BaseCommand),
			Commands:    cloneRunnables(cmd.Commands),
		}
	case *ParallelBatch:
		return &ParallelBatch{
			BaseCommand:    cloneBaseCommand(cmd.BaseCommand),
			Commands:       cloneRunnables(cmd.Commands),
			MaxConcurrency: cmd.MaxConcurrency,
		}
	case *ForEachCommand:
		return &ForEachCommand{
			BaseCommand:    cloneBaseCommand(cmd.BaseCommand),
			ItemsProvider:  cmd.ItemsProvider,
			Commands:       cloneRunnables(cmd.Commands),
			Mode:           cmd.Mode,
			CwdFromItem:    cmd.CwdFromItem,
			MaxConcurrency: cmd.MaxConcurrency,
		}
	default:
		return r
	}
}

func cloneRunnables(cmds []Runnable) []Runnable {
	cloned := make([]Runnable, len(cmds))
	for i, cmd := range cmds {
		cloned[i] = cloneRunnable(cmd)
	}

	return cloned
}

func cloneBaseCommand(base *BaseCommand) *BaseCommand {
	return &BaseCommand{
		Label:           base.Label,
		Cwd:             base.Cwd,
		RunsOnCondition: base.RunsOnCondition,
		RunsOnExitCodes: slices.Clone(base.RunsOnExitCodes),
		Env:             maps.Clone(base.Env),
		// parent is intentionally not copied, it is set by the new owner.
	}
}
