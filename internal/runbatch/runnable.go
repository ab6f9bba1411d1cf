// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
)

// Runnable is an interface for something that can be run as part of a batch,
// either a single command or a nested batch.
type Runnable interface {
	// Run executes the command or batch and returns the results.
	// It must honour context cancellation and pass received operating
	// system signals on to any spawned process.
	Run(context.Context) Results
	// SetCwd sets the working directory for the command or batch.
	// It must be called before Run(). An absolute directory already set
	// on the runnable is preserved, a relative one is resolved against
	// the supplied directory.
	SetCwd(string) error
	// InheritEnv adds environment variables to the command or batch.
	// Existing variables are not overwritten.
	InheritEnv(map[string]string)
	// GetLabel returns the label or description of the command or batch.
	GetLabel() string
	// GetParent returns the parent for this command or batch.
	GetParent() Runnable
	// SetParent sets the parent for this command or batch.
	SetParent(Runnable)
	// ShouldRun reports whether the command should run, be skipped, or be
	// marked as errored, given the status of the previous command.
	ShouldRun(prev PreviousCommandStatus) ShouldRunAction
}
