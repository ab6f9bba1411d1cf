// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"maps"
	"path/filepath"
	"slices"
)

// BaseCommand provides the common fields and behaviour shared by all runnables.
// It should be embedded in concrete command and batch types.
type BaseCommand struct {
	Label           string            // Human readable label for the command
	Cwd             string            // The working directory for the command
	RunsOnCondition RunCondition      // The condition under which the command runs
	RunsOnExitCodes []int             // Exit codes that trigger the command when RunsOnCondition is RunOnExitCodes
	Env             map[string]string // Environment variables passed to the command
	parent          Runnable          // The parent command or batch, if any
}

// PreviousCommandStatus holds the outcome of the previous command in a batch.
type PreviousCommandStatus struct {
	// State is the result status of the previous command.
	State ResultStatus
	// ExitCode is the exit code of the previous command.
	ExitCode int
	// Err is the error from the previous command, if any.
	Err error
}

// NewBaseCommand creates a new BaseCommand with the supplied parameters,
// applying defaults for nil exit codes and environment.
func NewBaseCommand(label, cwd string, runsOn RunCondition, runsOnExitCodes []int, env map[string]string) *BaseCommand {
	if runsOnExitCodes == nil {
		runsOnExitCodes = []int{0}
	}

	if env == nil {
		env = make(map[string]string)
	}

	return &BaseCommand{
		Label:           label,
		Cwd:             cwd,
		RunsOnCondition: runsOn,
		RunsOnExitCodes: runsOnExitCodes,
		Env:             env,
	}
}

// GetLabel returns the label of the command.
func (c *BaseCommand) GetLabel() string {
	if c.Label == "" {
		return "Command"
	}

	return c.Label
}

// GetParent returns the parent for this command or batch.
func (c *BaseCommand) GetParent() Runnable {
	return c.parent
}

// SetParent sets the parent for this command or batch.
func (c *BaseCommand) SetParent(parent Runnable) {
	c.parent = parent
}

// SetCwd resolves the working directory for the command. An absolute Cwd
// already set on the command is preserved, a relative one is joined to the
// supplied directory, and an empty one is replaced by it.
func (c *BaseCommand) SetCwd(cwd string) error {
	if cwd == "" {
		return nil
	}

	switch {
	case c.Cwd == "":
		c.Cwd = cwd
	case !filepath.IsAbs(c.Cwd):
		c.Cwd = filepath.Join(cwd, c.Cwd)
	}

	return nil
}

// InheritEnv adds environment variables to the command without overwriting
// variables that are already set.
func (c *BaseCommand) InheritEnv(env map[string]string) {
	if len(c.Env) == 0 {
		c.Env = maps.Clone(env)
		return
	}

	for k, v := range maps.All(env) {
		if _, ok := c.Env[k]; !ok {
			c.Env[k] = v
		}
	}
}

// ShouldRun decides whether the command should run given the status of the
// previous command in the batch.
func (c *BaseCommand) ShouldRun(prev PreviousCommandStatus) ShouldRunAction {
	switch c.RunsOnCondition {
	case RunOnAlways:
		return ShouldRunActionRun
	case RunOnSuccess:
		if errors.Is(prev.Err, ErrSkipIntentional) {
			return ShouldRunActionSkip
		}

		if prev.State != ResultStatusSuccess {
			return ShouldRunActionError
		}

		return ShouldRunActionRun
	case RunOnExitCodes:
		if !slices.Contains(c.RunsOnExitCodes, prev.ExitCode) {
			return ShouldRunActionSkip
		}

		return ShouldRunActionRun
	case RunOnError:
		if prev.State != ResultStatusError {
			return ShouldRunActionError
		}

		return ShouldRunActionRun
	}

	return ShouldRunActionRun
}
