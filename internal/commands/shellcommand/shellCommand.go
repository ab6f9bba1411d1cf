// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shellcommand provides a command type that runs a command line
// through the user's shell.
package shellcommand

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

const (
	goosWindows          = "windows"
	commandSwitchWindows = "/C" // Command switch for Windows cmd.exe
	commandSwitchUnix    = "-c" // Command switch for Unix-like shells
	cmdExeWindows        = `C:\Windows\System32\cmd.exe`
	binSh                = "/bin/sh"
)

// ErrEmptyCommandLine is returned when the command line is empty.
var ErrEmptyCommandLine = errors.New("command line must not be empty")

// New creates a runbatch.OSCommand that runs the command line via the shell.
// On Unix-like systems this is $SHELL or /bin/sh, on Windows cmd.exe.
func New(
	ctx context.Context,
	base *runbatch.BaseCommand,
	commandLine string,
	successExitCodes []int,
	skipExitCodes []int,
) (*runbatch.OSCommand, error) {
	if commandLine == "" {
		return nil, ErrEmptyCommandLine
	}

	commandSwitch := commandSwitchUnix
	if runtime.GOOS == goosWindows {
		commandSwitch = commandSwitchWindows
	}

	return &runbatch.OSCommand{
		BaseCommand:      base,
		Path:             defaultShell(ctx),
		Args:             []string{commandSwitch, commandLine},
		SuccessExitCodes: successExitCodes,
		SkipExitCodes:    skipExitCodes,
	}, nil
}

func defaultShell(ctx context.Context) string {
	if runtime.GOOS == goosWindows {
		return cmdExeWindows
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		ctxlog.Debug(ctx, "using SHELL environment variable", "shell", shell)
		return shell
	}

	return binSh
}
