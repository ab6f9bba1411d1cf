// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	targetLint      = "lint"
	targetLintFix   = "lint-fix"
	targetFormat    = "format"
	targetFormatFix = "format-fix"
	targetTypecheck = "typecheck"

	cliExitStr = ""
)

// targetCmd creates a top-level subcommand that runs one named target. The
// process exit code equals the exit code of the delegated external command.
func targetCmd(name, usage string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runTarget(ctx, cmd, name)
		},
	}
}

// targetsCmd lists the targets available in the configuration.
var targetsCmd = &cli.Command{
	Name:        "targets",
	Description: "List the targets available in the configuration.",
	Flags:       configFlags(),
	Action: func(ctx context.Context, cmd *cli.Command) error {
		targets, err := loadTargets(ctx, cmd)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		for _, name := range sortedTargetNames(targets) {
			fmt.Fprintln(cmd.Writer, name)
		}

		return nil
	},
}

func runTarget(ctx context.Context, cmd *cli.Command, name string) error {
	logger := ctxlog.Logger(ctx).With("target", name)

	targets, err := loadTargets(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	runnable, ok := targets[name]
	if !ok {
		logger.Error(fmt.Sprintf(
			"Unknown target %q. Available targets: %s",
			name, strings.Join(sortedTargetNames(targets), ", "),
		))

		return cli.Exit(cliExitStr, 1)
	}

	res := runnable.Run(ctx)

	if err := runbatch.WriteResults(cmd.Writer, res, nil); err != nil {
		logger.Error(fmt.Sprintf("Failed to write results: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	// Exit code pass-through: the process exits with the delegated
	// command's exit code.
	if code := res.FirstFailureExitCode(); code != 0 {
		return cli.Exit(cliExitStr, code)
	}

	return nil
}
