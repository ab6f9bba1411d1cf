// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the hew command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/hew"
	"github.com/matt-FFFFFF/hew/internal/commandregistry"
	"github.com/matt-FFFFFF/hew/internal/commands"
	"github.com/matt-FFFFFF/hew/internal/commands/foreachproblem"
	"github.com/matt-FFFFFF/hew/internal/commands/parallelcommand"
	"github.com/matt-FFFFFF/hew/internal/commands/serialcommand"
	"github.com/matt-FFFFFF/hew/internal/commands/shellcommand"
	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		targetCmd(targetLint, "Run the lint target (check only)"),
		targetCmd(targetLintFix, "Run the lint target in apply mode"),
		targetCmd(targetFormat, "Run the format target (check only)"),
		targetCmd(targetFormatFix, "Run the format target in apply mode"),
		targetCmd(targetTypecheck, "Run the typecheck target"),
		targetsCmd,
		runCmd,
		showCmd,
		configCmd,
		problemCmd,
		evaluateCmd,
		improveCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "hew",
	Description: `Hew is a task-target orchestrator. It exposes named build targets
(lint, format, typecheck and their -fix variants) that delegate to external
tools with exit-code pass-through, plus a YAML/HCL-driven workflow runner and
a heuristic-problem evaluation and improvement toolkit.`,
	Usage:     "hew lint",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", hew.Version, hew.Commit)

	factory := commandregistry.New(
		serialcommand.Register,
		parallelcommand.Register,
		shellcommand.Register,
		foreachproblem.Register,
	)

	ctx = context.WithValue(ctx, commands.FactoryContextKey{}, factory)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
