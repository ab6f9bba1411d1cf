// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
	"github.com/matt-FFFFFF/hew/internal/tui"
	"github.com/urfave/cli/v3"
)

const (
	outFlag                  = "out"
	noOutputStdErrFlag       = "no-output-stderr"
	outputStdOutFlag         = "output-stdout"
	outputSuccessDetailsFlag = "output-success-details"
	parallelismFlag          = "parallelism"
	tuiFlag                  = "tui"
)

// runCmd runs one or more named targets from the configuration.
var runCmd = &cli.Command{
	Name: "run",
	Description: `Run one or more named targets from the configuration.
Targets may be a single shell command or a composed workflow (serial,
parallel, for-each-problem) and are defined in a YAML file (hew.yaml by
default) or in *.hew.hcl files.

Config file URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.

To save the results to a file, use the --out flag and replay them later with 'hew show'.
`,
	Usage:     "hew run <target> [<target>...]",
	Arguments: []cli.Argument{},
	Flags: append(configFlags(),
		&cli.StringFlag{
			Name:      outFlag,
			Usage:     "Specify the output file name",
			TakesFile: true,
			Value:     "",
			OnlyOnce:  true,
		},
		&cli.BoolFlag{
			Name:        outputSuccessDetailsFlag,
			Aliases:     []string{"success"},
			Usage:       "Include successful results in the output",
			DefaultText: "false",
			Value:       false,
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        noOutputStdErrFlag,
			Aliases:     []string{"no-stderr"},
			Usage:       "Exclude stderr output in the results",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        outputStdOutFlag,
			Aliases:     []string{"stdout"},
			Usage:       "Include stdout output in the results",
			DefaultText: "false",
			Value:       false,
			OnlyOnce:    true,
		},
		&cli.IntFlag{
			Name:    parallelismFlag,
			Aliases: []string{"p"},
			Usage: "Set the maximum number of concurrent commands to run. " +
				"Defaults to the number of CPU cores available.",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:        tuiFlag,
			Aliases:     []string{"t", "interactive"},
			Usage:       "Run with interactive Terminal User Interface (TUI) showing real-time progress",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
	),
	Action: runActionFunc,
}

func runActionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running run command")

	if cmd.Int(parallelismFlag) > 0 {
		runtime.GOMAXPROCS(cmd.Int(parallelismFlag))
	}

	names := cmd.Args().Slice()

	targets, err := loadTargets(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if len(names) == 0 {
		logger.Error(fmt.Sprintf(
			"Please specify at least one target. Available targets: %s",
			strings.Join(sortedTargetNames(targets), ", "),
		))

		return cli.Exit(cliExitStr, 1)
	}

	runnables := make([]runbatch.Runnable, 0, len(names))

	for _, name := range names {
		runnable, ok := targets[name]
		if !ok {
			logger.Error(fmt.Sprintf(
				"Unknown target %q. Available targets: %s",
				name, strings.Join(sortedTargetNames(targets), ", "),
			))

			return cli.Exit(cliExitStr, 1)
		}

		runnables = append(runnables, runnable)
	}

	var topRunnable runbatch.Runnable

	switch len(runnables) {
	case 1:
		topRunnable = runnables[0]
	default:
		batch := &runbatch.SerialBatch{
			BaseCommand: runbatch.NewBaseCommand("Aggregate", "", runbatch.RunOnSuccess, nil, nil),
			Commands:    runnables,
		}
		for _, r := range runnables {
			r.SetParent(batch)
		}

		topRunnable = batch
	}

	// Execute with TUI or regular mode based on flag
	var res runbatch.Results

	var execErr error

	switch cmd.Bool(tuiFlag) {
	case true:
		// Run with TUI - use TUI-compatible logger that won't interfere with display
		logger.Info("Starting interactive TUI mode...")

		buf := new(bytes.Buffer)
		// Create a TUI-friendly context that suppresses log output
		tuiCtx := ctxlog.NewForTUI(ctx, buf)

		runner := tui.NewRunner(tuiCtx)

		res, execErr = runner.Run(tuiCtx, topRunnable)

		buf.WriteTo(cmd.Writer) //nolint:errcheck // Write any buffered log output to the command writer

		if execErr != nil {
			logger.Error(fmt.Sprintf("TUI execution error: %s", execErr.Error()), "error", execErr.Error())
		}
	default:
		// Run in standard mode
		res = topRunnable.Run(ctx)
	}

	outFileName := cmd.String(outFlag)
	if outFileName != "" {
		f, err := os.Create(outFileName) // Create the output file if it doesn't exist
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create output file %s: %s", outFileName, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		defer f.Close() //nolint:errcheck

		if err := runbatch.WriteBinary(f, res); err != nil {
			logger.Error(fmt.Sprintf("Failed to write results to file %s: %s", outFileName, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		logger.Info(fmt.Sprintf("Results written to %s", outFileName))
	}

	opts := runbatch.DefaultOutputOptions()
	opts.IncludeStdErr = !cmd.Bool(noOutputStdErrFlag)
	opts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
	opts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)

	logger.Info("Displaying results...")

	if err := runbatch.WriteResults(cmd.Writer, res, opts); err != nil {
		logger.Error(fmt.Sprintf("Failed to write results: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	if code := res.FirstFailureExitCode(); code != 0 {
		logger.Error("Some commands failed. See above for details.")
		return cli.Exit(cliExitStr, code)
	}

	return nil
}
