// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/evaluate"
	"github.com/matt-FFFFFF/hew/internal/problems"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	solutionFlag       = "solution"
	runnerFlag         = "runner"
	caseTimeoutFlag    = "case-timeout"
	scorePathFlag      = "score-path"
	feedbackLengthFlag = "feedback-length"
	outputDirFlag      = "output-dir"
	iterationFlag      = "iteration"
)

// evaluateCmd runs a solution against every test case of a problem.
var evaluateCmd = &cli.Command{
	Name: "evaluate",
	Description: `Evaluate a solution against every test case of a problem.
The runner command executes once per case with HEW_CASE, HEW_SOLUTION and
HEW_PROBLEM in its environment. The score is the last float on stdout, or a
JSONPath expression applied to JSON stdout when --score-path is given.

The command exits non-zero only when every case errored or the run could not start.`,
	Usage: "hew evaluate <name> --solution <file> --runner <command>",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: problemArg,
		},
	},
	Flags: []cli.Flag{
		problemsDirFlagDef(),
		&cli.StringFlag{
			Name:      solutionFlag,
			Aliases:   []string{"s"},
			Usage:     "Path to the solution file under evaluation",
			TakesFile: true,
			Required:  true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:     runnerFlag,
			Aliases:  []string{"r"},
			Usage:    "Shell command executed once per test case",
			Required: true,
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     caseTimeoutFlag,
			Usage:    "Per-case timeout",
			Value:    evaluate.DefaultTimeout,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:    parallelismFlag,
			Aliases: []string{"p"},
			Usage: "Set the maximum number of concurrent case runs. " +
				"Defaults to the number of CPU cores available.",
			Value: 0,
		},
		&cli.StringFlag{
			Name:     scorePathFlag,
			Usage:    "JSONPath expression applied to the runner's JSON stdout, e.g. $.result.score",
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     feedbackLengthFlag,
			Usage:    "Maximum per-case feedback length in characters",
			Value:    evaluate.DefaultFeedbackLength,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     outputDirFlag,
			Aliases:  []string{"o"},
			Usage:    "Write eval_<n>.txt and eval_<n>.json reports to this directory",
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     iterationFlag,
			Usage:    "Iteration number used in the report file names",
			Value:    0,
			OnlyOnce: true,
		},
	},
	Action: evaluateActionFunc,
}

func evaluateActionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	name := cmd.StringArg(problemArg)
	if name == "" {
		return cli.Exit("Please specify a problem name.", 1)
	}

	fsys := afero.NewOsFs()

	problem, err := problems.New(fsys, cmd.String(problemsDirFlag)).Load(name)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	evaluator := evaluate.New(problem, evaluate.Options{
		Runner:         cmd.String(runnerFlag),
		Timeout:        cmd.Duration(caseTimeoutFlag),
		MaxParallel:    cmd.Int(parallelismFlag),
		ScorePath:      cmd.String(scorePathFlag),
		FeedbackLength: cmd.Int(feedbackLengthFlag),
	})

	feedback, evalErr := evaluator.Evaluate(ctx, cmd.String(solutionFlag))
	if feedback == nil {
		return cli.Exit(evalErr.Error(), 1)
	}

	iteration := cmd.Int(iterationFlag)

	if err := feedback.WriteText(cmd.Writer, iteration); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if dir := cmd.String(outputDirFlag); dir != "" {
		txtPath, jsonPath, err := evaluate.SaveReports(fsys, dir, iteration, feedback)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		logger.Info("reports written", "text", txtPath, "json", jsonPath)
	}

	// Individual case failures are reported in the feedback; only a run
	// where every case errored fails the command.
	if evalErr != nil {
		logger.Error(fmt.Sprintf("Evaluation failed: %s", evalErr.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}
