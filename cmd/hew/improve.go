// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/evaluate"
	"github.com/matt-FFFFFF/hew/internal/improve"
	"github.com/matt-FFFFFF/hew/internal/problems"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	generatorFlag            = "generator"
	generatorTimeoutFlag     = "generator-timeout"
	solveMarkerFlag          = "solve-marker"
	maxIterationsFlag        = "max-iterations"
	scoreThresholdFlag       = "score-threshold"
	improvementThresholdFlag = "improvement-threshold"
	patienceFlag             = "patience"
	runsDirFlag              = "runs-dir"
)

// improveCmd iteratively generates, evaluates and refines candidate solutions.
var improveCmd = &cli.Command{
	Name: "improve",
	Description: `Iteratively improve a solution for a problem.
Each iteration renders a prompt (initial, then improvement-with-feedback),
pipes it to the generator command on stdin, extracts the last fenced code
block from its stdout, validates the solve marker, saves the candidate and
evaluates it. The loop stops at the score threshold, after max iterations,
or on diminishing returns over the patience window.

Artifacts are written to a timestamped directory under --runs-dir.`,
	Usage: "hew improve <name> --generator <command> --runner <command>",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: problemArg,
		},
	},
	Flags: []cli.Flag{
		problemsDirFlagDef(),
		&cli.StringFlag{
			Name:     generatorFlag,
			Aliases:  []string{"g"},
			Usage:    "Shell command that reads the prompt on stdin and writes the candidate to stdout",
			Required: true,
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     generatorTimeoutFlag,
			Usage:    "Timeout for one generator invocation",
			Value:    improve.DefaultGeneratorTimeout,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     solveMarkerFlag,
			Usage:    "Text that must appear in every candidate, e.g. the solve entrypoint",
			Value:    "solve",
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     maxIterationsFlag,
			Aliases:  []string{"n"},
			Usage:    "Maximum number of iterations",
			Value:    improve.DefaultMaxIterations,
			OnlyOnce: true,
		},
		&cli.FloatFlag{
			Name:     scoreThresholdFlag,
			Usage:    "Stop when the overall score reaches this value",
			Value:    improve.DefaultScoreThreshold,
			OnlyOnce: true,
		},
		&cli.FloatFlag{
			Name:     improvementThresholdFlag,
			Usage:    "Minimum average improvement over the patience window to keep going",
			Value:    improve.DefaultImprovementThreshold,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     patienceFlag,
			Usage:    "Number of recent scores checked for diminishing returns",
			Value:    improve.DefaultPatience,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     runsDirFlag,
			Usage:    "Parent directory for the timestamped run directories",
			Value:    "runs",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     runnerFlag,
			Aliases:  []string{"r"},
			Usage:    "Shell command executed once per test case during evaluation",
			Required: true,
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     caseTimeoutFlag,
			Usage:    "Per-case timeout during evaluation",
			Value:    evaluate.DefaultTimeout,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:    parallelismFlag,
			Aliases: []string{"p"},
			Usage:   "Maximum number of concurrent case runs during evaluation",
			Value:   0,
		},
		&cli.StringFlag{
			Name:     scorePathFlag,
			Usage:    "JSONPath expression applied to the runner's JSON stdout",
			OnlyOnce: true,
		},
	},
	Action: improveActionFunc,
}

func improveActionFunc(ctx context.Context, cmd *cli.Command) error {
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

	loop := improve.NewLoop(fsys, problem, improve.Options{
		Generator:            cmd.String(generatorFlag),
		GeneratorTimeout:     cmd.Duration(generatorTimeoutFlag),
		SolveMarker:          cmd.String(solveMarkerFlag),
		MaxIterations:        cmd.Int(maxIterationsFlag),
		ScoreThreshold:       cmd.Float(scoreThresholdFlag),
		ImprovementThreshold: cmd.Float(improvementThresholdFlag),
		Patience:             cmd.Int(patienceFlag),
		RunsDir:              cmd.String(runsDirFlag),
		Eval: evaluate.Options{
			Runner:      cmd.String(runnerFlag),
			Timeout:     cmd.Duration(caseTimeoutFlag),
			MaxParallel: cmd.Int(parallelismFlag),
			ScorePath:   cmd.String(scorePathFlag),
		},
	})

	summary, err := loop.Run(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger.Info("improvement loop finished",
		"problem", summary.Problem,
		"iterations", summary.TotalIterations,
		"best_score", summary.BestScore,
		"best_iteration", summary.BestIteration,
		"final_score", summary.FinalScore,
		"stop_reason", summary.StopReason,
	)

	fmt.Fprintf(cmd.Writer, "Best score %.4f at iteration %d after %d iterations (%s).\n",
		summary.BestScore, summary.BestIteration, summary.TotalIterations, summary.StopReason)
	fmt.Fprintf(cmd.Writer, "Artifacts in %s\n", summary.RunDir)

	return nil
}
