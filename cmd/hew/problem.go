// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/hew/internal/problems"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	problemArg      = "problem"
	problemsDirFlag = "problems-dir"
)

func problemsDirFlagDef() cli.Flag {
	return &cli.StringFlag{
		Name:     problemsDirFlag,
		Usage:    "Directory containing the problem catalog",
		Value:    "problems",
		OnlyOnce: true,
	}
}

// problemCmd prints a problem's description and solve template.
var problemCmd = &cli.Command{
	Name:        "problem",
	Description: "Print the description and solve template for a problem. Without a name, list the available problems.",
	Usage:       "hew problem <name>",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: problemArg,
		},
	},
	Flags: []cli.Flag{
		problemsDirFlagDef(),
	},
	Action: problemActionFunc,
}

func problemActionFunc(_ context.Context, cmd *cli.Command) error {
	catalog := problems.New(afero.NewOsFs(), cmd.String(problemsDirFlag))

	name := cmd.StringArg(problemArg)
	if name == "" {
		return listProblems(cmd, catalog, 0)
	}

	problem, err := catalog.Load(name)
	if err != nil {
		if errors.Is(err, problems.ErrProblemNotFound) {
			fmt.Fprintf(cmd.ErrWriter, "Unknown problem %q.\n\n", name)
			return listProblems(cmd, catalog, 1)
		}

		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintln(cmd.Writer, problem.RenderDescription())

	return nil
}

func listProblems(cmd *cli.Command, catalog *problems.Catalog, exitCode int) error {
	names, err := catalog.List()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintln(cmd.Writer, "Available problems:")

	for _, name := range names {
		fmt.Fprintf(cmd.Writer, "  %s\n", name)
	}

	if exitCode != 0 {
		return cli.Exit(cliExitStr, exitCode)
	}

	return nil
}
