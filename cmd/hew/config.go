// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/hew/internal/commands"
	"github.com/matt-FFFFFF/hew/internal/hcl"
	"github.com/matt-FFFFFF/hew/internal/schema"
	"github.com/urfave/cli/v3"
)

const (
	commandTypeArg = "command-type"
	formatFlag     = "format"
	dirFlag        = "dir"
)

// configCmd documents the command types known to the registry and hosts the
// HCL expression debugger.
var configCmd = &cli.Command{
	Name:        "config",
	Usage:       "Get info on configuration format and commands",
	Description: "Display schema documentation for the command types known to the registry.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: commandTypeArg,
		},
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        formatFlag,
			Usage:       "Output format: yaml, markdown, or json",
			DefaultText: "yaml",
			Value:       "yaml",
		},
	},
	Commands: []*cli.Command{
		debugCmd,
	},
	Action: configActionFunc,
}

// debugCmd starts an interactive REPL for evaluating HCL expressions against
// a loaded configuration.
var debugCmd = &cli.Command{
	Name:        "debug",
	Description: "Start an interactive REPL for evaluating HCL expressions against *.hew.hcl files.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     dirFlag,
			Aliases:  []string{"d"},
			Usage:    "Directory containing *.hew.hcl files",
			Value:    ".",
			OnlyOnce: true,
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		dir := cmd.String(dirFlag)

		cfg, err := hcl.BuildHewConfig(ctx, dir, dir, nil)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		hcl.EnterDebugMode(cfg)

		return nil
	},
}

func configActionFunc(ctx context.Context, cmd *cli.Command) error {
	factory := commands.FactoryFromContext(ctx)
	if factory == nil {
		return cli.Exit("failed to get command factory from context", 1)
	}

	commandType := cmd.StringArg(commandTypeArg)

	if commandType == "" {
		return listCommandTypes(cmd, factory)
	}

	commander, ok := factory.Get(commandType)
	if !ok {
		return cli.Exit(fmt.Sprintf("Unknown command type: %s", commandType), 1)
	}

	provider, ok := commander.(schema.Provider)
	if !ok {
		return cli.Exit(fmt.Sprintf("Command type %s does not provide schema documentation", commandType), 1)
	}

	switch strings.ToLower(cmd.String(formatFlag)) {
	case "yaml":
		return schema.WriteYAMLExample(cmd.Writer, provider)
	case "markdown", "md":
		return schema.WriteMarkdown(cmd.Writer, provider)
	case "json":
		return schema.WriteJSON(cmd.Writer, provider)
	default:
		return cli.Exit(fmt.Sprintf("Invalid format: %s. Valid formats: yaml, markdown, json", cmd.String(formatFlag)), 1)
	}
}

func listCommandTypes(cmd *cli.Command, factory commands.CommanderFactory) error {
	fmt.Fprintln(cmd.Writer, "Available command types:")
	fmt.Fprintln(cmd.Writer)

	for commandType, commander := range factory.Iter() {
		description := "Description not available"
		if provider, ok := commander.(schema.Provider); ok {
			description = provider.GetCommandDescription()
		}

		fmt.Fprintf(cmd.Writer, "  %-18s - %s\n", commandType, description)
	}

	fmt.Fprintln(cmd.Writer)
	fmt.Fprintln(cmd.Writer, "Use 'hew config <command-type>' to see the schema for a command type.")
	fmt.Fprintln(cmd.Writer, "Use 'hew config <command-type> --format markdown' for markdown documentation.")
	fmt.Fprintln(cmd.Writer, "Use 'hew config debug' to evaluate HCL expressions interactively.")

	return nil
}
