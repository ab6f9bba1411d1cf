// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shellcommand

import (
	"context"
	"errors"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/hew/internal/commands"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
	"github.com/matt-FFFFFF/hew/internal/schema"
)

var (
	_ commands.Commander = (*Commander)(nil)
	_ schema.Provider    = (*Commander)(nil)
)

// Commander implements the commands.Commander interface for shell commands.
type Commander struct{}

// Create creates a new runnable shell command from its YAML definition.
func (c *Commander) Create(
	ctx context.Context,
	_ commands.CommanderFactory,
	payload []byte,
) (runbatch.Runnable, error) {
	def := new(Definition)
	if err := yaml.Unmarshal(payload, def); err != nil {
		return nil, errors.Join(commands.ErrYamlUnmarshal, err)
	}

	base, err := def.ToBaseCommand()
	if err != nil {
		return nil, errors.Join(commands.NewErrCommandCreate(commandType), err)
	}

	return New(ctx, base, def.CommandLine, def.SuccessExitCodes, def.SkipExitCodes)
}

// GetCommandType returns the command type string.
func (c *Commander) GetCommandType() string {
	return commandType
}

// GetCommandDescription returns a description of what this command does.
func (c *Commander) GetCommandDescription() string {
	return "Runs a command line through the shell with configurable success and skip exit codes."
}

// GetSchemaFields returns the schema fields for the shell command type.
func (c *Commander) GetSchemaFields() []schema.Field {
	fields, err := schema.NewGenerator().Generate(&Definition{})
	if err != nil {
		return nil
	}

	return fields
}
