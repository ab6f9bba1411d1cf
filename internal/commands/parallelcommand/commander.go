// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parallelcommand provides a command type that runs its children concurrently.
package parallelcommand

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/hew/internal/commands"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
	"github.com/matt-FFFFFF/hew/internal/schema"
)

var (
	_ commands.Commander = (*Commander)(nil)
	_ schema.Provider    = (*Commander)(nil)
)

// Commander implements the commands.Commander interface for parallel batches.
type Commander struct{}

// Create creates a new parallel batch from its YAML definition.
func (c *Commander) Create(
	ctx context.Context,
	factory commands.CommanderFactory,
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

	batch := &runbatch.ParallelBatch{
		BaseCommand:    base,
		MaxConcurrency: def.MaxConcurrency,
	}

	children := make([]runbatch.Runnable, 0, len(def.Commands))

	for i, child := range def.Commands {
		childYAML, err := yaml.Marshal(child)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal nested command %d: %w", i, err)
		}

		runnable, err := factory.CreateRunnableFromYAML(ctx, childYAML)
		if err != nil {
			return nil, fmt.Errorf("failed to create nested command %d: %w", i, err)
		}

		runnable.SetParent(batch)
		children = append(children, runnable)
	}

	batch.Commands = children

	return batch, nil
}

// GetCommandType returns the command type string.
func (c *Commander) GetCommandType() string {
	return commandType
}

// GetCommandDescription returns a description of what this command does.
func (c *Commander) GetCommandDescription() string {
	return "Runs nested commands concurrently with optional bounded concurrency."
}

// GetSchemaFields returns the schema fields for the parallel command type.
func (c *Commander) GetSchemaFields() []schema.Field {
	fields, err := schema.NewGenerator().Generate(&Definition{})
	if err != nil {
		return nil
	}

	return fields
}
