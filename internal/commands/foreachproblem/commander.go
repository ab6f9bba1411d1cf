// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package foreachproblem provides a command type that runs its nested
// commands once per problem in a catalog, with the problem directory exposed
// to each iteration via the ITEM environment variable.
package foreachproblem

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/hew/internal/commands"
	"github.com/matt-FFFFFF/hew/internal/problems"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
	"github.com/matt-FFFFFF/hew/internal/schema"
	"github.com/spf13/afero"
)

var (
	_ commands.Commander = (*Commander)(nil)
	_ schema.Provider    = (*Commander)(nil)
)

// fsFactory returns the filesystem the items provider lists problems from.
// Tests stub it with an in-memory filesystem.
var fsFactory = func() afero.Fs { return afero.NewOsFs() }

// Commander implements the commands.Commander interface for foreachproblem.
type Commander struct{}

// Create creates a new foreach command from its YAML definition.
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

	mode, err := runbatch.ParseForEachMode(def.Mode)
	if err != nil {
		return nil, errors.Join(commands.NewErrCommandCreate(commandType), err)
	}

	forEach := &runbatch.ForEachCommand{
		BaseCommand:    base,
		ItemsProvider:  problemDirsProvider(def.ProblemsDir),
		Mode:           mode,
		CwdFromItem:    def.CwdFromItem,
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

		runnable.SetParent(forEach)
		children = append(children, runnable)
	}

	forEach.Commands = children

	return forEach, nil
}

// problemDirsProvider lists the directories of every problem under the
// catalog root, resolved against the command's working directory.
func problemDirsProvider(problemsDir string) runbatch.ItemsProviderFunc {
	return func(_ context.Context, workingDirectory string) ([]string, error) {
		root := problemsDir
		if !filepath.IsAbs(root) {
			root = filepath.Join(workingDirectory, root)
		}

		names, err := problems.New(fsFactory(), root).List()
		if err != nil {
			return nil, err
		}

		dirs := make([]string, len(names))
		for i, name := range names {
			dirs[i] = filepath.Join(root, name)
		}

		return dirs, nil
	}
}

// GetCommandType returns the command type string.
func (c *Commander) GetCommandType() string {
	return commandType
}

// GetCommandDescription returns a description of what this command does.
func (c *Commander) GetCommandDescription() string {
	return "Runs nested commands once per problem in a catalog directory."
}

// GetSchemaFields returns the schema fields for the foreachproblem command type.
func (c *Commander) GetSchemaFields() []schema.Field {
	fields, err := schema.NewGenerator().Generate(&Definition{})
	if err != nil {
		return nil
	}

	return fields
}
