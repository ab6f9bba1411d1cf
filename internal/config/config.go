// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/hew/internal/commands"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	// ErrInvalidYaml is returned when the configuration cannot be parsed.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrNoTargets is returned when the configuration defines no targets.
	ErrNoTargets = errors.New("no targets defined")
	// ErrUnknownTarget is returned when a requested target is not defined.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrBuildTarget is returned when a target definition cannot be built
	// into a runnable.
	ErrBuildTarget = errors.New("failed to build target")
)

// Definition is the root hew.yaml structure.
type Definition struct {
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description"`
	Targets     map[string]map[string]any `yaml:"targets"`
}

// Config holds the built runnables for every target.
type Config struct {
	Name        string
	Description string
	targets     map[string]runbatch.Runnable
}

// Default builds a config from the embedded defaults only.
func Default(ctx context.Context, factory commands.CommanderFactory) (*Config, error) {
	return Load(ctx, factory, nil)
}

// Load parses the YAML configuration and builds a runnable per target. The
// embedded defaults are applied first and the given configuration overrides
// or extends them target by target. A nil data slice loads the defaults.
func Load(ctx context.Context, factory commands.CommanderFactory, data []byte) (*Config, error) {
	def, err := parse(defaultYAML)
	if err != nil {
		return nil, err
	}

	if data != nil {
		user, err := parse(data)
		if err != nil {
			return nil, err
		}

		if user.Name != "" {
			def.Name = user.Name
		}

		if user.Description != "" {
			def.Description = user.Description
		}

		for name, command := range user.Targets {
			def.Targets[name] = command
		}
	}

	if len(def.Targets) == 0 {
		return nil, ErrNoTargets
	}

	cfg := &Config{
		Name:        def.Name,
		Description: def.Description,
		targets:     make(map[string]runbatch.Runnable, len(def.Targets)),
	}

	for name, command := range def.Targets {
		runnable, err := buildTarget(ctx, factory, name, command)
		if err != nil {
			return nil, err
		}

		cfg.targets[name] = runnable
	}

	return cfg, nil
}

func parse(data []byte) (*Definition, error) {
	def := new(Definition)
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, errors.Join(ErrInvalidYaml, err)
	}

	if def.Targets == nil {
		def.Targets = make(map[string]map[string]any)
	}

	return def, nil
}

// buildTarget builds the command definition and wraps it in a serial batch
// labelled with the target name, so results read as "target > command".
func buildTarget(
	ctx context.Context,
	factory commands.CommanderFactory,
	name string,
	command map[string]any,
) (runbatch.Runnable, error) {
	cmdYAML, err := yaml.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrBuildTarget, name, err)
	}

	runnable, err := factory.CreateRunnableFromYAML(ctx, cmdYAML)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrBuildTarget, name, err)
	}

	batch := &runbatch.SerialBatch{
		BaseCommand: runbatch.NewBaseCommand(name, "", runbatch.RunOnSuccess, nil, nil),
		Commands:    []runbatch.Runnable{runnable},
	}
	runnable.SetParent(batch)

	return batch, nil
}

// Target returns the runnable for the named target.
func (c *Config) Target(name string) (runbatch.Runnable, error) {
	runnable, ok := c.targets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}

	return runnable, nil
}

// Targets returns the sorted names of all configured targets.
func (c *Config) Targets() []string {
	names := make([]string, 0, len(c.targets))
	for name := range c.targets {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
