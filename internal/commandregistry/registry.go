// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commandregistry

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/hew/internal/commands"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

var (
	// ErrUnknownCommandType is returned when a command type is not registered.
	ErrUnknownCommandType = errors.New("unknown command type")
	// ErrCommandCreation is returned when a command cannot be created.
	ErrCommandCreation = errors.New("failed to create command")
	// ErrCommandUnmarshal is returned when a command cannot be unmarshaled.
	ErrCommandUnmarshal = errors.New("failed to unmarshal command definition")
)

var _ commands.CommanderFactory = (Registry)(nil)

// Registry holds the mapping between command types and their commanders.
type Registry map[string]commands.Commander

// RegisterFunc adds one or more command types to a registry.
// Each command package exports one for its type.
type RegisterFunc func(Registry)

// New creates a registry populated by the given register functions.
func New(registrations ...RegisterFunc) Registry {
	r := make(Registry, len(registrations))
	for _, register := range registrations {
		register(r)
	}

	return r
}

// Register adds a command type to the registry.
func (r Registry) Register(commandType string, commander commands.Commander) {
	r[commandType] = commander
}

// Get returns the commander for a command type.
func (r Registry) Get(commandType string) (commands.Commander, bool) {
	commander, ok := r[commandType]
	return commander, ok
}

// Iter iterates over the registered command types and their commanders.
func (r Registry) Iter() iter.Seq2[string, commands.Commander] {
	return maps.All(r)
}

// typedDefinition extracts just the type field from a command definition.
type typedDefinition struct {
	Type string `yaml:"type"`
}

// CreateRunnableFromYAML creates a runnable from a YAML definition using the
// definition's type field to select the commander.
func (r Registry) CreateRunnableFromYAML(ctx context.Context, yamlData []byte) (runbatch.Runnable, error) {
	var def typedDefinition
	if err := yaml.Unmarshal(yamlData, &def); err != nil {
		return nil, errors.Join(ErrCommandUnmarshal, err)
	}

	commander, ok := r.Get(def.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommandType, def.Type)
	}

	runnable, err := commander.Create(ctx, r, yamlData)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCommandCreation, def.Type, err)
	}

	return runnable, nil
}
