// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"iter"

	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

// Commander creates runnable commands from raw YAML definitions.
type Commander interface {
	// Create builds a runnable from the YAML payload. The factory is supplied
	// so that container commands can create their children.
	Create(ctx context.Context, factory CommanderFactory, payload []byte) (runbatch.Runnable, error)
}

// CommanderFactory dispatches YAML definitions to registered commanders.
type CommanderFactory interface {
	// CreateRunnableFromYAML creates a runnable from a YAML definition,
	// using the definition's type field to select the commander.
	CreateRunnableFromYAML(ctx context.Context, yamlData []byte) (runbatch.Runnable, error)
	// Get returns the commander for a command type.
	Get(commandType string) (Commander, bool)
	// Iter iterates over the registered command types and their commanders.
	Iter() iter.Seq2[string, Commander]
}

// FactoryContextKey is the context key under which the CommanderFactory is carried.
type FactoryContextKey struct{}

// FactoryFromContext returns the CommanderFactory carried by the context, or nil.
func FactoryFromContext(ctx context.Context) CommanderFactory {
	factory, _ := ctx.Value(FactoryContextKey{}).(CommanderFactory)
	return factory
}
