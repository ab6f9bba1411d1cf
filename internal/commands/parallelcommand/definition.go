// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallelcommand

import "github.com/matt-FFFFFF/hew/internal/commands"

// Definition is the YAML definition for the parallel command.
type Definition struct {
	commands.BaseDefinition `yaml:",inline"`
	// Commands are the nested command definitions, run concurrently.
	Commands []map[string]any `yaml:"commands" docdesc:"Commands to run concurrently"`
	// MaxConcurrency bounds how many commands run at once, zero means unbounded.
	MaxConcurrency int `yaml:"max_concurrency,omitempty" docdesc:"Maximum number of commands running at once, zero means unbounded"` //nolint:lll
}
