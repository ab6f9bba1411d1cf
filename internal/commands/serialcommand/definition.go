// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package serialcommand

import "github.com/matt-FFFFFF/hew/internal/commands"

// Definition is the YAML definition for the serial command.
type Definition struct {
	commands.BaseDefinition `yaml:",inline"`
	// Commands are the nested command definitions, run one after another.
	Commands []map[string]any `yaml:"commands" docdesc:"Commands to run one after another"`
}
