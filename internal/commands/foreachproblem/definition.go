// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package foreachproblem

import "github.com/matt-FFFFFF/hew/internal/commands"

// Definition is the YAML definition for the foreachproblem command.
type Definition struct {
	commands.BaseDefinition `yaml:",inline"`
	// ProblemsDir is the problem catalog root, relative to the command's working directory.
	ProblemsDir string `yaml:"problems_dir" docdesc:"Problem catalog root, relative to the working directory"`
	// Mode selects serial or parallel iteration.
	Mode string `yaml:"mode,omitempty" docdesc:"Iteration mode, serial (default) or parallel"`
	// MaxConcurrency bounds parallel iterations, zero means unbounded.
	MaxConcurrency int `yaml:"max_concurrency,omitempty" docdesc:"Maximum number of concurrent iterations, zero means unbounded"` //nolint:lll
	// CwdFromItem runs each iteration inside the problem directory.
	CwdFromItem bool `yaml:"cwd_from_item,omitempty" docdesc:"Run each iteration inside the problem directory"`
	// Commands are the nested command definitions, run once per problem.
	Commands []map[string]any `yaml:"commands" docdesc:"Commands to run once per problem"`
}
