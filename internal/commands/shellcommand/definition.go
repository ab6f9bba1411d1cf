// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shellcommand

import "github.com/matt-FFFFFF/hew/internal/commands"

// Definition is the YAML definition for the shell command.
type Definition struct {
	commands.BaseDefinition `yaml:",inline"`
	// CommandLine is the command to execute, passed to the shell verbatim.
	CommandLine string `yaml:"command_line" docdesc:"The command line to execute, passed to the shell verbatim"`
	// SuccessExitCodes are exit codes that indicate success, defaults to [0].
	SuccessExitCodes []int `yaml:"success_exit_codes,omitempty" docdesc:"Exit codes that indicate success, defaults to 0"`
	// SkipExitCodes are exit codes that skip the remaining commands in the batch.
	SkipExitCodes []int `yaml:"skip_exit_codes,omitempty" docdesc:"Exit codes that skip the remaining commands in the batch"` //nolint:lll
}
