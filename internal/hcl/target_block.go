// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package hcl

import (
	"github.com/Azure/golden"
	"github.com/zclconf/go-cty/cty"
)

var _ golden.ApplyBlock = (*TargetBlock)(nil)

// TargetBlock is a named target defined in a `.hew.hcl` file.
type TargetBlock struct {
	*golden.BaseBlock
	TargetName  string          `hcl:"name"`
	Description string          `hcl:"description,optional"`
	Commands    []*CommandBlock `hcl:"command,block"`
}

func (b *TargetBlock) Type() string {
	return ""
}

func (b *TargetBlock) BlockType() string {
	return "target"
}

func (b *TargetBlock) AddressLength() int {
	return 2
}

func (b *TargetBlock) CanExecutePrePlan() bool {
	return false
}

func (b *TargetBlock) Apply() error {
	return nil
}

func (b *TargetBlock) Address() string {
	return "target." + b.TargetName
}

// CommandBlock is a single command definition within a target. The attribute
// set is the union of all registered command types; the `type` attribute
// selects which commander consumes the block.
type CommandBlock struct {
	Type             string            `hcl:"type"`
	Name             string            `hcl:"name,optional"`
	WorkingDirectory string            `hcl:"working_directory,optional"`
	RunsOnCondition  string            `hcl:"runs_on_condition,optional"`
	RunsOnExitCodes  []int             `hcl:"runs_on_exit_codes,optional"`
	Env              map[string]string `hcl:"env,optional"`

	// Shell specific attributes
	CommandLine      string `hcl:"command_line,optional"`
	SuccessExitCodes []int  `hcl:"success_exit_codes,optional"`
	SkipExitCodes    []int  `hcl:"skip_exit_codes,optional"`

	// Batch and foreach specific attributes
	Mode           string `hcl:"mode,optional"`
	MaxConcurrency int    `hcl:"max_concurrency,optional"`
	CwdFromItem    bool   `hcl:"cwd_from_item,optional"`
	ProblemsDir    string `hcl:"problems_dir,optional"`

	// Nested commands (for serial, parallel, foreachproblem)
	Commands []*CommandBlock `hcl:"command,block"`
}

// ToMap converts the block to the map form consumed by the command
// registry's YAML pathway. Zero values are omitted so each command type's
// definition defaults still apply.
func (b *CommandBlock) ToMap() map[string]any {
	m := map[string]any{
		"type": b.Type,
	}

	if b.Name != "" {
		m["name"] = b.Name
	}

	if b.WorkingDirectory != "" {
		m["working_directory"] = b.WorkingDirectory
	}

	if b.RunsOnCondition != "" {
		m["runs_on_condition"] = b.RunsOnCondition
	}

	if len(b.RunsOnExitCodes) > 0 {
		m["runs_on_exit_codes"] = b.RunsOnExitCodes
	}

	if len(b.Env) > 0 {
		m["env"] = b.Env
	}

	if b.CommandLine != "" {
		m["command_line"] = b.CommandLine
	}

	if len(b.SuccessExitCodes) > 0 {
		m["success_exit_codes"] = b.SuccessExitCodes
	}

	if len(b.SkipExitCodes) > 0 {
		m["skip_exit_codes"] = b.SkipExitCodes
	}

	if b.Mode != "" {
		m["mode"] = b.Mode
	}

	if b.MaxConcurrency != 0 {
		m["max_concurrency"] = b.MaxConcurrency
	}

	if b.CwdFromItem {
		m["cwd_from_item"] = b.CwdFromItem
	}

	if b.ProblemsDir != "" {
		m["problems_dir"] = b.ProblemsDir
	}

	if len(b.Commands) > 0 {
		nested := make([]any, len(b.Commands))
		for i, c := range b.Commands {
			nested[i] = c.ToMap()
		}

		m["commands"] = nested
	}

	return m
}

func commandBlockCtyType(depth int) cty.Type {
	attrs := map[string]cty.Type{
		"type":               cty.String,
		"name":               cty.String,
		"working_directory":  cty.String,
		"runs_on_condition":  cty.String,
		"runs_on_exit_codes": cty.List(cty.Number),
		"env":                cty.Map(cty.String),
		"command_line":       cty.String,
		"success_exit_codes": cty.List(cty.Number),
		"skip_exit_codes":    cty.List(cty.Number),
		"mode":               cty.String,
		"max_concurrency":    cty.Number,
		"cwd_from_item":      cty.Bool,
		"problems_dir":       cty.String,
	}

	optional := []string{
		"name",
		"working_directory",
		"runs_on_condition",
		"runs_on_exit_codes",
		"env",
		"command_line",
		"success_exit_codes",
		"skip_exit_codes",
		"mode",
		"max_concurrency",
		"cwd_from_item",
		"problems_dir",
	}

	if depth > 0 {
		attrs["command"] = cty.List(commandBlockCtyType(depth - 1))
		optional = append(optional, "command")
	}

	return cty.ObjectWithOptionalAttrs(attrs, optional)
}
