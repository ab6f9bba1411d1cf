// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

var (
	// ErrYamlUnmarshal is returned when a YAML command definition cannot be unmarshaled.
	ErrYamlUnmarshal = errors.New(
		"failed to decode YAML command definition, please check the syntax and structure of your config file",
	)
	// ErrHclConfig is returned when an HCL command definition cannot be decoded.
	ErrHclConfig = errors.New(
		"failed to decode HCL command definition, please check the syntax and structure of your config file",
	)
)

// ErrCommandCreate is returned when a command cannot be created.
// It includes the command type for easier debugging.
type ErrCommandCreate struct {
	cmdType string
}

// Error implements the error interface for ErrCommandCreate.
func (e *ErrCommandCreate) Error() string {
	return fmt.Sprintf("failed to create command of type %q", e.cmdType)
}

// NewErrCommandCreate creates a new ErrCommandCreate error.
func NewErrCommandCreate(cmdType string) error {
	return &ErrCommandCreate{cmdType: cmdType}
}

// ToBaseCommand converts the BaseDefinition to a runbatch.BaseCommand.
func (d *BaseDefinition) ToBaseCommand() (*runbatch.BaseCommand, error) {
	runsOn, err := runbatch.NewRunCondition(d.RunsOnCondition)
	if err != nil {
		return nil, errors.Join(ErrYamlUnmarshal, err)
	}

	return runbatch.NewBaseCommand(
		d.Name,
		d.WorkingDirectory,
		runsOn,
		slices.Clone(d.RunsOnExitCodes),
		maps.Clone(d.Env),
	), nil
}
