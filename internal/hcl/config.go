// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package hcl implements the HCL configuration surface. Targets are defined
// in `*.hew.hcl` files as `target` blocks with nested `command` blocks, with
// full HCL expression support via the golden framework.
package hcl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Azure/golden"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/spf13/afero"
)

const (
	hewConfigFileExt = ".hew.hcl"
)

var _ golden.Config = &HewConfig{}

var (
	// ErrInitConfig is returned when the configuration cannot be initialized.
	ErrInitConfig = errors.New("failed to initialize hew configuration")
	// ErrNoHewConfigFile is returned when no `.hew.hcl` file is found in the specified directory.
	ErrNoHewConfigFile = errors.New("no `.hew.hcl` file found in the specified directory")
	// ErrParseHewConfigFile is returned when there is an error parsing a `.hew.hcl` file.
	ErrParseHewConfigFile = errors.New("failed to parse blocks in the configuration file")
)

// HewConfig is the golden configuration for hew HCL files.
type HewConfig struct {
	*golden.BaseConfig
}

// ErrInvalidBlockType represents an error for an invalid block type in the configuration.
type ErrInvalidBlockType struct {
	BlockType string
	Range     hcl.Range
}

// NewErrInvalidBlockType creates a new ErrInvalidBlockType with the specified block type and range.
func NewErrInvalidBlockType(blockType string, r hcl.Range) *ErrInvalidBlockType {
	return &ErrInvalidBlockType{
		BlockType: blockType,
		Range:     r,
	}
}

// Error implements the error interface for ErrInvalidBlockType.
func (e *ErrInvalidBlockType) Error() string {
	return fmt.Sprintf("invalid block type: %s at %s", e.BlockType, e.Range.String())
}

// NewHewConfig creates a new HewConfig instance with the provided base
// directory, CLI flag assigned variables, context, and HCL blocks.
func NewHewConfig(
	ctx context.Context,
	baseDir string,
	cliFlagAssignedVariables []golden.CliFlagAssignedVariables,
	hclBlocks []*golden.HclBlock,
) (*HewConfig, error) {
	cfg := &HewConfig{
		BaseConfig: golden.NewBasicConfig(baseDir, "hew", "hew", nil, cliFlagAssignedVariables, ctx),
	}

	err := golden.InitConfig(cfg, hclBlocks)

	if err != nil {
		err = errors.Join(ErrInitConfig, err)
	}

	return cfg, err
}

// BuildHewConfig constructs a HewConfig instance by loading HCL blocks from
// the specified configuration directory.
func BuildHewConfig(
	ctx context.Context,
	baseDir, cfgDir string,
	cliFlagAssignedVariables []golden.CliFlagAssignedVariables,
) (*HewConfig, error) {
	hclBlocks, err := loadHewHclBlocks(false, cfgDir)
	if err != nil {
		return nil, err
	}

	c, err := NewHewConfig(ctx, baseDir, cliFlagAssignedVariables, hclBlocks)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func loadHewHclBlocks(ignoreUnsupportedBlock bool, dir string) ([]*golden.HclBlock, error) {
	fs := FsFactory()

	matches, err := afero.Glob(fs, filepath.Join(dir, "*"+hewConfigFileExt))
	if err != nil {
		// the only error we expect here is ErrBadPattern, which should never happen as it is a constant.
		panic(err)
	}

	if len(matches) == 0 {
		return nil, ErrNoHewConfigFile
	}

	var blocks []*golden.HclBlock

	for _, filename := range matches {
		content, fsErr := afero.ReadFile(fs, filename)
		if fsErr != nil {
			err = multierror.Append(err, fsErr)
			continue
		}

		readFile, diag := hclsyntax.ParseConfig(content, filename, hcl.InitialPos)
		if diag.HasErrors() {
			err = multierror.Append(err, diag.Errs()...)
			continue
		}

		writeFile, _ := hclwrite.ParseConfig(content, filename, hcl.InitialPos)
		readBody := readFile.Body.(*hclsyntax.Body)
		writeBody := writeFile.Body()
		blocks = append(blocks, golden.AsHclBlocks(readBody.Blocks, writeBody.Blocks())...)
	}

	if err != nil {
		return nil, errors.Join(ErrParseHewConfigFile, err)
	}

	var r []*golden.HclBlock

	for _, b := range blocks {
		if golden.IsBlockTypeWanted(b.Type) {
			r = append(r, b)
			continue
		}

		if !ignoreUnsupportedBlock {
			err = multierror.Append(errors.Join(NewErrInvalidBlockType(b.Type, b.Range())), err)
		}
	}

	if err != nil {
		err = errors.Join(ErrParseHewConfigFile, err)
	}

	return r, err
}
