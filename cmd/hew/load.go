// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/hew/internal/commands"
	"github.com/matt-FFFFFF/hew/internal/config"
	"github.com/matt-FFFFFF/hew/internal/hcl"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag                    = "file"
	hclFlag                     = "hcl"
	configTimeoutFlag           = "config-timeout"
	configTimeoutSecondsDefault = 30
	defaultConfigFile           = "hew.yaml"
)

var (
	// ErrGetConfigFile is returned when the file cannot be read.
	ErrGetConfigFile = fmt.Errorf("failed to get config file")
	// ErrBuildConfig is returned when the configuration cannot be built.
	ErrBuildConfig = fmt.Errorf("failed to build config")
)

// configFlags are shared by every command that loads the target configuration.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    fileFlag,
			Aliases: []string{"f"},
			Usage: "Specify the URL of the YAML configuration file. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
				"Defaults to hew.yaml in the current directory when present.",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     hclFlag,
			Usage:    "Load targets from *.hew.hcl files in the given directory instead of YAML.",
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:    configTimeoutFlag,
			Aliases: []string{"timeout"},
			Usage: "Set the maximum time in seconds to wait for configuration building. " +
				"Defaults to 30 seconds.",
			Value: configTimeoutSecondsDefault,
		},
	}
}

// loadTargets builds the runnable for every configured target. Precedence:
// the --hcl directory, then the --file URL, then hew.yaml in the current
// directory, then the embedded defaults.
func loadTargets(ctx context.Context, cmd *cli.Command) (map[string]runbatch.Runnable, error) {
	factory := commands.FactoryFromContext(ctx)
	if factory == nil {
		return nil, fmt.Errorf("%w: no command factory in context", ErrBuildConfig)
	}

	configCtx, cancel := context.WithTimeout(ctx, time.Duration(cmd.Int(configTimeoutFlag))*time.Second)
	defer cancel()

	if dir := cmd.String(hclFlag); dir != "" {
		cfg, err := hcl.BuildHewConfig(configCtx, dir, dir, nil)
		if err != nil {
			return nil, errors.Join(ErrBuildConfig, err)
		}

		plan, err := hcl.RunHewPlan(cfg)
		if err != nil {
			return nil, errors.Join(ErrBuildConfig, err)
		}

		return plan.BuildTargets(configCtx, factory)
	}

	data, err := configData(ctx, cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configCtx, factory, data)
	if err != nil {
		return nil, errors.Join(ErrBuildConfig, err)
	}

	targets := make(map[string]runbatch.Runnable, len(cfg.Targets()))

	for _, name := range cfg.Targets() {
		runnable, err := cfg.Target(name)
		if err != nil {
			return nil, err
		}

		targets[name] = runnable
	}

	return targets, nil
}

// configData returns the raw YAML configuration, or nil when only the
// embedded defaults apply.
func configData(ctx context.Context, cmd *cli.Command) ([]byte, error) {
	if url := cmd.String(fileFlag); url != "" {
		return getURL(ctx, url)
	}

	data, err := os.ReadFile(defaultConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Join(ErrGetConfigFile, err)
	}

	return data, nil
}

func sortedTargetNames(targets map[string]runbatch.Runnable) []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// getURL retrieves the content from the specified URL using Hashicorp's go-getter.
// It removes the temporary file after reading its content.
func getURL(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrGetConfigFile
	}

	tmpDir, err := os.MkdirTemp("", "hew-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	cli := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// If it's not a local file URL, we need to download the directory and read the file from there
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, errors.Join(ErrGetConfigFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, fmt.Errorf("%w: invalid URL format: %s", ErrGetConfigFile, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := cli.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	bytes, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	return bytes, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // Minimum parts in a go-getter URL: scheme, host, and path
)

// splitFileNameFromGetterURL splits the URL into the directory and file name.
// It returns the new getter URL without the file name and the file name itself.
// It will append any ref query parameter to the new URL if it exists.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref, fileName string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	if strings.Contains(parts[len(parts)-1], goGetterRefSeparator) {
		refSplit := strings.Split(parts[len(parts)-1], goGetterRefSeparator)
		if len(refSplit) > 1 {
			ref = strings.Join(refSplit[1:], "")
		}

		parts[len(parts)-1] = refSplit[0]
	}

	if filepath.Clean(parts[len(parts)-1]) == filepath.Dir(parts[len(parts)-1]) {
		return "", ""
	}

	fileName = filepath.Base(parts[len(parts)-1])
	parts[len(parts)-1] = filepath.Dir(parts[len(parts)-1])

	if parts[len(parts)-1] == "." {
		parts = parts[:len(parts)-1] // Remove the last part which is the file name
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
