// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package hcl

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Azure/golden"
	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/hew/internal/commands"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

// RunHewPlan evaluates the configuration and collects the target blocks.
func RunHewPlan(c *HewConfig) (*HewPlan, error) {
	err := c.RunPlan()
	if err != nil {
		return nil, err
	}

	plan := newPlan(c)
	for _, tb := range golden.Blocks[*TargetBlock](c) {
		plan.addTarget(tb)
	}

	return plan, nil
}

func newPlan(c *HewConfig) *HewPlan {
	return &HewPlan{
		c: c,
	}
}

// HewPlan is the evaluated set of target blocks from a configuration.
type HewPlan struct {
	Targets []*TargetBlock
	c       *HewConfig
	mu      sync.Mutex
}

func (p *HewPlan) addTarget(t *TargetBlock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Targets = append(p.Targets, t)
}

// BuildTargets builds a runnable per target block via the command registry.
// Each target becomes a serial batch of its command blocks.
func (p *HewPlan) BuildTargets(
	ctx context.Context,
	factory commands.CommanderFactory,
) (map[string]runbatch.Runnable, error) {
	targets := make(map[string]runbatch.Runnable, len(p.Targets))

	for _, tb := range p.Targets {
		batch := &runbatch.SerialBatch{
			BaseCommand: runbatch.NewBaseCommand(tb.TargetName, "", runbatch.RunOnSuccess, nil, nil),
		}

		children := make([]runbatch.Runnable, 0, len(tb.Commands))

		for i, cb := range tb.Commands {
			cmdYAML, err := yaml.Marshal(cb.ToMap())
			if err != nil {
				return nil, errors.Join(commands.ErrHclConfig, err)
			}

			runnable, err := factory.CreateRunnableFromYAML(ctx, cmdYAML)
			if err != nil {
				return nil, errors.Join(
					commands.ErrHclConfig,
					fmt.Errorf("target %q command %d: %w", tb.TargetName, i, err),
				)
			}

			runnable.SetParent(batch)
			children = append(children, runnable)
		}

		batch.Commands = children
		targets[tb.TargetName] = batch
	}

	return targets, nil
}
