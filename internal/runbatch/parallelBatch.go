// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/progress"
)

var _ Runnable = (*ParallelBatch)(nil)

// ParallelBatch runs its commands concurrently. MaxConcurrency bounds the
// number of commands running at once; zero or less means unbounded.
type ParallelBatch struct {
	*BaseCommand
	Commands       []Runnable // The commands or nested batches to run
	MaxConcurrency int        // Maximum number of commands running at once
}

// GetLabel returns the label of the batch.
func (b *ParallelBatch) GetLabel() string {
	if b.Label == "" {
		return "Parallel Batch"
	}

	return b.Label
}

// Run implements the Runnable interface for ParallelBatch.
func (b *ParallelBatch) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "ParallelBatch").
		With("label", FullLabel(b))

	progress.Report(ctx, progress.Event{
		CommandPath: []string{b.GetLabel()},
		Type:        progress.EventStarted,
		Message:     "Starting parallel batch",
		Timestamp:   time.Now(),
	})

	childCtx := childContext(ctx, b.GetLabel())

	for _, cmd := range b.Commands {
		cmd.InheritEnv(b.Env)
	}

	var sem chan struct{}
	if b.MaxConcurrency > 0 {
		sem = make(chan struct{}, b.MaxConcurrency)
	}

	wg := &sync.WaitGroup{}
	resChan := make(chan Results, len(b.Commands))

	logger.Debug("starting commands", "count", len(b.Commands), "maxConcurrency", b.MaxConcurrency)

	for _, cmd := range b.Commands {
		wg.Add(1)

		go func(c Runnable) {
			defer wg.Done()

			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					resChan <- Results{{
						Label:  c.GetLabel(),
						Status: ResultStatusError,
						Error:  ctx.Err(),
					}}

					return
				}
			}

			resChan <- c.Run(childCtx)
		}(cmd)
	}

	wg.Wait()
	close(resChan)

	children := make(Results, 0, len(b.Commands))
	for r := range resChan {
		children = slices.Concat(children, r)
	}

	res := Results{&Result{
		Label:    b.GetLabel(),
		Children: children,
		Status:   ResultStatusSuccess,
	}}
	if children.HasError() {
		res[0].ExitCode = -1
		res[0].Error = ErrResultChildrenHasError
		res[0].Status = ResultStatusError
	}

	reportBatchDone(ctx, b.GetLabel(), res[0])

	return res
}

// SetCwd resolves the working directory for the batch and its sub-commands.
func (b *ParallelBatch) SetCwd(cwd string) error {
	if err := b.BaseCommand.SetCwd(cwd); err != nil {
		return err
	}

	for _, cmd := range b.Commands {
		if err := cmd.SetCwd(b.Cwd); err != nil {
			return err
		}
	}

	return nil
}
