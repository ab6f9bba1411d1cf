// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"slices"
	"time"

	"github.com/matt-FFFFFF/hew/internal/progress"
)

var _ Runnable = (*SerialBatch)(nil)

// SerialBatch runs its commands one after another, feeding each command the
// status of the previous one so run conditions can be evaluated.
type SerialBatch struct {
	*BaseCommand
	Commands []Runnable // The commands or nested batches to run
}

// GetLabel returns the label of the batch.
func (b *SerialBatch) GetLabel() string {
	if b.Label == "" {
		return "Serial Batch"
	}

	return b.Label
}

// Run implements the Runnable interface for SerialBatch.
func (b *SerialBatch) Run(ctx context.Context) Results {
	progress.Report(ctx, progress.Event{
		CommandPath: []string{b.GetLabel()},
		Type:        progress.EventStarted,
		Message:     "Starting serial batch",
		Timestamp:   time.Now(),
	})

	childCtx := childContext(ctx, b.GetLabel())

	results := make(Results, 0, len(b.Commands))

	prev := PreviousCommandStatus{
		State:    ResultStatusSuccess,
		ExitCode: 0,
	}

OuterLoop:
	for i, cmd := range slices.All(b.Commands) {
		select {
		case <-ctx.Done():
			break OuterLoop
		default:
		}

		cmd.InheritEnv(b.Env)

		if err := cmd.SetCwd(b.Cwd); err != nil {
			results = append(results, &Result{
				Label:  cmd.GetLabel(),
				Status: ResultStatusError,
				Error:  err,
			})

			continue
		}

		switch cmd.ShouldRun(prev) {
		case ShouldRunActionSkip:
			results = append(results, &Result{
				Label:  cmd.GetLabel(),
				Status: ResultStatusSkipped,
				Error:  ErrSkipIntentional,
			})

			reportSkipped(childCtx, cmd.GetLabel())

			continue
		case ShouldRunActionError:
			results = append(results, &Result{
				Label:  cmd.GetLabel(),
				Status: ResultStatusSkipped,
				Error:  ErrSkipOnError,
			})

			reportSkipped(childCtx, cmd.GetLabel())

			continue
		}

		childResults := cmd.Run(childCtx)

		prev.State = childResults[0].Status
		prev.ExitCode = childResults[0].ExitCode
		prev.Err = childResults[0].Error

		// A command may change the working directory for the rest of the batch.
		if newCwd := childResults[0].newCwd; newCwd != "" && i < len(b.Commands)-1 {
			for rb := range slices.Values(b.Commands[i+1:]) {
				if err := rb.SetCwd(newCwd); err != nil {
					results = append(results, &Result{
						Label:  rb.GetLabel(),
						Status: ResultStatusError,
						Error:  err,
					})

					continue OuterLoop
				}
			}
		}

		results = slices.Concat(results, childResults)
	}

	res := Results{&Result{
		Label:    b.GetLabel(),
		Children: results,
		Status:   ResultStatusSuccess,
	}}
	if results.HasError() {
		res[0].ExitCode = -1
		res[0].Error = ErrResultChildrenHasError
		res[0].Status = ResultStatusError
	}

	reportBatchDone(ctx, b.GetLabel(), res[0])

	return res
}

// SetCwd resolves the working directory for the batch and its sub-commands.
func (b *SerialBatch) SetCwd(cwd string) error {
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

// childContext wraps the context's reporter, if any, so that child events are
// prefixed with this batch's label.
func childContext(ctx context.Context, label string) context.Context {
	reporter := progress.FromContext(ctx)
	if reporter == nil {
		return ctx
	}

	return progress.NewContext(ctx, progress.NewChildReporter(reporter, label))
}

func reportSkipped(ctx context.Context, label string) {
	progress.Report(ctx, progress.Event{
		CommandPath: []string{label},
		Type:        progress.EventSkipped,
		Message:     "Skipped",
		Timestamp:   time.Now(),
	})
}

func reportBatchDone(ctx context.Context, label string, res *Result) {
	event := progress.Event{
		CommandPath: []string{label},
		Type:        progress.EventCompleted,
		Message:     "Batch completed",
		Timestamp:   time.Now(),
		Data:        progress.EventData{ExitCode: res.ExitCode},
	}
	if res.Status == ResultStatusError {
		event.Type = progress.EventFailed
		event.Message = "Batch failed"
		event.Data.Error = res.Error
	}

	progress.Report(ctx, event)
}
