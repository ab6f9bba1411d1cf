// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/hew/internal/progress"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

// Runner manages the TUI program and progress event integration.
type Runner struct {
	model    *Model
	program  *tea.Program
	reporter *Reporter
	mutex    sync.Mutex
}

// Reporter implements progress.Reporter and forwards events to the TUI.
type Reporter struct {
	program *tea.Program
	closed  bool
	mutex   sync.RWMutex
}

// NewReporter creates a new TUI progress reporter.
func NewReporter(program *tea.Program) *Reporter {
	return &Reporter{
		program: program,
	}
}

// Report implements progress.Reporter.
func (tr *Reporter) Report(event progress.Event) {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	if tr.closed || tr.program == nil {
		return
	}

	tr.program.Send(ProgressEventMsg{Event: event})
}

// Close implements progress.Reporter.
func (tr *Reporter) Close() {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()
	tr.closed = true
}

// NewRunner creates a new TUI runner.
func NewRunner(ctx context.Context) *Runner {
	model := NewModel(ctx)
	program := tea.NewProgram(model, tea.WithAltScreen())
	reporter := NewReporter(program)

	return &Runner{
		model:    model,
		program:  program,
		reporter: reporter,
	}
}

// GetReporter returns the progress reporter for this TUI runner.
func (r *Runner) GetReporter() progress.Reporter {
	return r.reporter
}

// Run starts the TUI and executes the given runnable with progress
// reporting. It returns when the user exits the TUI.
func (r *Runner) Run(ctx context.Context, runnable runbatch.Runnable) (runbatch.Results, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	resultChan := make(chan runbatch.Results, 1)

	go func() {
		defer close(resultChan)

		resultChan <- runnable.Run(progress.NewContext(ctx, r.reporter))
	}()

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	var (
		result runbatch.Results
		runErr error
	)

	select {
	case result = <-resultChan:
		// Commands finished first. Show the completion state and wait for
		// the user to exit.
		r.program.Send(CommandCompletedMsg{Results: result})

		runErr = <-tuiDone

		r.reporter.Close()

	case err := <-tuiDone:
		// The user exited while commands were still running.
		runErr = err

		r.reporter.Close()

		select {
		case result = <-resultChan:
		case <-ctx.Done():
			result = runbatch.Results{&runbatch.Result{
				Error:  ctx.Err(),
				Status: runbatch.ResultStatusError,
			}}
		}

	case <-ctx.Done():
		r.reporter.Close()
		r.program.Quit()

		select {
		case result = <-resultChan:
		default:
			result = runbatch.Results{&runbatch.Result{
				Error:  ctx.Err(),
				Status: runbatch.ResultStatusError,
			}}
		}

		<-tuiDone
	}

	return result, runErr
}
