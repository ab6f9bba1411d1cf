// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/progress"
	"github.com/matt-FFFFFF/hew/internal/signalbroker"
	"github.com/matt-FFFFFF/hew/internal/teereader"
)

const (
	maxBufferSize     = 8 * 1024 * 1024 // 8MB cap on captured stdout/stderr
	tickerInterval    = 5 * time.Second // Interval for the process watchdog ticker
	lastLineMaxLength = 120             // Truncation length for streamed output lines
)

var _ Runnable = (*OSCommand)(nil)

var (
	// ErrBufferOverflow is returned when the output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadBuffer is returned when an operating system pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrTimeoutExceeded is returned when the command exceeds the context deadline.
	ErrTimeoutExceeded = errors.New("timeout exceeded")
	// ErrFailedToCreatePipe is returned when an operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrSignalReceived is returned when an operating system signal is forwarded to the child process.
	ErrSignalReceived = errors.New("signal received")
	// ErrDuplicateSignalReceived is returned when a repeated signal forces process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// OSCommand represents a single operating system command to be run.
type OSCommand struct {
	*BaseCommand
	Path             string                    // Full path to the executable.
	Args             []string                  // Arguments to the command, excluding the executable name.
	StdIn            []byte                    // Written to standard input, nil inherits the parent's stdin.
	SuccessExitCodes []int                     // Exit codes that indicate success, defaults to [0].
	SkipExitCodes    []int                     // Exit codes that skip the remaining commands in the batch.
	cleanup          func(ctx context.Context) // Cleanup function run after the command finishes.
	sigCh            chan os.Signal            // Channel to receive signals, replaceable in tests.
}

// SetCleanup registers a function to run after the command finishes.
func (c *OSCommand) SetCleanup(fn func(ctx context.Context)) {
	if c == nil {
		return
	}

	c.cleanup = fn
}

// Run implements the Runnable interface for OSCommand.
func (c *OSCommand) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "OSCommand").
		With("label", c.Label)

	logger.Debug("command info", "path", c.Path, "cwd", c.Cwd, "args", c.Args)

	if c.SuccessExitCodes == nil {
		c.SuccessExitCodes = []int{0}
	}

	if c.sigCh == nil {
		c.sigCh = signalbroker.New(ctx)
	}

	res := &Result{
		Label:  c.Label,
		Status: ResultStatusUnknown,
	}

	env := os.Environ()
	for k, v := range c.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		res.Error = errors.Join(ErrFailedToCreatePipe, err)
		res.ExitCode = -1
		res.Status = ResultStatusError

		return Results{res}
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		res.Error = errors.Join(ErrFailedToCreatePipe, err)
		res.ExitCode = -1
		res.Status = ResultStatusError

		return Results{res}
	}

	stdin := os.Stdin

	var wIn *os.File

	if c.StdIn != nil {
		rIn, w, err := os.Pipe()
		if err != nil {
			_ = wOut.Close()
			_ = wErr.Close()

			res.Error = errors.Join(ErrFailedToCreatePipe, err)
			res.ExitCode = -1
			res.Status = ResultStatusError

			return Results{res}
		}

		stdin = rIn
		wIn = w
	}

	execName := filepath.Base(c.Path)
	args := slices.Concat([]string{execName}, c.Args)

	progress.Report(ctx, progress.Event{
		CommandPath: []string{c.GetLabel()},
		Type:        progress.EventStarted,
		Message:     fmt.Sprintf("Starting %s", c.Path),
		Timestamp:   time.Now(),
	})

	ps, err := os.StartProcess(c.Path, args, &os.ProcAttr{
		Dir:   c.Cwd,
		Env:   env,
		Files: []*os.File{stdin, wOut, wErr},
	})

	if wIn != nil {
		// The child holds its own copy of the read end.
		_ = stdin.Close()
	}

	if err != nil {
		_ = wOut.Close()
		_ = wErr.Close()

		if wIn != nil {
			_ = wIn.Close()
		}

		res.Error = errors.Join(ErrCouldNotStartProcess, err)
		res.ExitCode = -1
		res.Status = ResultStatusError

		reportFailed(ctx, c.GetLabel(), res)

		return Results{res}
	}

	startTime := time.Now()

	logger.Debug("process started", "pid", ps.Pid)

	// Drain the pipes while the process runs so that it never blocks on a
	// full pipe buffer. The tee readers keep the most recent complete line
	// for progress reporting.
	outTee := teereader.New(rOut)
	errTee := teereader.New(rErr)

	var (
		readerWg  sync.WaitGroup
		stdout    []byte
		stderr    []byte
		stdoutErr error
		stderrErr error
	)

	readerWg.Add(2)

	go func() {
		defer readerWg.Done()

		stdout, stdoutErr = readAllUpToMax(ctx, outTee, maxBufferSize)
	}()

	go func() {
		defer readerWg.Done()

		stderr, stderrErr = readAllUpToMax(ctx, errTee, maxBufferSize)
	}()

	if wIn != nil {
		readerWg.Add(1)

		go func() {
			defer readerWg.Done()

			// A write past the child's exit fails with EPIPE, which is fine.
			_, _ = wIn.Write(c.StdIn)
			_ = wIn.Close()
		}()
	}

	// The watchdog kills the process on context cancellation, forwards
	// signals, and emits periodic progress updates with the last output line.
	done := make(chan struct{})
	wasKilled := make(chan error, 1)

	go func() {
		signalsSeen := make(map[os.Signal]struct{})

		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				elapsed := time.Since(startTime).Round(time.Second)
				progress.Report(ctx, progress.Event{
					CommandPath: []string{c.GetLabel()},
					Type:        progress.EventOutput,
					Message:     fmt.Sprintf("Running [%s]", elapsed),
					Timestamp:   time.Now(),
					Data: progress.EventData{
						OutputLine: outTee.LastLine(lastLineMaxLength),
					},
				})

			case s := <-c.sigCh:
				if _, ok := signalsSeen[s]; ok {
					logger.Info("received duplicate signal, killing process", "signal", s.String())
					killPs(ctx, ps)
					recordKill(wasKilled, ErrDuplicateSignalReceived)

					return
				}

				signalsSeen[s] = struct{}{}

				logger.Info("forwarding signal to process", "signal", s.String())

				if err := ps.Signal(s); err != nil {
					logger.Info("failed to send signal", "signal", s.String(), "error", err)
				}

				recordKill(wasKilled, ErrSignalReceived)

			case <-ctx.Done():
				logger.Info("context done, killing process")
				killPs(ctx, ps)
				recordKill(wasKilled, ErrTimeoutExceeded)

				return

			case <-done:
				return
			}
		}
	}()

	state, psErr := ps.Wait()

	// Close the write ends so the drain goroutines see EOF.
	_ = wOut.Close()
	_ = wErr.Close()

	readerWg.Wait()

	res.ExitCode = state.ExitCode()
	res.Error = psErr

	logger.Debug("process finished", "exitCode", res.ExitCode, "elapsed", time.Since(startTime))

	close(done)

	var killReason error

	select {
	case killReason = <-wasKilled:
	default:
		// The watchdog may not have recorded the reason yet.
		if ctx.Err() != nil {
			killReason = ErrTimeoutExceeded
		}
	}

	if killReason != nil {
		res.Error = errors.Join(res.Error, killReason)
		res.ExitCode = -1
		res.Status = ResultStatusError
	}

	res.StdOut = stdout
	if stdoutErr != nil {
		res.Error = errors.Join(res.Error, stdoutErr)
		res.ExitCode = -1
	}

	res.StdErr = stderr
	if stderrErr != nil {
		res.Error = errors.Join(res.Error, stderrErr)
		res.ExitCode = -1
	}

	switch {
	case res.Status == ResultStatusError:
		// Killed by the watchdog, nothing more to decide.
	case res.Error == nil && slices.Contains(c.SuccessExitCodes, res.ExitCode):
		res.Status = ResultStatusSuccess
	case res.Error == nil && slices.Contains(c.SkipExitCodes, res.ExitCode):
		res.Error = ErrSkipIntentional
		res.Status = ResultStatusSuccess
	default:
		if res.ExitCode == 0 {
			res.ExitCode = -1
		}

		res.Status = ResultStatusError
	}

	if res.Status == ResultStatusError {
		reportFailed(ctx, c.GetLabel(), res)
	} else {
		progress.Report(ctx, progress.Event{
			CommandPath: []string{c.GetLabel()},
			Type:        progress.EventCompleted,
			Message:     "Completed",
			Timestamp:   time.Now(),
			Data:        progress.EventData{ExitCode: res.ExitCode},
		})
	}

	if c.cleanup != nil {
		logger.Debug("running cleanup function")
		c.cleanup(ctx)
	}

	return Results{res}
}

func reportFailed(ctx context.Context, label string, res *Result) {
	progress.Report(ctx, progress.Event{
		CommandPath: []string{label},
		Type:        progress.EventFailed,
		Message:     "Failed",
		Timestamp:   time.Now(),
		Data: progress.EventData{
			ExitCode: res.ExitCode,
			Error:    res.Error,
		},
	})
}

// recordKill records the first kill reason without blocking.
func recordKill(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// readAllUpToMax reads from r until EOF, returning at most maxBufferSize bytes.
func readAllUpToMax(ctx context.Context, r io.Reader, maxBufferSize int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, maxBufferSize+1)
	if err != nil && err != io.EOF {
		return nil, errors.Join(ErrFailedToReadBuffer, err)
	}

	if n > maxBufferSize {
		// Keep draining so the writer is not blocked, but discard the excess.
		_, _ = io.Copy(io.Discard, r)

		ctxlog.Debug(ctx, "output truncated", "bytesRead", n, "maxBytes", maxBufferSize)

		return buf.Bytes()[:maxBufferSize], ErrBufferOverflow
	}

	return buf.Bytes(), nil
}

// killPs kills the process, tolerating a process that has already exited.
func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)
}
