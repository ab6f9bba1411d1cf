// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"io"
	"os"
	"slices"
)

// Result represents the outcome of running a command or batch.
type Result struct {
	Label    string       // Label of the command or batch
	ExitCode int          // Exit code of the command or batch
	Error    error        // Error, if any
	StdOut   []byte       // Captured standard output
	StdErr   []byte       // Captured standard error
	Status   ResultStatus // Final status of the command or batch
	Children Results      // Nested results for batches
	newCwd   string       // New working directory for subsequent commands, if changed
}

// Results is a slice of Result pointers, used to represent multiple results.
type Results []*Result

// HasError reports whether any result in the tree failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Status == ResultStatusError {
			return true
		}

		if v.Status != ResultStatusSkipped && (v.Error != nil || v.ExitCode != 0) {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// FirstFailureExitCode walks the result tree depth-first and returns the exit
// code of the first failing leaf command. This is the code propagated to the
// shell so that the underlying tool's exit code passes through unchanged.
// It returns 0 when nothing failed.
func (r Results) FirstFailureExitCode() int {
	for v := range slices.Values(r) {
		if len(v.Children) > 0 {
			if code := v.Children.FirstFailureExitCode(); code != 0 {
				return code
			}

			continue
		}

		if v.Status == ResultStatusSkipped {
			continue
		}

		if v.ExitCode != 0 {
			return v.ExitCode
		}

		if v.Status == ResultStatusError || v.Error != nil {
			return 1
		}
	}

	return 0
}

// Print outputs the results to stdout with default options.
func (r Results) Print() error {
	return WriteResults(os.Stdout, r, nil)
}

// PrintWithOptions outputs the results to stdout with the specified options.
func (r Results) PrintWithOptions(options *OutputOptions) error {
	return WriteResults(os.Stdout, r, options)
}

// Write outputs the results to the specified writer with default options.
func (r Results) Write(w io.Writer) error {
	return WriteResults(w, r, nil)
}

// WriteWithOptions outputs the results to the specified writer with the specified options.
func (r Results) WriteWithOptions(w io.Writer, options *OutputOptions) error {
	return WriteResults(w, r, options)
}
