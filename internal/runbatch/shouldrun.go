// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

// ShouldRunAction is the decision made before running a command, based on the
// outcome of the previous command in the batch.
type ShouldRunAction int

const (
	// ShouldRunActionRun means run the command.
	ShouldRunActionRun ShouldRunAction = iota
	// ShouldRunActionSkip means skip the command intentionally.
	ShouldRunActionSkip
	// ShouldRunActionError means the run condition was not met, record an error.
	ShouldRunActionError
)
