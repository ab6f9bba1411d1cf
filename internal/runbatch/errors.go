// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
)

var (
	// ErrSkipIntentional is recorded when a command is intentionally skipped,
	// either by its run condition or by a skip exit code from an earlier command.
	ErrSkipIntentional = errors.New("intentionally skipped execution")
	// ErrSkipOnError is recorded when a command is skipped because a previous
	// command in the batch failed.
	ErrSkipOnError = errors.New("skipped execution due to previous error")
	// ErrResultChildrenHasError is set on a batch result when any child failed.
	ErrResultChildrenHasError = errors.New("one or more child commands failed")
)
