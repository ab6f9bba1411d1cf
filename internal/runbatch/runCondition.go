// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
)

// RunCondition defines when a command should run based on the result of the
// previous command in a serial batch.
type RunCondition int

const (
	// RunOnSuccess means the command runs only if the previous command succeeded.
	RunOnSuccess RunCondition = iota
	// RunOnError means the command runs only if the previous command failed.
	RunOnError
	// RunOnAlways means the command always runs regardless of the previous result.
	RunOnAlways
	// RunOnExitCodes means the command runs only if the previous exit code matches
	// one of the codes listed on the command.
	RunOnExitCodes
)

const (
	runOnSuccessStr   = "success"
	runOnErrorStr     = "error"
	runOnAlwaysStr    = "always"
	runOnExitCodesStr = "exit-codes"
	runOnUnknownStr   = "unknown"
)

// ErrRunConditionUnknown is returned when an unknown RunCondition value is encountered.
var ErrRunConditionUnknown = errors.New("unknown run condition")

// String returns the string representation of the RunCondition.
func (r RunCondition) String() string {
	switch r {
	case RunOnSuccess:
		return runOnSuccessStr
	case RunOnError:
		return runOnErrorStr
	case RunOnAlways:
		return runOnAlwaysStr
	case RunOnExitCodes:
		return runOnExitCodesStr
	default:
		return runOnUnknownStr
	}
}

// NewRunCondition creates a RunCondition from its string representation.
func NewRunCondition(s string) (RunCondition, error) {
	switch s {
	case runOnSuccessStr, "":
		return RunOnSuccess, nil
	case runOnErrorStr:
		return RunOnError, nil
	case runOnAlwaysStr:
		return RunOnAlways, nil
	case runOnExitCodesStr:
		return RunOnExitCodes, nil
	default:
		return RunCondition(-1), ErrRunConditionUnknown
	}
}
