// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

// ResultStatus describes the outcome of a single runnable.
type ResultStatus int

const (
	// ResultStatusUnknown means the runnable has not produced a final status.
	ResultStatusUnknown ResultStatus = iota
	// ResultStatusSuccess means the runnable completed successfully.
	ResultStatusSuccess
	// ResultStatusError means the runnable failed or was killed.
	ResultStatusError
	// ResultStatusSkipped means the runnable was skipped due to its run condition.
	ResultStatusSkipped
)

// String implements the Stringer interface for ResultStatus.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
