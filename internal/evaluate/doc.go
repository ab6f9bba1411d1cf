// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package evaluate scores a candidate solution against a problem's test
// cases. The runner command is executed once per case with a bounded worker
// pool and a per-case timeout; scores are read from the runner's stdout,
// either as the last float or via a JSONPath expression.
package evaluate
