// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package problems loads problem definitions from a problems directory.
// Each problem is a directory containing a problem.yaml manifest, a solve
// template file and any number of test case files. The catalog is backed by
// an afero filesystem so it can be exercised against an in-memory tree.
package problems
