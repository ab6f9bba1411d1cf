// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch provides the execution primitives for hew targets and workflows:
// operating system commands, function commands, and serial or parallel batches that
// compose them into trees. Running a tree produces a matching tree of results which
// can be rendered as text or serialized to a binary file for later inspection.
package runbatch
