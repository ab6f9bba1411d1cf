// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color colorizes strings with ANSI escape codes.
// Output is enabled when stdout is a terminal, can be suppressed with the
// NO_COLOR environment variable, and forced with FORCE_COLOR.
package color
