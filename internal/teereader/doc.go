// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides an io.Reader wrapper that buffers everything it
// reads while tracking the most recent complete line, so running commands can
// stream a one-line status to the TUI without losing the full output.
package teereader
