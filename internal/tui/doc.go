// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a real-time terminal user interface for monitoring
// command execution. It displays a live tree of commands with status
// indicators, elapsed times and the last output line of each running
// command, fed by the progress event system.
package tui
