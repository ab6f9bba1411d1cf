// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event represents a real-time update from command execution.
// Events are emitted throughout the command lifecycle to provide
// feedback for the TUI and other monitoring consumers.
type Event struct {
	CommandPath []string  // Hierarchical path to command (e.g., ["checks", "lint"])
	Type        EventType // Event type indicating what happened
	Message     string    // Human-readable status message
	Timestamp   time.Time // When the event occurred
	Data        EventData // Type-specific data
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventStarted indicates a command has begun execution.
	EventStarted EventType = iota
	// EventOutput indicates new stdout/stderr output is available.
	EventOutput
	// EventCompleted indicates successful completion.
	EventCompleted
	// EventFailed indicates the command failed.
	EventFailed
	// EventSkipped indicates the command was skipped due to run conditions.
	EventSkipped
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventOutput:
		return "output"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// EventData contains type-specific information for progress events.
type EventData struct {
	// For EventOutput
	OutputLine string // The most recent output line
	IsStderr   bool   // True if this is stderr output

	// For EventCompleted/EventFailed
	ExitCode int   // Command exit code
	Error    error // Error if the command failed
}
