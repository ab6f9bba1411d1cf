// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"
)

// Reporter is the interface for sending progress events.
// Implementations must be safe for concurrent use and non-blocking.
type Reporter interface {
	// Report sends a progress event. Implementations should handle the case
	// where the receiver is not listening.
	Report(event Event)
	// Close signals that no more events will be sent and cleans up resources.
	Close()
}

// ChannelReporter implements Reporter using a buffered channel.
type ChannelReporter struct {
	ch     chan Event
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewChannelReporter creates a new ChannelReporter with the specified buffer
// size. A larger buffer reduces the chance of dropping events under load.
func NewChannelReporter(ctx context.Context, bufferSize int) *ChannelReporter {
	reporterCtx, cancel := context.WithCancel(ctx)

	return &ChannelReporter{
		ch:     make(chan Event, bufferSize),
		ctx:    reporterCtx,
		cancel: cancel,
	}
}

// Report implements Reporter. It sends the event without blocking: if the
// channel is full or the reporter is closed, the event is dropped.
func (cr *ChannelReporter) Report(event Event) {
	select {
	case <-cr.ctx.Done():
		return
	default:
	}

	select {
	case cr.ch <- event:
	case <-cr.ctx.Done():
	default:
	}
}

// Close implements Reporter. It cancels the reporter's context. The event
// channel is never closed: a send may race a concurrent Close, so receivers
// stop via Done instead.
func (cr *ChannelReporter) Close() {
	cr.once.Do(cr.cancel)
}

// Events returns a read-only channel of progress events.
func (cr *ChannelReporter) Events() <-chan Event {
	return cr.ch
}

// Done is closed when the reporter has been closed and no further events
// will be delivered.
func (cr *ChannelReporter) Done() <-chan struct{} {
	return cr.ctx.Done()
}

// ChildReporter prefixes command paths before forwarding to a parent
// reporter. It is used to build hierarchical paths as batches nest.
type ChildReporter struct {
	parent Reporter
	prefix []string
}

// NewChildReporter creates a new child reporter with the given path prefix.
func NewChildReporter(parent Reporter, prefix ...string) *ChildReporter {
	return &ChildReporter{
		parent: parent,
		prefix: prefix,
	}
}

// Report implements Reporter by prepending the prefix to the event path.
func (cr *ChildReporter) Report(event Event) {
	fullPath := make([]string, 0, len(cr.prefix)+len(event.CommandPath))
	fullPath = append(fullPath, cr.prefix...)
	fullPath = append(fullPath, event.CommandPath...)
	event.CommandPath = fullPath

	cr.parent.Report(event)
}

// Close implements Reporter. The parent is not closed as it may be shared
// with other children.
func (cr *ChildReporter) Close() {}

type reporterKey struct{}

// NewContext returns a context carrying the given reporter.
func NewContext(ctx context.Context, reporter Reporter) context.Context {
	return context.WithValue(ctx, reporterKey{}, reporter)
}

// FromContext returns the reporter carried by the context, or nil.
func FromContext(ctx context.Context) Reporter {
	reporter, _ := ctx.Value(reporterKey{}).(Reporter)
	return reporter
}

// Report sends an event to the context's reporter, if one is present.
func Report(ctx context.Context, event Event) {
	if reporter := FromContext(ctx); reporter != nil {
		reporter.Report(event)
	}
}
