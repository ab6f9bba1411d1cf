// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchCancelsOnSecondSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)

	done := make(chan struct{})

	go func() {
		Watch(ctx, sigCh, cancel)
		close(done)
	}()

	sigCh <- syscall.SIGINT

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled after a single signal")
	case <-time.After(50 * time.Millisecond):
	}

	sigCh <- syscall.SIGINT

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watchdog did not exit after second signal")
	}

	assert.Error(t, ctx.Err())
}

func TestWatchIgnoresDistinctSignals(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)

	go Watch(ctx, sigCh, cancel)

	sigCh <- syscall.SIGINT
	sigCh <- syscall.SIGTERM

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled by two distinct signals")
	case <-time.After(100 * time.Millisecond):
	}

	close(sigCh)
}
