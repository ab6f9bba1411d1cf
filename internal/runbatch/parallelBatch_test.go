// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestParallelBatchRun_AllSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	batch := &ParallelBatch{
		BaseCommand: NewBaseCommand("pbatch1", "", RunOnSuccess, nil, nil),
		Commands: []Runnable{
			newFakeCmd("cmd1", 0, nil),
			newFakeCmd("cmd2", 0, nil),
			newFakeCmd("cmd3", 0, nil),
		},
	}

	results := batch.Run(context.Background())
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, ResultStatusSuccess, res.Status)
	assert.NoError(t, res.Error)
	assert.Len(t, res.Children, 3)
}

func TestParallelBatchRun_OneFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	batch := &ParallelBatch{
		BaseCommand: NewBaseCommand("pbatch2", "", RunOnSuccess, nil, nil),
		Commands: []Runnable{
			newFakeCmd("cmd1", 0, nil),
			newFakeCmd("cmd2", 4, nil),
		},
	}

	results := batch.Run(context.Background())
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, ResultStatusError, res.Status)
	assert.ErrorIs(t, res.Error, ErrResultChildrenHasError)
	assert.Equal(t, 4, results.FirstFailureExitCode())
}

// blockingCmd records the peak number of concurrent executions.
type blockingCmd struct {
	*BaseCommand
	mu      *sync.Mutex
	running *int32
	peak    *int32
}

func (b *blockingCmd) Run(_ context.Context) Results {
	cur := atomic.AddInt32(b.running, 1)

	b.mu.Lock()
	if cur > *b.peak {
		*b.peak = cur
	}
	b.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	atomic.AddInt32(b.running, -1)

	return Results{&Result{Label: b.GetLabel(), Status: ResultStatusSuccess}}
}

func TestParallelBatchRun_MaxConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)

	var (
		mu      sync.Mutex
		running int32
		peak    int32
	)

	cmds := make([]Runnable, 8)
	for i := range cmds {
		cmds[i] = &blockingCmd{
			BaseCommand: NewBaseCommand("blocker", "", RunOnSuccess, nil, nil),
			mu:          &mu,
			running:     &running,
			peak:        &peak,
		}
	}

	batch := &ParallelBatch{
		BaseCommand:    NewBaseCommand("pbatch3", "", RunOnSuccess, nil, nil),
		Commands:       cmds,
		MaxConcurrency: 2,
	}

	results := batch.Run(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, ResultStatusSuccess, results[0].Status)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int32(2), "no more than MaxConcurrency commands should run at once")
}

func TestParallelBatchRun_InheritsEnv(t *testing.T) {
	defer goleak.VerifyNone(t)

	cmd := newFakeCmd("cmd1", 0, nil)
	batch := &ParallelBatch{
		BaseCommand: NewBaseCommand("pbatch4", "", RunOnSuccess, nil, map[string]string{"B": "2"}),
		Commands:    []Runnable{cmd},
	}

	batch.Run(context.Background())
	assert.Equal(t, "2", cmd.Env["B"])
}
