// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// collectLeaves returns the leaf results of the tree with the given label.
func collectLeaves(results Results, label string) []*Result {
	var leaves []*Result

	for _, r := range results {
		if len(r.Children) > 0 {
			leaves = append(leaves, collectLeaves(r.Children, label)...)
			continue
		}

		if r.Label == label {
			leaves = append(leaves, r)
		}
	}

	return leaves
}

func TestForEachCommandRun_SerialSetsItemEnv(t *testing.T) {
	defer goleak.VerifyNone(t)

	fe := &ForEachCommand{
		BaseCommand: NewBaseCommand("foreach", "", RunOnSuccess, nil, nil),
		ItemsProvider: func(_ context.Context, _ string) ([]string, error) {
			return []string{"a", "b", "c"}, nil
		},
		Commands: []Runnable{
			&OSCommand{
				BaseCommand: NewBaseCommand("echo-item", "", RunOnSuccess, nil, nil),
				Path:        "/bin/sh",
				Args:        []string{"-c", "echo item=$ITEM"},
			},
		},
	}

	results := fe.Run(newTestCtx(t))
	require.Len(t, results, 1)
	assert.Equal(t, ResultStatusSuccess, results[0].Status)

	leaves := collectLeaves(results, "echo-item")
	require.Len(t, leaves, 3)

	var got []string
	for _, leaf := range leaves {
		got = append(got, strings.TrimSpace(string(leaf.StdOut)))
	}

	assert.Equal(t, []string{"item=a", "item=b", "item=c"}, got)
}

func TestForEachCommandRun_ParallelRunsPerItem(t *testing.T) {
	defer goleak.VerifyNone(t)

	fe := &ForEachCommand{
		BaseCommand: NewBaseCommand("foreach", "", RunOnSuccess, nil, nil),
		ItemsProvider: func(_ context.Context, _ string) ([]string, error) {
			return []string{"x", "y"}, nil
		},
		Mode:           ForEachParallel,
		MaxConcurrency: 2,
		Commands: []Runnable{
			&OSCommand{
				BaseCommand: NewBaseCommand("echo-item", "", RunOnSuccess, nil, nil),
				Path:        "/bin/sh",
				Args:        []string{"-c", "echo item=$ITEM"},
			},
		},
	}

	results := fe.Run(newTestCtx(t))
	require.Len(t, results, 1)
	assert.Equal(t, ResultStatusSuccess, results[0].Status)

	leaves := collectLeaves(results, "echo-item")
	require.Len(t, leaves, 2)

	var got []string
	for _, leaf := range leaves {
		got = append(got, strings.TrimSpace(string(leaf.StdOut)))
	}

	assert.ElementsMatch(t, []string{"item=x", "item=y"}, got)
}

func TestForEachCommandRun_CwdFromItem(t *testing.T) {
	defer goleak.VerifyNone(t)

	dirA := t.TempDir()
	dirB := t.TempDir()

	fe := &ForEachCommand{
		BaseCommand: NewBaseCommand("foreach", "", RunOnSuccess, nil, nil),
		ItemsProvider: func(_ context.Context, _ string) ([]string, error) {
			return []string{dirA, dirB}, nil
		},
		CwdFromItem: true,
		Commands: []Runnable{
			&OSCommand{
				BaseCommand: NewBaseCommand("pwd", "", RunOnSuccess, nil, nil),
				Path:        "/bin/sh",
				Args:        []string{"-c", "pwd"},
			},
		},
	}

	results := fe.Run(newTestCtx(t))
	require.Len(t, results, 1)

	leaves := collectLeaves(results, "pwd")
	require.Len(t, leaves, 2)
	assert.Contains(t, string(leaves[0].StdOut), dirA)
	assert.Contains(t, string(leaves[1].StdOut), dirB)
}

func TestForEachCommandRun_EmptyItems(t *testing.T) {
	defer goleak.VerifyNone(t)

	fe := &ForEachCommand{
		BaseCommand: NewBaseCommand("foreach", "", RunOnSuccess, nil, nil),
		ItemsProvider: func(_ context.Context, _ string) ([]string, error) {
			return nil, nil
		},
		Commands: []Runnable{newFakeCmd("never", 0, nil)},
	}

	results := fe.Run(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, ResultStatusSuccess, results[0].Status)
	assert.Empty(t, results[0].Children)
}

func TestForEachCommandRun_ProviderError(t *testing.T) {
	defer goleak.VerifyNone(t)

	fe := &ForEachCommand{
		BaseCommand: NewBaseCommand("foreach", "", RunOnSuccess, nil, nil),
		ItemsProvider: func(_ context.Context, _ string) ([]string, error) {
			return nil, errors.New("no items here")
		},
	}

	results := fe.Run(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, ResultStatusError, results[0].Status)
	assert.ErrorIs(t, results[0].Error, ErrItemsProviderFailed)
}
