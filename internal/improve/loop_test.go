// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package improve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/evaluate"
	"github.com/matt-FFFFFF/hew/internal/problems"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestCtx() context.Context {
	return ctxlog.New(context.Background(), ctxlog.DefaultLogger)
}

func newTestProblem(t *testing.T) *problems.Problem {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cases"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cases", "dev.txt"), []byte("1\n"), 0o644))

	return &problems.Problem{
		Name:          "tsp",
		Dir:           dir,
		Description:   "Find the shortest tour.",
		SolveTemplate: "solve(input)",
		DevCases:      []string{"cases/dev.txt"},
		TestCases:     []string{"cases/dev.txt"},
	}
}

// A generator that drains its stdin and replies with a fenced candidate.
const okGenerator = "cat >/dev/null; echo 'Here is my approach:'; " +
	"printf '%s\\n' '```' 'solve: greedy baseline' '```'"

func TestLoopRunStopsOnScoreThreshold(t *testing.T) {
	problem := newTestProblem(t)
	fsys := afero.NewOsFs()

	loop := NewLoop(fsys, problem, Options{
		Generator:   okGenerator,
		SolveMarker: "solve",
		RunsDir:     filepath.Join(t.TempDir(), "runs"),
		Eval:        evaluate.Options{Runner: "echo 1.0"},
	})

	summary, err := loop.Run(newTestCtx())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalIterations)
	assert.InDelta(t, 1.0, summary.BestScore, 1e-9)
	assert.Equal(t, 0, summary.BestIteration)
	assert.Contains(t, summary.StopReason, "score threshold")

	for _, name := range []string{
		"run_config.json",
		"summary.json",
		filepath.Join("candidates", "candidate_0.txt"),
		filepath.Join("evaluation", "eval_0.txt"),
		filepath.Join("evaluation", "eval_0.json"),
	} {
		ok, err := afero.Exists(fsys, filepath.Join(summary.RunDir, name))
		require.NoError(t, err)
		assert.True(t, ok, "expected %s to exist", name)
	}

	candidate, err := afero.ReadFile(fsys, filepath.Join(summary.RunDir, "candidates", "candidate_0.txt"))
	require.NoError(t, err)
	assert.Equal(t, "solve: greedy baseline\n", string(candidate))
}

func TestLoopRunRelativeRunsDir(t *testing.T) {
	problem := newTestProblem(t)

	// Candidates are saved under the runs directory and handed to the runner
	// via HEW_SOLUTION while it executes in the problem directory. A relative
	// runs directory must still yield a readable solution path.
	t.Chdir(t.TempDir())

	loop := NewLoop(afero.NewOsFs(), problem, Options{
		Generator:     "cat >/dev/null; printf '%s\\n' '```' 'solve 0.75' '```'",
		SolveMarker:   "solve",
		MaxIterations: 1,
		RunsDir:       "runs",
		Eval:          evaluate.Options{Runner: `cat "$HEW_SOLUTION"`},
	})

	summary, err := loop.Run(newTestCtx())
	require.NoError(t, err)

	assert.InDelta(t, 0.75, summary.BestScore, 1e-9)
	assert.Equal(t, 0, summary.BestIteration)
}

func TestLoopRunStopsOnDiminishingReturns(t *testing.T) {
	problem := newTestProblem(t)

	loop := NewLoop(afero.NewOsFs(), problem, Options{
		Generator:   okGenerator,
		SolveMarker: "solve",
		RunsDir:     filepath.Join(t.TempDir(), "runs"),
		// Constant score below the threshold, improvement is always zero.
		Eval: evaluate.Options{Runner: "echo 0.5"},
	})

	summary, err := loop.Run(newTestCtx())
	require.NoError(t, err)

	assert.Equal(t, DefaultPatience, summary.TotalIterations)
	assert.Contains(t, summary.StopReason, "diminishing returns")
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, summary.ScoreHistory)
}

func TestLoopRunContinuesPastBadGenerations(t *testing.T) {
	problem := newTestProblem(t)

	loop := NewLoop(afero.NewOsFs(), problem, Options{
		Generator:     "cat >/dev/null; echo no code here",
		MaxIterations: 2,
		RunsDir:       filepath.Join(t.TempDir(), "runs"),
		Eval:          evaluate.Options{Runner: "echo 1.0"},
	})

	summary, err := loop.Run(newTestCtx())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalIterations)
	assert.Contains(t, summary.StopReason, "maximum iterations")
}

func TestLoopRunNoGenerator(t *testing.T) {
	loop := NewLoop(afero.NewMemMapFs(), newTestProblem(t), Options{})

	_, err := loop.Run(newTestCtx())
	require.ErrorIs(t, err, ErrNoGenerator)
}

func TestLoopRunRejectsMissingSolveMarker(t *testing.T) {
	problem := newTestProblem(t)

	loop := NewLoop(afero.NewOsFs(), problem, Options{
		Generator:     okGenerator,
		SolveMarker:   "def solve(",
		MaxIterations: 1,
		RunsDir:       filepath.Join(t.TempDir(), "runs"),
		Eval:          evaluate.Options{Runner: "echo 1.0"},
	})

	summary, err := loop.Run(newTestCtx())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalIterations)
}

func TestExtractLastCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantCode string
		wantLang string
		wantOK   bool
	}{
		{
			name:     "single block",
			in:       "text\n```python\ndef solve():\n    pass\n```\n",
			wantCode: "def solve():\n    pass",
			wantLang: "python",
			wantOK:   true,
		},
		{
			name:     "last block wins",
			in:       "```\nfirst\n```\nmore text\n```go\nsecond\n```\n",
			wantCode: "second",
			wantLang: "go",
			wantOK:   true,
		},
		{
			name:   "no block",
			in:     "plain explanation without code",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, lang, ok := ExtractLastCodeBlock(tc.in)
			require.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantLang, lang)
		})
	}
}

func TestCheckStoppingCriteria(t *testing.T) {
	tests := []struct {
		name     string
		iter     int
		score    float64
		history  []float64
		wantStop bool
		wantIn   string
	}{
		{name: "continue", iter: 1, score: 0.5, history: []float64{0.5}, wantStop: false},
		{name: "max iterations", iter: 10, score: 0.5, history: []float64{0.5}, wantStop: true, wantIn: "maximum"},
		{name: "threshold", iter: 1, score: 0.995, history: []float64{0.995}, wantStop: true, wantIn: "threshold"},
		{
			name:     "diminishing",
			iter:     3,
			score:    0.5,
			history:  []float64{0.5, 0.5, 0.5},
			wantStop: true,
			wantIn:   "diminishing",
		},
		{
			name:     "still improving",
			iter:     3,
			score:    0.6,
			history:  []float64{0.2, 0.4, 0.6},
			wantStop: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stop, reason := checkStoppingCriteria(tc.iter, 10, tc.score, 0.99, tc.history, 0.001, 3)
			assert.Equal(t, tc.wantStop, stop)

			if tc.wantIn != "" {
				assert.Contains(t, reason, tc.wantIn)
			}
		})
	}
}
