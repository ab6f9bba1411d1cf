// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package evaluate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/problems"
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

// newTestProblem writes case files containing a single float each and
// returns a problem whose dev case is cases/dev.txt.
func newTestProblem(t *testing.T, caseScores map[string]string) *problems.Problem {
	t.Helper()

	dir := t.TempDir()

	var cases []string

	for name, content := range caseScores {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cases = append(cases, name)
	}

	return &problems.Problem{
		Name:      "tsp",
		Dir:       dir,
		DevCases:  []string{"cases/dev.txt"},
		TestCases: cases,
	}
}

func TestEvaluateScoresFromCaseOutput(t *testing.T) {
	problem := newTestProblem(t, map[string]string{
		"cases/dev.txt":  "score 0.5\n",
		"cases/test.txt": "score 1.0\n",
	})

	ev := New(problem, Options{Runner: `cat "$HEW_CASE"`})

	feedback, err := ev.Evaluate(newTestCtx(), "solution.txt")
	require.NoError(t, err)

	assert.InDelta(t, 0.5, feedback.DevScore, 1e-9)
	assert.InDelta(t, 1.0, feedback.TestScore, 1e-9)
	assert.InDelta(t, 0.75, feedback.Score, 1e-9)
	assert.Contains(t, feedback.DevFeedback, "cases/dev.txt: score=0.5000")
	assert.Contains(t, feedback.TestFeedback, "cases/test.txt: score=1.0000")
}

func TestEvaluateJSONScorePath(t *testing.T) {
	problem := newTestProblem(t, map[string]string{
		"cases/dev.txt": "unused",
	})

	ev := New(problem, Options{
		Runner:    `echo '{"result": {"score": 0.25}}'`,
		ScorePath: "$.result.score",
	})

	feedback, err := ev.Evaluate(newTestCtx(), "solution.txt")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, feedback.Score, 1e-9)
}

func TestEvaluateFailedCaseScoresZero(t *testing.T) {
	problem := newTestProblem(t, map[string]string{
		"cases/dev.txt":  "0.5",
		"cases/test.txt": "1.0",
	})

	runner := `if [ "$HEW_CASE" = "cases/test.txt" ]; then echo broken >&2; exit 1; fi; cat "$HEW_CASE"`

	ev := New(problem, Options{Runner: runner})

	feedback, err := ev.Evaluate(newTestCtx(), "solution.txt")
	require.NoError(t, err)

	assert.InDelta(t, 0.5, feedback.DevScore, 1e-9)
	assert.InDelta(t, 0.0, feedback.TestScore, 1e-9)
	assert.Contains(t, feedback.TestFeedback, "broken")
}

func TestEvaluateAllCasesFailed(t *testing.T) {
	problem := newTestProblem(t, map[string]string{
		"cases/dev.txt": "0.5",
	})

	ev := New(problem, Options{Runner: "exit 2"})

	feedback, err := ev.Evaluate(newTestCtx(), "solution.txt")
	require.ErrorIs(t, err, ErrAllCasesFailed)
	require.NotNil(t, feedback)
	assert.Zero(t, feedback.Score)
}

func TestEvaluateCaseTimeout(t *testing.T) {
	problem := newTestProblem(t, map[string]string{
		"cases/dev.txt": "0.5",
	})

	ev := New(problem, Options{
		Runner:  "sleep 5",
		Timeout: 100 * time.Millisecond,
	})

	start := time.Now()

	_, err := ev.Evaluate(newTestCtx(), "solution.txt")
	require.ErrorIs(t, err, ErrAllCasesFailed)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestEvaluateFeedbackTruncated(t *testing.T) {
	problem := newTestProblem(t, map[string]string{
		"cases/dev.txt": "0.5",
	})

	ev := New(problem, Options{
		Runner:         `echo aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa >&2; exit 1`,
		FeedbackLength: 8,
	})

	feedback, err := ev.Evaluate(newTestCtx(), "solution.txt")
	require.ErrorIs(t, err, ErrAllCasesFailed)
	assert.Equal(t, "aaaaaaaa", feedback.Results[0].Feedback)
}

func TestEvaluateRelativeSolutionPath(t *testing.T) {
	problem := newTestProblem(t, map[string]string{
		"cases/dev.txt": "unused",
	})

	// The runner executes in the problem directory, so a solution path
	// relative to the caller's working directory only works when Evaluate
	// resolves it to an absolute path first.
	workDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "candidates"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(workDir, "candidates", "candidate_1.txt"), []byte("0.75\n"), 0o644))

	t.Chdir(workDir)

	ev := New(problem, Options{Runner: `cat "$HEW_SOLUTION"`})

	feedback, err := ev.Evaluate(newTestCtx(), filepath.Join("candidates", "candidate_1.txt"))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, feedback.Score, 1e-9)
}

func TestEvaluateCancelledContext(t *testing.T) {
	problem := newTestProblem(t, map[string]string{
		"cases/dev.txt":  "0.5",
		"cases/test.txt": "1.0",
	})

	ev := New(problem, Options{Runner: `cat "$HEW_CASE"`, MaxParallel: 1})

	ctx, cancel := context.WithCancel(newTestCtx())
	cancel()

	feedback, err := ev.Evaluate(ctx, "solution.txt")
	require.ErrorIs(t, err, ErrAllCasesFailed)
	require.NotNil(t, feedback)
	assert.Zero(t, feedback.Score)
}

func TestEvaluateFeedbackTruncatedOnRuneBoundary(t *testing.T) {
	problem := newTestProblem(t, map[string]string{
		"cases/dev.txt": "0.5",
	})

	ev := New(problem, Options{
		Runner:         `printf 'ααααα' >&2; exit 1`,
		FeedbackLength: 5,
	})

	feedback, err := ev.Evaluate(newTestCtx(), "solution.txt")
	require.ErrorIs(t, err, ErrAllCasesFailed)

	got := feedback.Results[0].Feedback
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 5)
	assert.Equal(t, "αα", got)
}

func TestEvaluateNoRunner(t *testing.T) {
	problem := newTestProblem(t, map[string]string{"cases/dev.txt": "0.5"})

	_, err := New(problem, Options{}).Evaluate(newTestCtx(), "solution.txt")
	require.ErrorIs(t, err, ErrNoRunner)
}

func TestEvaluateNoTestCases(t *testing.T) {
	problem := &problems.Problem{Name: "empty", Dir: t.TempDir()}

	_, err := New(problem, Options{Runner: "true"}).Evaluate(newTestCtx(), "solution.txt")
	require.ErrorIs(t, err, ErrNoTestCases)
}

func TestLastFloat(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "single", in: "0.5", want: 0.5},
		{name: "last wins", in: "step 1 done, score 0.75", want: 0.75},
		{name: "scientific", in: "score: 1.5e-3", want: 0.0015},
		{name: "negative", in: "delta -2.5", want: -2.5},
		{name: "none", in: "no numbers here", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := lastFloat([]byte(tc.in))
			if tc.wantErr {
				require.ErrorIs(t, err, ErrNoScore)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestJSONPathScore(t *testing.T) {
	got, err := jsonPathScore([]byte(`{"score": 0.9}`), "$.score")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got, 1e-9)

	got, err = jsonPathScore([]byte(`{"score": "0.9"}`), "$.score")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got, 1e-9)

	_, err = jsonPathScore([]byte(`not json`), "$.score")
	require.ErrorIs(t, err, ErrScorePath)

	_, err = jsonPathScore([]byte(`{"score": [1]}`), "$.score")
	require.ErrorIs(t, err, ErrScorePath)

	_, err = jsonPathScore([]byte(`{}`), "$.missing")
	require.ErrorIs(t, err, ErrScorePath)
}
