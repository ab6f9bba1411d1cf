// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package evaluate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/hew/internal/commands/shellcommand"
	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/problems"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

const (
	// DefaultTimeout bounds each test case run.
	DefaultTimeout = 10 * time.Second
	// DefaultFeedbackLength bounds the per-case feedback text in characters.
	DefaultFeedbackLength = 64

	// Environment variables exposed to the runner command.
	envCase     = "HEW_CASE"
	envSolution = "HEW_SOLUTION"
	envProblem  = "HEW_PROBLEM"
)

var (
	// ErrNoTestCases is returned when the problem has no test cases.
	ErrNoTestCases = errors.New("problem has no test cases")
	// ErrNoRunner is returned when no runner command is configured.
	ErrNoRunner = errors.New("no runner command configured")
	// ErrAllCasesFailed is returned when every test case errored.
	ErrAllCasesFailed = errors.New("all test cases failed")
	// ErrSolutionPath is returned when the solution path cannot be resolved.
	ErrSolutionPath = errors.New("failed to resolve solution path")
)

// Options configures an evaluation.
type Options struct {
	// Runner is the shell command executed once per test case. It receives
	// HEW_CASE, HEW_SOLUTION and HEW_PROBLEM in its environment and runs in
	// the problem directory.
	Runner string
	// Timeout bounds each case run. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxParallel bounds the worker pool. Zero means GOMAXPROCS.
	MaxParallel int
	// ScorePath is an optional JSONPath expression applied to the runner's
	// JSON stdout. Empty means the last float on stdout is the score.
	ScorePath string
	// FeedbackLength bounds the per-case feedback text in characters. Zero
	// means DefaultFeedbackLength.
	FeedbackLength int
}

// CaseResult is the outcome of a single test case.
type CaseResult struct {
	Case     string  `json:"case"`
	Dev      bool    `json:"dev"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback,omitempty"`
}

// Feedback is the aggregated outcome of an evaluation. Failed cases score
// zero and contribute their truncated feedback to the group text.
type Feedback struct {
	Problem      string       `json:"problem"`
	Timestamp    time.Time    `json:"timestamp"`
	Score        float64      `json:"overall_score"`
	DevScore     float64      `json:"dev_score"`
	TestScore    float64      `json:"test_score"`
	DevFeedback  string       `json:"dev_feedback"`
	TestFeedback string       `json:"test_feedback"`
	Results      []CaseResult `json:"results"`
}

// Evaluator runs a solution against every test case of a problem.
type Evaluator struct {
	problem *problems.Problem
	opts    Options
}

// New creates an evaluator for the given problem.
func New(problem *problems.Problem, opts Options) *Evaluator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.MaxParallel <= 0 {
		opts.MaxParallel = runtime.GOMAXPROCS(0)
	}

	if opts.FeedbackLength <= 0 {
		opts.FeedbackLength = DefaultFeedbackLength
	}

	return &Evaluator{
		problem: problem,
		opts:    opts,
	}
}

// Evaluate runs the solution at solutionPath against every test case. An
// error is returned only when the evaluation could not start or every case
// errored; individual case failures score zero and are reported in the
// feedback.
func (e *Evaluator) Evaluate(ctx context.Context, solutionPath string) (*Feedback, error) {
	if e.opts.Runner == "" {
		return nil, ErrNoRunner
	}

	if len(e.problem.TestCases) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTestCases, e.problem.Name)
	}

	// The runner executes in the problem directory, so a relative solution
	// path must be resolved against the caller's working directory before
	// it is handed over via HEW_SOLUTION.
	solutionPath, err := filepath.Abs(solutionPath)
	if err != nil {
		return nil, errors.Join(ErrSolutionPath, err)
	}

	logger := ctxlog.Logger(ctx)
	logger.Info("evaluating solution",
		"problem", e.problem.Name,
		"cases", len(e.problem.TestCases),
		"parallelism", e.opts.MaxParallel,
	)

	results := make([]CaseResult, len(e.problem.TestCases))
	sem := make(chan struct{}, e.opts.MaxParallel)

	var wg sync.WaitGroup

	var (
		mu      sync.Mutex
		caseErr error
	)

	for i, testCase := range e.problem.TestCases {
		wg.Add(1)

		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				caseErr = multierror.Append(caseErr, fmt.Errorf("case %q: %w", testCase, ctx.Err()))
				mu.Unlock()

				results[i] = CaseResult{
					Case:     testCase,
					Dev:      e.problem.IsDevCase(testCase),
					Feedback: e.truncate(ctx.Err().Error()),
				}

				return
			}

			result, err := e.runCase(ctx, solutionPath, testCase)
			if err != nil {
				mu.Lock()
				caseErr = multierror.Append(caseErr, fmt.Errorf("case %q: %w", testCase, err))
				mu.Unlock()
			}

			results[i] = result
		}()
	}

	wg.Wait()

	feedback := e.aggregate(results)

	if caseErr != nil {
		var merr *multierror.Error
		if errors.As(caseErr, &merr) && len(merr.Errors) == len(e.problem.TestCases) {
			return feedback, errors.Join(ErrAllCasesFailed, caseErr)
		}

		logger.Warn("some test cases failed", "error", caseErr.Error())
	}

	return feedback, nil
}

// runCase executes the runner for one test case and parses its score.
func (e *Evaluator) runCase(ctx context.Context, solutionPath, testCase string) (CaseResult, error) {
	result := CaseResult{
		Case: testCase,
		Dev:  e.problem.IsDevCase(testCase),
	}

	caseCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	base := runbatch.NewBaseCommand(
		fmt.Sprintf("%s [%s]", e.problem.Name, testCase),
		e.problem.Dir,
		runbatch.RunOnSuccess,
		nil,
		map[string]string{
			envCase:     testCase,
			envSolution: solutionPath,
			envProblem:  e.problem.Name,
		},
	)

	cmd, err := shellcommand.New(caseCtx, base, e.opts.Runner, nil, nil)
	if err != nil {
		result.Feedback = e.truncate(err.Error())
		return result, err
	}

	res := cmd.Run(caseCtx)

	if res.HasError() {
		err := caseError(res)
		result.Feedback = e.truncate(feedbackText(res, err))

		return result, err
	}

	score, err := parseScore(res[0].StdOut, e.opts.ScorePath)
	if err != nil {
		result.Feedback = e.truncate(feedbackText(res, err))
		return result, err
	}

	result.Score = score

	return result, nil
}

// aggregate computes the dev, test and overall mean scores and the per-group
// feedback text.
func (e *Evaluator) aggregate(results []CaseResult) *Feedback {
	feedback := &Feedback{
		Problem:   e.problem.Name,
		Timestamp: time.Now(),
		Results:   results,
	}

	var (
		devSum, testSum, sum       float64
		devCount, testCount, count int
		devLines, testLines        []string
	)

	for _, r := range results {
		sum += r.Score
		count++

		line := fmt.Sprintf("%s: score=%.4f", r.Case, r.Score)
		if r.Feedback != "" {
			line = fmt.Sprintf("%s error: %s", line, r.Feedback)
		}

		if r.Dev {
			devSum += r.Score
			devCount++

			devLines = append(devLines, line)
		} else {
			testSum += r.Score
			testCount++

			testLines = append(testLines, line)
		}
	}

	feedback.Score = mean(sum, count)
	feedback.DevScore = mean(devSum, devCount)
	feedback.TestScore = mean(testSum, testCount)

	sort.Strings(devLines)
	sort.Strings(testLines)

	feedback.DevFeedback = strings.Join(devLines, "\n")
	feedback.TestFeedback = strings.Join(testLines, "\n")

	return feedback
}

func (e *Evaluator) truncate(s string) string {
	if len(s) <= e.opts.FeedbackLength {
		return s
	}

	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := e.opts.FeedbackLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}

func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}

	return sum / float64(count)
}

// caseError extracts the leaf error from the case's result tree.
func caseError(res runbatch.Results) error {
	if len(res) == 0 {
		return errors.New("no result returned")
	}

	if res[0].Error != nil {
		return res[0].Error
	}

	return fmt.Errorf("runner exited with code %d", res[0].ExitCode)
}

// feedbackText prefers stderr over the error string, the runner's own
// diagnostics are usually the more useful signal.
func feedbackText(res runbatch.Results, err error) string {
	if len(res) > 0 && len(res[0].StdErr) > 0 {
		return strings.TrimSpace(string(res[0].StdErr))
	}

	return err.Error()
}
