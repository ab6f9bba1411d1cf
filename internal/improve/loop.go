// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package improve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/matt-FFFFFF/hew/internal/commands/shellcommand"
	"github.com/matt-FFFFFF/hew/internal/ctxlog"
	"github.com/matt-FFFFFF/hew/internal/evaluate"
	"github.com/matt-FFFFFF/hew/internal/problems"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	// DefaultMaxIterations bounds the loop.
	DefaultMaxIterations = 10
	// DefaultScoreThreshold stops the loop when reached.
	DefaultScoreThreshold = 0.99
	// DefaultImprovementThreshold is the minimum average improvement to continue.
	DefaultImprovementThreshold = 0.001
	// DefaultPatience is the window of recent scores checked for diminishing returns.
	DefaultPatience = 3
	// DefaultGeneratorTimeout bounds one generator invocation.
	DefaultGeneratorTimeout = 5 * time.Minute

	runStampFormat = "20060102_150405"
	candidatesDir  = "candidates"
	evaluationDir  = "evaluation"
)

var (
	// ErrNoGenerator is returned when no generator command is configured.
	ErrNoGenerator = errors.New("no generator command configured")
	// ErrGeneratorFailed is returned when the generator command fails.
	ErrGeneratorFailed = errors.New("generator command failed")
	// ErrNoCodeBlock is returned when no fenced code block is found in the
	// generator output.
	ErrNoCodeBlock = errors.New("no fenced code block in generator output")
	// ErrNoSolveMarker is returned when the candidate lacks the solve marker.
	ErrNoSolveMarker = errors.New("candidate does not contain the solve marker")
	// ErrRunDir is returned when the run directory cannot be created.
	ErrRunDir = errors.New("failed to create run directory")
)

// Options configures the improvement loop.
type Options struct {
	// Generator is the shell command that receives the prompt on stdin and
	// writes the candidate text to stdout.
	Generator string
	// SolveMarker must appear in every candidate, e.g. "def solve(".
	SolveMarker string
	// MaxIterations bounds the loop. Zero means DefaultMaxIterations.
	MaxIterations int
	// ScoreThreshold stops the loop when the overall score reaches it. Zero
	// means DefaultScoreThreshold.
	ScoreThreshold float64
	// ImprovementThreshold is the minimum average improvement over the
	// patience window. Zero means DefaultImprovementThreshold.
	ImprovementThreshold float64
	// Patience is the number of recent scores checked for diminishing
	// returns. Zero means DefaultPatience.
	Patience int
	// GeneratorTimeout bounds one generator invocation. Zero means
	// DefaultGeneratorTimeout.
	GeneratorTimeout time.Duration
	// RunsDir is the parent of the timestamped run directories.
	RunsDir string
	// Eval configures the per-candidate evaluation.
	Eval evaluate.Options
}

// Summary is the final outcome of a run, persisted as summary.json.
type Summary struct {
	Problem         string    `json:"problem"`
	TotalIterations int       `json:"total_iterations"`
	BestScore       float64   `json:"best_score"`
	BestIteration   int       `json:"best_iteration"`
	FinalScore      float64   `json:"final_score"`
	ScoreHistory    []float64 `json:"score_history"`
	StopReason      string    `json:"stop_reason"`
	RunDir          string    `json:"run_dir"`
	EndTime         time.Time `json:"end_time"`
}

// runConfig is persisted as run_config.json when the loop starts.
type runConfig struct {
	Problem              string    `json:"problem"`
	Generator            string    `json:"generator"`
	MaxIterations        int       `json:"max_iterations"`
	ScoreThreshold       float64   `json:"score_threshold"`
	ImprovementThreshold float64   `json:"improvement_threshold"`
	Patience             int       `json:"patience"`
	StartTime            time.Time `json:"start_time"`
}

// Loop drives candidate generation and evaluation for one problem.
type Loop struct {
	fsys    afero.Fs
	problem *problems.Problem
	opts    Options

	// now is replaceable in tests for deterministic run stamps.
	now func() time.Time
}

// NewLoop creates an improvement loop for the given problem. Artifacts are
// written through fsys.
func NewLoop(fsys afero.Fs, problem *problems.Problem, opts Options) *Loop {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	if opts.ScoreThreshold == 0 {
		opts.ScoreThreshold = DefaultScoreThreshold
	}

	if opts.ImprovementThreshold == 0 {
		opts.ImprovementThreshold = DefaultImprovementThreshold
	}

	if opts.Patience <= 0 {
		opts.Patience = DefaultPatience
	}

	if opts.GeneratorTimeout <= 0 {
		opts.GeneratorTimeout = DefaultGeneratorTimeout
	}

	if opts.RunsDir == "" {
		opts.RunsDir = "runs"
	}

	return &Loop{
		fsys:    fsys,
		problem: problem,
		opts:    opts,
		now:     time.Now,
	}
}

// Run executes the loop until a stopping criterion is met. A failed
// generation or evaluation logs the error and continues with the next
// iteration.
func (l *Loop) Run(ctx context.Context) (*Summary, error) {
	if l.opts.Generator == "" {
		return nil, ErrNoGenerator
	}

	logger := ctxlog.Logger(ctx)

	runDir := filepath.Join(l.opts.RunsDir, l.now().Format(runStampFormat))

	for _, dir := range []string{
		filepath.Join(runDir, candidatesDir),
		filepath.Join(runDir, evaluationDir),
	} {
		if err := l.fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Join(ErrRunDir, err)
		}
	}

	cfg := runConfig{
		Problem:              l.problem.Name,
		Generator:            l.opts.Generator,
		MaxIterations:        l.opts.MaxIterations,
		ScoreThreshold:       l.opts.ScoreThreshold,
		ImprovementThreshold: l.opts.ImprovementThreshold,
		Patience:             l.opts.Patience,
		StartTime:            l.now(),
	}
	if err := l.writeJSON(filepath.Join(runDir, "run_config.json"), cfg); err != nil {
		return nil, err
	}

	logger.Info("starting improvement loop",
		"problem", l.problem.Name,
		"runDir", runDir,
		"maxIterations", l.opts.MaxIterations,
	)

	description := l.problem.RenderDescription()
	evaluator := evaluate.New(l.problem, l.opts.Eval)

	var (
		scoreHistory  []float64
		bestScore     float64
		bestIteration int
		currentCode   string
		lastFeedback  *evaluate.Feedback
		stopReason    string
	)

	for iteration := range l.opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			stopReason = fmt.Sprintf("context cancelled: %s", err)
			break
		}

		logger.Info("iteration started", "iteration", iteration)

		prompt, err := l.renderPrompt(description, currentCode, iteration, lastFeedback)
		if err != nil {
			return nil, err
		}

		code, err := l.generate(ctx, prompt, iteration)
		if err != nil {
			logger.Error("generation failed", "iteration", iteration, "error", err.Error())
			continue
		}

		currentCode = code

		candidatePath, err := l.saveCandidate(runDir, iteration, code)
		if err != nil {
			return nil, err
		}

		feedback, err := evaluator.Evaluate(ctx, candidatePath)
		if err != nil && feedback == nil {
			logger.Error("evaluation failed", "iteration", iteration, "error", err.Error())
			continue
		}

		if err != nil {
			logger.Warn("evaluation degraded", "iteration", iteration, "error", err.Error())
		}

		lastFeedback = feedback

		evalDir := filepath.Join(runDir, evaluationDir)
		if _, _, err := evaluate.SaveReports(l.fsys, evalDir, iteration, feedback); err != nil {
			return nil, err
		}

		logger.Info("iteration scored",
			"iteration", iteration,
			"overall", feedback.Score,
			"dev", feedback.DevScore,
			"test", feedback.TestScore,
		)

		if feedback.Score > bestScore {
			bestScore = feedback.Score
			bestIteration = iteration

			logger.Info("new best score", "score", bestScore, "iteration", iteration)
		}

		scoreHistory = append(scoreHistory, feedback.Score)

		stop, reason := checkStoppingCriteria(
			iteration+1,
			l.opts.MaxIterations,
			feedback.Score,
			l.opts.ScoreThreshold,
			scoreHistory,
			l.opts.ImprovementThreshold,
			l.opts.Patience,
		)
		if stop {
			stopReason = reason
			logger.Info("stopping", "reason", reason)

			break
		}
	}

	if stopReason == "" {
		stopReason = fmt.Sprintf("reached maximum iterations (%d)", l.opts.MaxIterations)
	}

	summary := &Summary{
		Problem:         l.problem.Name,
		TotalIterations: len(scoreHistory),
		BestScore:       bestScore,
		BestIteration:   bestIteration,
		ScoreHistory:    scoreHistory,
		StopReason:      stopReason,
		RunDir:          runDir,
		EndTime:         l.now(),
	}

	if len(scoreHistory) > 0 {
		summary.FinalScore = scoreHistory[len(scoreHistory)-1]
	}

	if err := l.writeJSON(filepath.Join(runDir, "summary.json"), summary); err != nil {
		return nil, err
	}

	return summary, nil
}

func (l *Loop) renderPrompt(
	description, currentCode string,
	iteration int,
	lastFeedback *evaluate.Feedback,
) (string, error) {
	if iteration == 0 || lastFeedback == nil {
		return initialPrompt(description)
	}

	return improvementPrompt(
		description,
		currentCode,
		iteration-1,
		lastFeedback.Score,
		lastFeedback.DevScore,
		lastFeedback.TestScore,
		lastFeedback.DevFeedback,
	)
}

// generate runs the generator command with the prompt on stdin and extracts
// the candidate from its stdout.
func (l *Loop) generate(ctx context.Context, prompt string, iteration int) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, l.opts.GeneratorTimeout)
	defer cancel()

	base := runbatch.NewBaseCommand(
		fmt.Sprintf("generator [%d]", iteration),
		"", runbatch.RunOnSuccess, nil, nil,
	)

	cmd, err := shellcommand.New(genCtx, base, l.opts.Generator, nil, nil)
	if err != nil {
		return "", errors.Join(ErrGeneratorFailed, err)
	}

	cmd.StdIn = []byte(prompt)

	res := cmd.Run(genCtx)
	if res.HasError() {
		return "", errors.Join(ErrGeneratorFailed, caseError(res))
	}

	code, _, ok := ExtractLastCodeBlock(string(res[0].StdOut))
	if !ok {
		return "", ErrNoCodeBlock
	}

	if l.opts.SolveMarker != "" && !HasSolveMarker(code, l.opts.SolveMarker) {
		return "", fmt.Errorf("%w: %q", ErrNoSolveMarker, l.opts.SolveMarker)
	}

	return code, nil
}

func (l *Loop) saveCandidate(runDir string, iteration int, code string) (string, error) {
	path := filepath.Join(runDir, candidatesDir, fmt.Sprintf("candidate_%d.txt", iteration))

	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}

	if err := afero.WriteFile(l.fsys, path, []byte(code), 0o644); err != nil {
		return "", errors.Join(ErrRunDir, err)
	}

	return path, nil
}

func (l *Loop) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Join(ErrRunDir, err)
	}

	return afero.WriteFile(l.fsys, path, append(data, '\n'), 0o644)
}

// checkStoppingCriteria reports whether the loop should stop and why.
func checkStoppingCriteria(
	iteration, maxIterations int,
	currentScore, scoreThreshold float64,
	scoreHistory []float64,
	improvementThreshold float64,
	patience int,
) (bool, string) {
	if iteration >= maxIterations {
		return true, fmt.Sprintf("reached maximum iterations (%d)", maxIterations)
	}

	if currentScore >= scoreThreshold {
		return true, fmt.Sprintf("reached score threshold (%.4f >= %v)", currentScore, scoreThreshold)
	}

	if patience >= 2 && len(scoreHistory) >= patience {
		recent := scoreHistory[len(scoreHistory)-patience:]

		var sum float64
		for i := 1; i < len(recent); i++ {
			sum += recent[i] - recent[i-1]
		}

		avg := sum / float64(len(recent)-1)
		if avg < improvementThreshold {
			return true, fmt.Sprintf("diminishing returns (avg improvement %.6f < %v)", avg, improvementThreshold)
		}
	}

	return false, ""
}

// caseError extracts the leaf error from a single-command result.
func caseError(res runbatch.Results) error {
	if len(res) == 0 {
		return errors.New("no result returned")
	}

	if res[0].Error != nil {
		return res[0].Error
	}

	return fmt.Errorf("exited with code %d", res[0].ExitCode)
}
