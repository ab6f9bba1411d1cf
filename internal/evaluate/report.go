// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package evaluate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrWriteReport is returned when a report file cannot be written.
var ErrWriteReport = errors.New("failed to write evaluation report")

const reportRule = "================================================================================"

// WriteText writes the human-readable report.
func (f *Feedback) WriteText(w io.Writer, iteration int) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Iteration %d\n", iteration)
	fmt.Fprintf(&b, "Timestamp: %s\n", f.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	b.WriteString(reportRule + "\n\n")
	fmt.Fprintf(&b, "Overall Score: %.6f\n", f.Score)
	fmt.Fprintf(&b, "Dev Score: %.6f\n", f.DevScore)
	fmt.Fprintf(&b, "Test Score: %.6f\n", f.TestScore)
	b.WriteString("\n" + reportRule + "\n")
	b.WriteString("DEV FEEDBACK:\n")
	b.WriteString(reportRule + "\n")
	b.WriteString(f.DevFeedback)
	b.WriteString("\n\n" + reportRule + "\n")
	b.WriteString("TEST FEEDBACK:\n")
	b.WriteString(reportRule + "\n")
	b.WriteString(f.TestFeedback)
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Join(ErrWriteReport, err)
	}

	return nil
}

// reportJSON is the eval_<n>.json document.
type reportJSON struct {
	Iteration    int                       `json:"iteration"`
	Timestamp    string                    `json:"timestamp"`
	OverallScore float64                   `json:"overall_score"`
	DevScore     float64                   `json:"dev_score"`
	TestScore    float64                   `json:"test_score"`
	Feedback     string                    `json:"feedback"`
	Scores       map[string]float64        `json:"scores"`
	Results      map[string]reportJSONCase `json:"detailed_results"`
}

type reportJSONCase struct {
	Score float64 `json:"score"`
	Dev   bool    `json:"dev"`
	Error string  `json:"error,omitempty"`
}

// WriteJSON writes the structured report.
func (f *Feedback) WriteJSON(w io.Writer, iteration int) error {
	doc := reportJSON{
		Iteration:    iteration,
		Timestamp:    f.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		OverallScore: f.Score,
		DevScore:     f.DevScore,
		TestScore:    f.TestScore,
		Feedback:     f.DevFeedback,
		Scores: map[string]float64{
			"overall": f.Score,
			"dev":     f.DevScore,
			"test":    f.TestScore,
		},
		Results: make(map[string]reportJSONCase, len(f.Results)),
	}

	for _, r := range f.Results {
		doc.Results[r.Case] = reportJSONCase{
			Score: r.Score,
			Dev:   r.Dev,
			Error: r.Feedback,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return errors.Join(ErrWriteReport, err)
	}

	return nil
}

// SaveReports writes eval_<iteration>.txt and eval_<iteration>.json into dir
// and returns their paths.
func SaveReports(fsys afero.Fs, dir string, iteration int, f *Feedback) (string, string, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", "", errors.Join(ErrWriteReport, err)
	}

	textPath := filepath.Join(dir, fmt.Sprintf("eval_%d.txt", iteration))
	jsonPath := filepath.Join(dir, fmt.Sprintf("eval_%d.json", iteration))

	textFile, err := fsys.Create(textPath)
	if err != nil {
		return "", "", errors.Join(ErrWriteReport, err)
	}
	defer textFile.Close() //nolint:errcheck

	if err := f.WriteText(textFile, iteration); err != nil {
		return "", "", err
	}

	jsonFile, err := fsys.Create(jsonPath)
	if err != nil {
		return "", "", errors.Join(ErrWriteReport, err)
	}
	defer jsonFile.Close() //nolint:errcheck

	if err := f.WriteJSON(jsonFile, iteration); err != nil {
		return "", "", err
	}

	return textPath, jsonPath, nil
}
