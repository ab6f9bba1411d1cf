// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package evaluate

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

var (
	// ErrNoScore is returned when no score can be parsed from the runner output.
	ErrNoScore = errors.New("no score found in runner output")
	// ErrScorePath is returned when the JSONPath expression cannot be evaluated.
	ErrScorePath = errors.New("failed to evaluate score path")
)

var floatPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`)

// parseScore extracts the score from the runner's stdout. With a JSONPath
// expression the output must be JSON; otherwise the last float wins.
func parseScore(stdout []byte, scorePath string) (float64, error) {
	if scorePath != "" {
		return jsonPathScore(stdout, scorePath)
	}

	return lastFloat(stdout)
}

func lastFloat(stdout []byte) (float64, error) {
	matches := floatPattern.FindAll(stdout, -1)
	if len(matches) == 0 {
		return 0, ErrNoScore
	}

	score, err := strconv.ParseFloat(string(matches[len(matches)-1]), 64)
	if err != nil {
		return 0, errors.Join(ErrNoScore, err)
	}

	return score, nil
}

func jsonPathScore(stdout []byte, path string) (float64, error) {
	var doc any
	if err := json.Unmarshal(stdout, &doc); err != nil {
		return 0, errors.Join(ErrScorePath, err)
	}

	value, err := jsonpath.Get(path, doc)
	if err != nil {
		return 0, errors.Join(ErrScorePath, err)
	}

	switch v := value.(type) {
	case float64:
		return v, nil
	case string:
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrScorePath, v)
		}

		return score, nil
	default:
		return 0, fmt.Errorf("%w: %q yielded %T, want number", ErrScorePath, path, value)
	}
}
