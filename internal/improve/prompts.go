// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package improve

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrRenderPrompt is returned when a prompt template cannot be rendered.
var ErrRenderPrompt = errors.New("failed to render prompt")

const codeFence = "```"

var initialPromptTemplate = template.Must(template.New("initial").Parse(
	`You are designing a solution for the optimization problem below.

{{.Description}}

Start with a simple, correct baseline. Reply with a single fenced code block
containing the complete solution.
`))

var improvementPromptTemplate = template.Must(template.New("improvement").Parse(
	`You are improving a solution for the optimization problem below.

{{.Description}}

# Current Solution (iteration {{.Iteration}})

{{.CodeFenced}}

# Evaluation

Overall score: {{printf "%.4f" .OverallScore}}
Dev score: {{printf "%.4f" .DevScore}}
Test score: {{printf "%.4f" .TestScore}}

Feedback:
{{.Feedback}}

Analyse the feedback, form a hypothesis about what limits the score, and
improve the solution. Reply with a single fenced code block containing the
complete improved solution.
`))

type promptData struct {
	Description  string
	Iteration    int
	CodeFenced   string
	OverallScore float64
	DevScore     float64
	TestScore    float64
	Feedback     string
}

// initialPrompt renders the first-iteration prompt.
func initialPrompt(description string) (string, error) {
	var b strings.Builder

	err := initialPromptTemplate.Execute(&b, promptData{Description: description})
	if err != nil {
		return "", errors.Join(ErrRenderPrompt, err)
	}

	return b.String(), nil
}

// improvementPrompt renders the feedback-driven prompt for later iterations.
func improvementPrompt(
	description, code string,
	iteration int,
	overall, dev, test float64,
	feedback string,
) (string, error) {
	var b strings.Builder

	err := improvementPromptTemplate.Execute(&b, promptData{
		Description:  description,
		Iteration:    iteration,
		CodeFenced:   fmt.Sprintf("%s\n%s\n%s", codeFence, code, codeFence),
		OverallScore: overall,
		DevScore:     dev,
		TestScore:    test,
		Feedback:     feedback,
	})
	if err != nil {
		return "", errors.Join(ErrRenderPrompt, err)
	}

	return b.String(), nil
}
