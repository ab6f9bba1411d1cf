// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/hew/internal/progress"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel() *Model {
	m := NewModel(context.Background())
	m.width = 120
	m.height = 40

	return m
}

func TestProcessProgressEvent_BuildsHierarchy(t *testing.T) {
	m := newTestModel()

	m.processProgressEvent(progress.Event{
		CommandPath: []string{"checks", "lint"},
		Type:        progress.EventStarted,
		Timestamp:   time.Now(),
	})

	require.Contains(t, m.nodeMap, "checks")
	require.Contains(t, m.nodeMap, "checks/lint")

	parent := m.nodeMap["checks"]
	require.Len(t, parent.Children, 1)
	assert.Equal(t, "lint", parent.Children[0].Name)

	status, _, _, _, start, _ := m.nodeMap["checks/lint"].GetDisplayInfo()
	assert.Equal(t, StatusRunning, status)
	assert.NotNil(t, start)
}

func TestProcessProgressEvent_StatusTransitions(t *testing.T) {
	m := newTestModel()
	path := []string{"lint"}

	m.processProgressEvent(progress.Event{CommandPath: path, Type: progress.EventStarted})
	m.processProgressEvent(progress.Event{
		CommandPath: path,
		Type:        progress.EventOutput,
		Data:        progress.EventData{OutputLine: "checking files..."},
	})

	status, _, output, _, _, _ := m.nodeMap["lint"].GetDisplayInfo()
	assert.Equal(t, StatusRunning, status)
	assert.Equal(t, "checking files...", output)

	m.processProgressEvent(progress.Event{
		CommandPath: path,
		Type:        progress.EventFailed,
		Data:        progress.EventData{ExitCode: 1, Error: errors.New("lint failed")},
	})

	status, _, _, errMsg, _, end := m.nodeMap["lint"].GetDisplayInfo()
	assert.Equal(t, StatusFailed, status)
	assert.Equal(t, "lint failed", errMsg)
	assert.NotNil(t, end)
}

func TestProcessProgressEvent_Skipped(t *testing.T) {
	m := newTestModel()

	m.processProgressEvent(progress.Event{CommandPath: []string{"format"}, Type: progress.EventSkipped})

	status, _, _, _, _, _ := m.nodeMap["format"].GetDisplayInfo()
	assert.Equal(t, StatusSkipped, status)
}

func TestViewShowsCommandsAndStatusBar(t *testing.T) {
	m := newTestModel()

	m.processProgressEvent(progress.Event{CommandPath: []string{"lint"}, Type: progress.EventStarted})
	m.processProgressEvent(progress.Event{CommandPath: []string{"typecheck"}, Type: progress.EventCompleted})

	view := m.View()
	assert.Contains(t, view, "lint")
	assert.Contains(t, view, "typecheck")
	assert.Contains(t, view, "running: 1")
	assert.Contains(t, view, "success: 1")
}

func TestViewShowsCompletionState(t *testing.T) {
	m := newTestModel()

	_, _ = m.Update(CommandCompletedMsg{Results: runbatch.Results{
		{Label: "lint", Status: runbatch.ResultStatusError, ExitCode: 1},
	}})

	view := m.View()
	assert.Contains(t, view, "completed with errors")
}

func TestQuitKey(t *testing.T) {
	m := newTestModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestScrollClamping(t *testing.T) {
	m := newTestModel()
	m.totalLines = 100
	m.height = 20

	m.scrollOffset = 500
	m.clampScroll()
	assert.Equal(t, m.maxScrollOffset(), m.scrollOffset)

	m.scrollOffset = -5
	m.clampScroll()
	assert.Equal(t, 0, m.scrollOffset)
}
