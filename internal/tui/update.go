// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/hew/internal/progress"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

const (
	commandDurationRounding = 100 * time.Millisecond
	minContentWidth         = 40
	ellipsis                = "..."
	pageScrollLines         = 10
)

// ProgressEventMsg wraps a progress event for the tea framework.
type ProgressEventMsg struct {
	Event progress.Event
}

// CommandCompletedMsg indicates that all commands have finished executing.
type CommandCompletedMsg struct {
	Results runbatch.Results
}

// Init implements bubbletea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.EnterAltScreen,
	)
}

// Update implements bubbletea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.mutex.Lock()
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		m.mutex.Unlock()

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case ProgressEventMsg:
		m.processProgressEvent(msg.Event)
		return m, nil

	case CommandCompletedMsg:
		m.mutex.Lock()
		m.completed = true
		m.results = msg.Results
		m.mutex.Unlock()

		return m, nil

	case tea.QuitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleKeyPress processes keyboard input.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.scrollOffset--
	case "down", "j":
		m.scrollOffset++
	case "pgup":
		m.scrollOffset -= pageScrollLines
	case "pgdown":
		m.scrollOffset += pageScrollLines
	case "home", "g":
		m.scrollOffset = 0
	case "end", "G":
		m.scrollOffset = m.maxScrollOffset()
	}

	m.clampScroll()

	return m, nil
}

// View implements bubbletea.Model.
func (m *Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var content strings.Builder

	m.renderCommandTree(&content, m.rootNode, "", true)

	if m.completed {
		content.WriteString("\n")

		if m.results != nil && m.results.HasError() {
			content.WriteString(m.styles.Failed.Render("Execution completed with errors"))
		} else {
			content.WriteString(m.styles.Success.Render("Execution completed successfully"))
		}

		content.WriteString("\n")
	}

	lines := strings.Split(content.String(), "\n")
	m.totalLines = len(lines)

	var view strings.Builder

	view.WriteString(m.styles.Title.Render("hew"))
	view.WriteString("\n")
	view.WriteString(m.visibleWindow(lines))
	view.WriteString("\n")
	view.WriteString(m.renderStatusBar())
	view.WriteString("\n")

	helpText := "up/down or j/k to scroll, pgup/pgdn for pages, g/G to jump, 'q' to quit"
	if m.completed {
		helpText = "up/down or j/k to scroll, 'q' to quit and return to terminal"
	}

	view.WriteString(m.styles.Help.Render(helpText))

	return view.String()
}

// visibleWindow returns the slice of lines in the current scroll window.
func (m *Model) visibleWindow(lines []string) string {
	viewportHeight := m.getViewportHeight()

	start := m.scrollOffset
	if start > len(lines) {
		start = len(lines)
	}

	end := start + viewportHeight
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

// renderStatusBar summarises the command counts per status.
func (m *Model) renderStatusBar() string {
	var pending, running, success, failed, skipped int

	for _, node := range m.nodeMap {
		status, _, _, _, _, _ := node.GetDisplayInfo()

		switch status {
		case StatusPending:
			pending++
		case StatusRunning:
			running++
		case StatusSuccess:
			success++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}

	return m.styles.Help.Render(fmt.Sprintf(
		"running: %d  success: %d  failed: %d  skipped: %d  pending: %d",
		running, success, failed, skipped, pending,
	))
}

// renderCommandTree recursively renders the command tree.
func (m *Model) renderCommandTree(b *strings.Builder, node *CommandNode, prefix string, isLast bool) {
	if node == nil {
		return
	}

	// The root node itself is not rendered.
	if len(node.Path) == 0 {
		for i, child := range node.Children {
			m.renderCommandTree(b, child, "", i == len(node.Children)-1)
		}

		return
	}

	m.renderCommandNode(b, node, prefix, isLast)

	if len(node.Children) > 0 {
		childPrefix := prefix
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}

		for i, child := range node.Children {
			m.renderCommandTree(b, child, childPrefix, i == len(node.Children)-1)
		}
	}
}

// renderCommandNode renders a single command node with inline output display.
func (m *Model) renderCommandNode(b *strings.Builder, node *CommandNode, prefix string, isLast bool) {
	status, name, output, errorMsg, startTime, endTime := node.GetDisplayInfo()

	connector := "├── "
	if isLast {
		connector = "└── "
	}

	var statusIcon, styledName string

	switch status {
	case StatusRunning:
		statusIcon = m.spinner.View()
		styledName = m.styles.Running.Render(name)
	case StatusSuccess:
		statusIcon = m.styles.Success.Render("✓")
		styledName = m.styles.Success.Render(name)
	case StatusFailed:
		statusIcon = m.styles.Failed.Render("✗")
		styledName = m.styles.Failed.Render(name)
	case StatusSkipped:
		statusIcon = m.styles.Skipped.Render("~")
		styledName = m.styles.Skipped.Render(name)
	case StatusPending:
		statusIcon = m.styles.Pending.Render("·")
		styledName = m.styles.Pending.Render(name)
	default:
		statusIcon = m.styles.Pending.Render("?")
		styledName = m.styles.Pending.Render(name)
	}

	left := fmt.Sprintf("%s %s", statusIcon, styledName)

	if startTime != nil {
		elapsed := time.Since(*startTime)
		if endTime != nil {
			elapsed = endTime.Sub(*startTime)
		}

		left += m.styles.Output.Render(fmt.Sprintf(" (%v)", elapsed.Round(commandDurationRounding)))
	}

	var right string

	switch {
	case errorMsg != "" && status == StatusFailed:
		right = m.styles.Error.Render("Error: " + m.truncate(errorMsg))
	case output != "" && status == StatusRunning:
		right = m.styles.Output.Render(m.truncate(output))
	}

	b.WriteString(m.styles.TreeBranch.Render(prefix + connector))
	b.WriteString(left)

	if right != "" {
		b.WriteString("  ")
		b.WriteString(right)
	}

	b.WriteString("\n")
}

// truncate bounds the output column to half the available width.
func (m *Model) truncate(s string) string {
	width := m.width / 2
	if width < minContentWidth {
		width = minContentWidth
	}

	if len(s) <= width {
		return s
	}

	return s[:width-len(ellipsis)] + ellipsis
}
