// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/hew/internal/progress"
	"github.com/matt-FFFFFF/hew/internal/runbatch"
)

// CommandStatus represents the current state of a command in the TUI.
type CommandStatus int

const (
	StatusPending CommandStatus = iota
	StatusRunning
	StatusSuccess
	StatusFailed
	StatusSkipped
)

// String returns a string representation of the command status.
func (s CommandStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// CommandNode represents a command in the execution tree.
type CommandNode struct {
	Path       []string       // Hierarchical path to this command
	Name       string         // Display name of the command
	Status     CommandStatus  // Current execution status
	StartTime  *time.Time     // When execution started
	EndTime    *time.Time     // When execution completed
	LastOutput string         // Last line of output from this command
	ErrorMsg   string         // Error message if failed
	Children   []*CommandNode // Child commands for hierarchical display
	mutex      sync.RWMutex   // Protects concurrent access to fields
}

// NewCommandNode creates a new command node.
func NewCommandNode(path []string, name string) *CommandNode {
	pathCopy := make([]string, len(path))
	copy(pathCopy, path)

	return &CommandNode{
		Path:     pathCopy,
		Name:     name,
		Status:   StatusPending,
		Children: make([]*CommandNode, 0),
	}
}

// UpdateStatus safely updates the command status.
func (cn *CommandNode) UpdateStatus(status CommandStatus) {
	cn.mutex.Lock()
	defer cn.mutex.Unlock()

	cn.Status = status
	now := time.Now()

	switch status { //nolint:exhaustive // pending and skipped carry no timestamps
	case StatusRunning:
		if cn.StartTime == nil {
			cn.StartTime = &now
		}
	case StatusSuccess, StatusFailed:
		if cn.EndTime == nil {
			cn.EndTime = &now
		}
	}
}

// UpdateOutput safely updates the last output line.
func (cn *CommandNode) UpdateOutput(output string) {
	cn.mutex.Lock()
	defer cn.mutex.Unlock()

	if output == "" {
		return
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	cn.LastOutput = strings.TrimSpace(lines[len(lines)-1])
}

// UpdateError safely updates the error message.
func (cn *CommandNode) UpdateError(err string) {
	cn.mutex.Lock()
	defer cn.mutex.Unlock()

	cn.ErrorMsg = err
}

// GetDisplayInfo safely retrieves display information.
func (cn *CommandNode) GetDisplayInfo() (CommandStatus, string, string, string, *time.Time, *time.Time) {
	cn.mutex.RLock()
	defer cn.mutex.RUnlock()

	return cn.Status, cn.Name, cn.LastOutput, cn.ErrorMsg, cn.StartTime, cn.EndTime
}

// Model is the TUI application state.
type Model struct {
	ctx       context.Context //nolint:containedctx // carried for the lifetime of the program
	spinner   spinner.Model
	rootNode  *CommandNode
	nodeMap   map[string]*CommandNode // Maps path strings to nodes for quick lookup
	width     int
	height    int
	quitting  bool
	completed bool
	results   runbatch.Results
	mutex     sync.RWMutex

	// Scrolling support
	scrollOffset int
	totalLines   int

	styles *Styles
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title      lipgloss.Style
	Pending    lipgloss.Style
	Running    lipgloss.Style
	Success    lipgloss.Style
	Failed     lipgloss.Style
	Skipped    lipgloss.Style
	Output     lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
	TreeBranch lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Skipped: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true),
		Output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
		TreeBranch: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
	}
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context) *Model {
	styles := NewStyles()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.Running),
	)

	return &Model{
		ctx:      ctx,
		spinner:  sp,
		rootNode: NewCommandNode([]string{}, "Root"),
		nodeMap:  make(map[string]*CommandNode),
		styles:   styles,
	}
}

// getViewportHeight returns the available height for content display.
func (m *Model) getViewportHeight() int {
	// Title, completion message, status bar and help line.
	const reservedLines = 7

	if m.height <= reservedLines {
		return 1
	}

	return m.height - reservedLines
}

// maxScrollOffset returns the maximum scroll offset for the current content.
func (m *Model) maxScrollOffset() int {
	viewportHeight := m.getViewportHeight()
	if m.totalLines <= viewportHeight {
		return 0
	}

	return m.totalLines - viewportHeight
}

// clampScroll keeps the scroll position within the content bounds.
func (m *Model) clampScroll() {
	if max := m.maxScrollOffset(); m.scrollOffset > max {
		m.scrollOffset = max
	}

	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// pathToString converts a command path to a string key.
func pathToString(path []string) string {
	return strings.Join(path, "/")
}

// getOrCreateNode safely gets or creates a command node and ensures the full
// hierarchy exists.
func (m *Model) getOrCreateNode(path []string, name string) *CommandNode {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	pathKey := pathToString(path)
	if node, exists := m.nodeMap[pathKey]; exists {
		return node
	}

	m.ensureParentNodes(path)

	node := NewCommandNode(path, name)
	m.nodeMap[pathKey] = node
	m.attachToParent(node, path)

	return node
}

// attachToParent appends a node to its parent's children, or to the root for
// top-level paths. Callers must hold m.mutex.
func (m *Model) attachToParent(node *CommandNode, path []string) {
	if len(path) > 1 {
		parentKey := pathToString(path[:len(path)-1])
		if parent, exists := m.nodeMap[parentKey]; exists {
			parent.Children = append(parent.Children, node)
		}

		return
	}

	if len(path) == 1 {
		m.rootNode.Children = append(m.rootNode.Children, node)
	}
}

// ensureParentNodes creates all missing ancestors of path. Callers must hold
// m.mutex.
func (m *Model) ensureParentNodes(path []string) {
	for i := 1; i < len(path); i++ {
		parentPath := path[:i]
		parentKey := pathToString(parentPath)

		if _, exists := m.nodeMap[parentKey]; exists {
			continue
		}

		parentNode := NewCommandNode(parentPath, parentPath[len(parentPath)-1])
		m.nodeMap[parentKey] = parentNode
		m.attachToParent(parentNode, parentPath)
	}
}

// processProgressEvent handles incoming progress events.
func (m *Model) processProgressEvent(event progress.Event) {
	commandName := "Unknown"
	if len(event.CommandPath) > 0 {
		commandName = event.CommandPath[len(event.CommandPath)-1]
	}

	node := m.getOrCreateNode(event.CommandPath, commandName)

	switch event.Type {
	case progress.EventStarted:
		node.UpdateStatus(StatusRunning)
	case progress.EventCompleted:
		node.UpdateStatus(StatusSuccess)
	case progress.EventFailed:
		node.UpdateStatus(StatusFailed)

		if event.Data.Error != nil {
			node.UpdateError(event.Data.Error.Error())
		}
	case progress.EventOutput:
		node.UpdateOutput(event.Data.OutputLine)
	case progress.EventSkipped:
		node.UpdateStatus(StatusSkipped)
	}
}
