// Package statusbar provides the status-area widget shown on the bottom
// row of the dock.
package statusbar

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atelier-dev/atelier/internal/shell"
	"github.com/atelier-dev/atelier/internal/ui/styles"
)

// ConnectionMsg reports whether the workspace services are reachable.
type ConnectionMsg struct {
	Up bool
}

// ActiveWidgetMsg carries the title of the current main-area widget.
type ActiveWidgetMsg struct {
	Title string
	Dirty bool
}

// InfoMsg shows a transient message, replacing the previous one.
type InfoMsg struct {
	Text string
}

// Model is the status bar widget.
type Model struct {
	width       int
	connected   bool
	activeTitle string
	activeDirty bool
	info        string
}

// New creates a status bar. The connection starts down until the first
// ConnectionMsg arrives.
func New() Model {
	return Model{}
}

// ID implements shell.Widget.
func (m Model) ID() string { return "statusbar" }

// Title implements shell.Widget.
func (m Model) Title() string { return "Status" }

// SetSize implements shell.Widget. The dock gives the status area a
// single row, so only the width matters.
func (m Model) SetSize(width, _ int) shell.Widget {
	m.width = width
	return m
}

// Update implements shell.Widget.
func (m Model) Update(msg tea.Msg) (shell.Widget, tea.Cmd) {
	switch msg := msg.(type) {
	case ConnectionMsg:
		m.connected = msg.Up
	case ActiveWidgetMsg:
		m.activeTitle = msg.Title
		m.activeDirty = msg.Dirty
	case InfoMsg:
		m.info = msg.Text
	}
	return m, nil
}

// View renders the single status row.
func (m Model) View() string {
	indicator := lipgloss.NewStyle().Foreground(styles.ConnectionDownColor).Render("○")
	if m.connected {
		indicator = lipgloss.NewStyle().Foreground(styles.ConnectionUpColor).Render("●")
	}

	// Truncate the plain text before styling so escape sequences never
	// get cut mid-way.
	var text string
	if m.activeTitle != "" {
		text = m.activeTitle
		if m.activeDirty {
			text = fmt.Sprintf("%s %s", text, styles.DirtyMarker(true))
		}
	}
	if m.info != "" {
		text += "  " + m.info
	}
	text = styles.TruncateString(text, max(m.width-4, 0))

	return styles.StatusBarStyle.Width(m.width).Render(indicator + " " + text)
}
