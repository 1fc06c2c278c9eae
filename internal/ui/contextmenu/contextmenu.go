// Package contextmenu provides the right-click menu component. Entries
// are the commands bound to the node chain under the click, innermost
// target first.
package contextmenu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atelier-dev/atelier/internal/ui/overlay"
	"github.com/atelier-dev/atelier/internal/ui/styles"
)

// Entry is a single menu line backed by a registered command.
type Entry struct {
	CommandID string
	Label     string
	Disabled  bool
}

// SelectMsg is sent when an entry is chosen.
type SelectMsg struct {
	Entry Entry
}

// CancelMsg is sent when the menu is dismissed.
type CancelMsg struct{}

// Model holds the context menu state.
type Model struct {
	entries        []Entry
	cursor         int
	anchorX        int
	anchorY        int
	viewportWidth  int
	viewportHeight int
}

// New creates a context menu anchored at the given cell coordinates.
func New(entries []Entry, x, y int) Model {
	return Model{
		entries: entries,
		anchorX: x,
		anchorY: y,
	}
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Entries returns the menu entries.
func (m Model) Entries() []Entry {
	return m.entries
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (Entry, bool) {
	if m.cursor >= 0 && m.cursor < len(m.entries) {
		return m.entries[m.cursor], true
	}
	return Entry{}, false
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down", "ctrl+n":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "k", "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			entry, ok := m.Selected()
			if !ok || entry.Disabled {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectMsg{Entry: entry}
			}
		case "esc":
			return m, func() tea.Msg {
				return CancelMsg{}
			}
		}

	case tea.MouseMsg:
		// Any press outside the menu dismisses it. Hit testing inside the
		// box is left to the keyboard; clicks just cancel.
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, func() tea.Msg {
				return CancelMsg{}
			}
		}
	}
	return m, nil
}

// View renders the menu box (without positioning).
func (m Model) View() string {
	width := 24
	for _, e := range m.entries {
		if w := lipgloss.Width(e.Label) + 2; w > width {
			width = w
		}
	}
	if width > 48 {
		width = 48
	}

	var options strings.Builder
	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true)
		options.WriteString(" " + emptyStyle.Render("No commands here"))
	}
	for i, e := range m.entries {
		var line string
		label := styles.TruncateString(e.Label, width-1)
		switch {
		case e.Disabled:
			mutedStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
			line = " " + mutedStyle.Render(label)
		case i == m.cursor:
			labelStyle := lipgloss.NewStyle().Bold(true)
			line = styles.SelectionIndicatorStyle.Render(">") + labelStyle.Render(label)
		default:
			line = " " + label
		}
		options.WriteString(line)
		if i < len(m.entries)-1 {
			options.WriteString("\n")
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width)

	return boxStyle.Render(options.String())
}

// Overlay renders the menu over the background at the click position.
func (m Model) Overlay(background string) string {
	menuBox := m.View()

	if background == "" {
		return lipgloss.Place(
			m.viewportWidth, m.viewportHeight,
			lipgloss.Center, lipgloss.Center,
			menuBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.viewportWidth,
		Height:   m.viewportHeight,
		Position: overlay.At,
		X:        m.anchorX,
		Y:        m.anchorY,
	}, menuBox, background)
}
