// Package editor provides the default main-area widget: a plain text
// editor over a workspace document.
package editor

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atelier-dev/atelier/internal/services"
	"github.com/atelier-dev/atelier/internal/shell"
)

// SaveRequestMsg asks the application to persist the widget's content.
type SaveRequestMsg struct {
	Path    string
	Content string
}

// SavedMsg confirms a save completed, clearing the dirty flag.
type SavedMsg struct {
	Path string
}

// Model is the text editor widget for one document.
type Model struct {
	path     string
	textarea textarea.Model
	dirty    bool
}

// New creates an editor widget seeded with the document's content.
func New(doc *services.Document) Model {
	ta := textarea.New()
	ta.SetValue(doc.Content())
	ta.Focus()

	return Model{
		path:     doc.Path(),
		textarea: ta,
	}
}

// ID implements shell.Widget.
func (m Model) ID() string { return "editor:" + m.path }

// Title implements shell.Widget.
func (m Model) Title() string { return filepath.Base(m.path) }

// Path returns the workspace path of the edited document.
func (m Model) Path() string { return m.path }

// Content returns the current editor text.
func (m Model) Content() string { return m.textarea.Value() }

// Dirty reports whether the text changed since the last save.
func (m Model) Dirty() bool { return m.dirty }

// SetSize implements shell.Widget.
func (m Model) SetSize(width, height int) shell.Widget {
	m.textarea.SetWidth(width)
	m.textarea.SetHeight(height)
	return m
}

// Update implements shell.Widget.
func (m Model) Update(msg tea.Msg) (shell.Widget, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlS {
			path, content := m.path, m.textarea.Value()
			return m, func() tea.Msg {
				return SaveRequestMsg{Path: path, Content: content}
			}
		}

	case SavedMsg:
		if msg.Path == m.path {
			m.dirty = false
		}
		return m, nil
	}

	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if m.textarea.Value() != before {
		m.dirty = true
	}
	return m, cmd
}

// View implements shell.Widget.
func (m Model) View() string {
	return m.textarea.View()
}
