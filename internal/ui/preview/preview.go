// Package preview provides a read-only main-area widget rendering markdown
// documents as styled terminal output.
package preview

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/atelier-dev/atelier/internal/services"
	"github.com/atelier-dev/atelier/internal/shell"
)

// docStyle strips glamour's document margins so the rendered output fills
// the widget surface.
const docStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Model is the markdown preview widget for one document. The source is
// captured at creation; a new preview reflects later edits.
type Model struct {
	path     string
	source   string
	viewport viewport.Model
}

// New creates a preview widget over the document's current content.
func New(doc *services.Document) Model {
	return Model{
		path:     doc.Path(),
		source:   doc.Content(),
		viewport: viewport.New(0, 0),
	}
}

// ID implements shell.Widget.
func (m Model) ID() string { return "preview:" + m.path }

// Title implements shell.Widget.
func (m Model) Title() string { return filepath.Base(m.path) + " (preview)" }

// Path returns the workspace path of the previewed document.
func (m Model) Path() string { return m.path }

// SetSize implements shell.Widget. The markdown is re-rendered at the new
// wrap width.
func (m Model) SetSize(width, height int) shell.Widget {
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(render(m.source, width))
	return m
}

// Update implements shell.Widget. The preview only scrolls.
func (m Model) Update(msg tea.Msg) (shell.Widget, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements shell.Widget.
func (m Model) View() string {
	return m.viewport.View()
}

// render styles the markdown source at the given wrap width. Render errors
// fall back to the raw source so the widget always shows something.
func render(source string, width int) string {
	if width <= 0 {
		return source
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithStylesFromJSONBytes([]byte(docStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return source
	}
	out, err := r.Render(source)
	if err != nil {
		return source
	}
	return out
}
