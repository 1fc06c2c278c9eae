package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/atelier-dev/atelier/internal/services/domain"
	"github.com/atelier-dev/atelier/internal/shell"
)

func newTestEditor(t *testing.T) Model {
	t.Helper()
	doc := domain.NewDocument("notes/today.md", "hello")
	return New(doc)
}

func TestEditor_ImplementsWidget(t *testing.T) {
	var _ shell.Widget = newTestEditor(t)
}

func TestEditor_Identity(t *testing.T) {
	m := newTestEditor(t)

	require.Equal(t, "editor:notes/today.md", m.ID())
	require.Equal(t, "today.md", m.Title())
	require.Equal(t, "notes/today.md", m.Path())
}

func TestEditor_SeededWithContent(t *testing.T) {
	m := newTestEditor(t)

	require.Equal(t, "hello", m.Content())
	require.False(t, m.Dirty())
}

func TestEditor_TypingMarksDirty(t *testing.T) {
	w, _ := newTestEditor(t).SetSize(80, 20).
		Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	m := w.(Model)
	require.True(t, m.Dirty())
	require.Contains(t, m.Content(), "x")
}

func TestEditor_CtrlSEmitsSaveRequest(t *testing.T) {
	m := newTestEditor(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, SaveRequestMsg{}, msg)
	saveMsg := msg.(SaveRequestMsg)
	require.Equal(t, "notes/today.md", saveMsg.Path)
	require.Equal(t, "hello", saveMsg.Content)
}

func TestEditor_SavedMsgClearsDirty(t *testing.T) {
	w, _ := newTestEditor(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.True(t, w.(Model).Dirty())

	w, _ = w.Update(SavedMsg{Path: "notes/today.md"})
	require.False(t, w.(Model).Dirty())
}

func TestEditor_SavedMsgForOtherPathIgnored(t *testing.T) {
	w, _ := newTestEditor(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	w, _ = w.Update(SavedMsg{Path: "other.md"})
	require.True(t, w.(Model).Dirty())
}

func TestEditor_ViewShowsContent(t *testing.T) {
	m := newTestEditor(t).SetSize(40, 5)

	require.Contains(t, m.(Model).View(), "hello")
}
