package statusbar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atelier-dev/atelier/internal/shell"
)

func TestStatusBar_ImplementsWidget(t *testing.T) {
	var _ shell.Widget = New()
}

func TestStatusBar_Identity(t *testing.T) {
	m := New()
	require.Equal(t, "statusbar", m.ID())
	require.Equal(t, "Status", m.Title())
}

func TestStatusBar_ConnectionIndicator(t *testing.T) {
	w, _ := New().SetSize(80, 1).Update(ConnectionMsg{Up: true})
	require.Contains(t, w.View(), "●")

	w, _ = w.Update(ConnectionMsg{Up: false})
	require.Contains(t, w.View(), "○")
	require.NotContains(t, w.View(), "●")
}

func TestStatusBar_ActiveWidgetTitle(t *testing.T) {
	w, _ := New().SetSize(80, 1).Update(ActiveWidgetMsg{Title: "notes.md", Dirty: true})

	view := w.View()
	require.Contains(t, view, "notes.md")
	require.Contains(t, view, "●") // dirty marker

	w, _ = w.Update(ActiveWidgetMsg{Title: "notes.md", Dirty: false})
	require.NotContains(t, w.View(), "notes.md ●")
}

func TestStatusBar_InfoMessageReplaced(t *testing.T) {
	w, _ := New().SetSize(80, 1).Update(InfoMsg{Text: "saved"})
	require.Contains(t, w.View(), "saved")

	w, _ = w.Update(InfoMsg{Text: "deleted"})
	view := w.View()
	require.Contains(t, view, "deleted")
	require.NotContains(t, view, "saved")
}

func TestStatusBar_TruncatesToWidth(t *testing.T) {
	w, _ := New().SetSize(20, 1).Update(ActiveWidgetMsg{
		Title: "a-very-long-document-name-that-never-ends.md",
	})

	view := w.View()
	require.Contains(t, view, "...")
	require.NotContains(t, view, "never-ends.md")
}
