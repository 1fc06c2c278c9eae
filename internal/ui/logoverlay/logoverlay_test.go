package logoverlay

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/atelier-dev/atelier/internal/log"
)

func newVisibleOverlay() Model {
	m := New()
	m.SetSize(80, 40)
	m.Show()
	return m
}

func TestLogOverlay_HiddenByDefault(t *testing.T) {
	m := New()

	require.False(t, m.Visible())
	require.Equal(t, "", m.View())
}

func TestLogOverlay_Toggle(t *testing.T) {
	m := New()
	m.SetSize(80, 40)

	m.Toggle()
	require.True(t, m.Visible())

	m.Toggle()
	require.False(t, m.Visible())
}

func TestLogOverlay_AppendShowsEntries(t *testing.T) {
	m := newVisibleOverlay()
	m.Append("[INFO] document saved")

	require.Contains(t, m.View(), "document saved")
}

func TestLogOverlay_AppendDropsOldestAtCapacity(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+10; i++ {
		m.Append(fmt.Sprintf("[DEBUG] entry %d", i))
	}

	require.Len(t, m.entries, maxEntries)
	require.Equal(t, "[DEBUG] entry 10", m.entries[0])
}

func TestLogOverlay_FilterByLevel(t *testing.T) {
	m := newVisibleOverlay()
	m.Append("[DEBUG] noisy detail")
	m.Append("[WARN] something odd")

	// Filter to WARN and above.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})

	view := m.View()
	require.Contains(t, view, "something odd")
	require.NotContains(t, view, "noisy detail")
}

func TestLogOverlay_UnknownLevelAlwaysShown(t *testing.T) {
	m := newVisibleOverlay()
	m.Append("plain line without a level")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})

	require.Contains(t, m.View(), "plain line without a level")
}

func TestLogOverlay_ClearEmptiesBuffer(t *testing.T) {
	m := newVisibleOverlay()
	m.Append("[INFO] will be cleared")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})

	view := m.View()
	require.NotContains(t, view, "will be cleared")
	require.Contains(t, view, "No logs to display")
}

func TestLogOverlay_CloseKeys(t *testing.T) {
	m := newVisibleOverlay()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.False(t, m.Visible())
	require.NotNil(t, cmd)
	require.IsType(t, CloseMsg{}, cmd())

	m.Show()
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Visible())
	require.NotNil(t, cmd)
}

func TestLogOverlay_IgnoresKeysWhenHidden(t *testing.T) {
	m := New()
	m.SetSize(80, 40)
	m.Append("[INFO] kept")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})

	require.Nil(t, cmd)
	require.Len(t, m.entries, 1)
}

func TestLogOverlay_MinLevelHighlightedInFooter(t *testing.T) {
	m := newVisibleOverlay()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})

	require.Equal(t, log.LevelInfo, m.minLevel)
	require.Contains(t, m.View(), "[i] Info")
}

func TestLogOverlay_OverlayLeavesBackgroundWhenHidden(t *testing.T) {
	m := New()
	bg := strings.Repeat(".", 10)

	require.Equal(t, bg, m.Overlay(bg))
}
