package contextmenu

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{CommandID: "docs:save", Label: "Save Document"},
		{CommandID: "docs:close", Label: "Close Document"},
		{CommandID: "docs:delete", Label: "Delete Document", Disabled: true},
	}
}

func TestContextMenu_New(t *testing.T) {
	m := New(testEntries(), 10, 5)

	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 10, m.anchorX)
	assert.Equal(t, 5, m.anchorY)
	assert.Len(t, m.Entries(), 3)
}

func TestContextMenu_SetSize(t *testing.T) {
	m := New(testEntries(), 0, 0)

	m = m.SetSize(120, 40)
	assert.Equal(t, 120, m.viewportWidth)
	assert.Equal(t, 40, m.viewportHeight)

	// Verify immutability
	m2 := m.SetSize(80, 24)
	assert.Equal(t, 80, m2.viewportWidth)
	assert.Equal(t, 120, m.viewportWidth)
}

func TestContextMenu_Update_NavigateDown(t *testing.T) {
	m := New(testEntries(), 0, 0)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, m.cursor)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)

	// Bottom boundary
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, 2, m.cursor)
}

func TestContextMenu_Update_NavigateUp(t *testing.T) {
	m := New(testEntries(), 0, 0)
	m.cursor = 2

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, m.cursor)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	// Top boundary
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, 0, m.cursor)
}

func TestContextMenu_Select(t *testing.T) {
	m := New(testEntries(), 0, 0)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, SelectMsg{}, msg)
	assert.Equal(t, "docs:close", msg.(SelectMsg).Entry.CommandID)
}

func TestContextMenu_Select_DisabledEntry(t *testing.T) {
	m := New(testEntries(), 0, 0)
	m.cursor = 2

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestContextMenu_Select_Empty(t *testing.T) {
	m := New(nil, 0, 0)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestContextMenu_Cancel_Escape(t *testing.T) {
	m := New(testEntries(), 0, 0)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.IsType(t, CancelMsg{}, cmd())
}

func TestContextMenu_Cancel_ClickOutside(t *testing.T) {
	m := New(testEntries(), 0, 0)

	_, cmd := m.Update(tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	require.NotNil(t, cmd)
	require.IsType(t, CancelMsg{}, cmd())
}

func TestContextMenu_View_ContainsEntries(t *testing.T) {
	m := New(testEntries(), 0, 0)

	view := m.View()

	assert.Contains(t, view, "Save Document")
	assert.Contains(t, view, "Close Document")
	assert.Contains(t, view, "Delete Document")
	assert.Contains(t, view, ">")
}

func TestContextMenu_View_Empty(t *testing.T) {
	m := New(nil, 0, 0)

	assert.Contains(t, m.View(), "No commands here")
}

func TestContextMenu_Overlay_AnchoredAtClick(t *testing.T) {
	m := New([]Entry{{CommandID: "x", Label: "X"}}, 4, 3).SetSize(40, 20)

	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 40)+"\n", 20), "\n")
	out := m.Overlay(bg)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 20)
	// Rows above the anchor stay background.
	assert.Equal(t, strings.Repeat(".", 40), lines[2])
	assert.NotEqual(t, strings.Repeat(".", 40), lines[3])
}
