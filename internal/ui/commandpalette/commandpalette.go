// Package commandpalette provides the searchable command picker modal.
// Items come from the command registry; selecting one reports its id so
// the caller can execute it.
package commandpalette

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atelier-dev/atelier/internal/commands"
	"github.com/atelier-dev/atelier/internal/keys"
	"github.com/atelier-dev/atelier/internal/ui/overlay"
	"github.com/atelier-dev/atelier/internal/ui/styles"
)

// Item represents a selectable entry in the command palette.
type Item struct {
	ID          string // Command id
	Name        string // Display name (shown bold on first line)
	Description string // Caption (shown muted on second line)
	Disabled    bool   // Disabled items render muted and cannot be selected
}

// FromRegistry builds palette items from the registered commands.
// Ids come back sorted so the palette order is stable.
func FromRegistry(reg *commands.Registry, args commands.Args) []Item {
	ids := reg.List()
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		name := reg.Label(id)
		if name == "" {
			name = id
		}
		items = append(items, Item{
			ID:          id,
			Name:        name,
			Description: reg.Caption(id),
			Disabled:    !reg.IsEnabled(id, args),
		})
	}
	return items
}

// Config defines command palette configuration.
type Config struct {
	Title           string // Modal title (empty = no title bar)
	Placeholder     string // Search input placeholder
	Items           []Item // Available items
	MaxWidth        int    // Maximum width (default 80)
	MaxVisibleItems int    // Max items visible before scrolling (default 5)
}

// SelectMsg is sent when an item is selected.
type SelectMsg struct {
	Item Item
}

// CancelMsg is sent when the palette is dismissed.
type CancelMsg struct{}

// Model holds the command palette state.
type Model struct {
	config         Config
	textInput      textinput.Model
	filtered       []Item
	cursor         int
	scrollOffset   int
	viewportWidth  int
	viewportHeight int
}

// New creates a new command palette with the given configuration.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = "Search commands..."
	}
	ti.Prompt = ""
	ti.Focus()

	return Model{
		config:    cfg,
		textInput: ti,
		filtered:  cfg.Items,
	}
}

// Init returns the initial command (starts cursor blink).
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyDown, key.Matches(msg, keys.Component.Next):
			// Arrow keys or ctrl+n only, letters go to the search input
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m = m.ensureCursorVisible()
			}
			return m, nil

		case msg.Type == tea.KeyUp, key.Matches(msg, keys.Component.Prev):
			if m.cursor > 0 {
				m.cursor--
				m = m.ensureCursorVisible()
			}
			return m, nil

		case key.Matches(msg, keys.Common.Enter):
			return m, m.selectCmd()

		case key.Matches(msg, keys.Common.Escape), msg.Type == tea.KeyCtrlC:
			return m, func() tea.Msg { return CancelMsg{} }

		case msg.Type == tea.KeyCtrlU:
			m.textInput.SetValue("")
			m = m.updateFilter()
			return m, nil

		default:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			m = m.updateFilter()
			return m, cmd
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonWheelUp && msg.Button != tea.MouseButtonWheelDown {
			return m, nil
		}
		maxVisible := m.maxVisibleItems()
		maxOffset := max(0, len(m.filtered)-maxVisible)
		if msg.Button == tea.MouseButtonWheelUp {
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}
		} else {
			if m.scrollOffset < maxOffset {
				m.scrollOffset++
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
	}

	return m, nil
}

// updateFilter filters items based on current search text.
// Name matches rank before description-only matches.
func (m Model) updateFilter() Model {
	query := strings.ToLower(m.textInput.Value())

	if query == "" {
		m.filtered = m.config.Items
	} else {
		var nameMatches []Item
		var descMatches []Item

		for _, item := range m.config.Items {
			nameLower := strings.ToLower(item.Name)
			descLower := strings.ToLower(item.Description)

			if strings.Contains(nameLower, query) {
				nameMatches = append(nameMatches, item)
			} else if strings.Contains(descLower, query) {
				descMatches = append(descMatches, item)
			}
		}

		m.filtered = append(nameMatches, descMatches...)
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = 0
		m.scrollOffset = 0
	}

	return m
}

// maxVisibleItems returns the configured item count, shrinking only when
// the viewport cannot fit it.
func (m Model) maxVisibleItems() int {
	target := m.config.MaxVisibleItems
	if target <= 0 {
		target = 5
	}

	if m.viewportHeight > 0 {
		// Border, title, search line and their dividers take 8 rows.
		// Each item slot is 3 rows.
		overhead := 8
		availableLines := m.viewportHeight - overhead
		maxFromViewport := max(availableLines/3, 2)
		if maxFromViewport < target {
			return maxFromViewport
		}
	}

	return target
}

// ensureCursorVisible adjusts scroll offset to keep the cursor in view.
func (m Model) ensureCursorVisible() Model {
	maxVisible := m.maxVisibleItems()

	if m.cursor >= m.scrollOffset+maxVisible {
		m.scrollOffset = m.cursor - maxVisible + 1
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}

	return m
}

// selectCmd reports the current item. Disabled items are not selectable.
func (m Model) selectCmd() tea.Cmd {
	if len(m.filtered) == 0 {
		return nil
	}

	selected := m.filtered[m.cursor]
	if selected.Disabled {
		return nil
	}
	return func() tea.Msg { return SelectMsg{Item: selected} }
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Selected returns the currently selected item.
func (m Model) Selected() (Item, bool) {
	if m.cursor >= 0 && m.cursor < len(m.filtered) {
		return m.filtered[m.cursor], true
	}
	return Item{}, false
}

// Cursor returns the current cursor position.
func (m Model) Cursor() int {
	return m.cursor
}

// FilteredItems returns the currently filtered items.
func (m Model) FilteredItems() []Item {
	return m.filtered
}

// SearchText returns the current search text.
func (m Model) SearchText() string {
	return m.textInput.Value()
}

// View renders the command palette box.
func (m Model) View() string {
	contentWidth := m.config.MaxWidth
	if contentWidth == 0 {
		contentWidth = 80
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)
	hintsStyle := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor)
	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", contentWidth))

	searchIcon := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(" > ")
	m.textInput.Width = contentWidth - 4
	searchLine := searchIcon + m.textInput.View()

	var content strings.Builder

	if m.config.Title != "" {
		title := titleStyle.Render(m.config.Title)
		hints := hintsStyle.Render("↑/↓ • Enter • Esc")
		padding := max(contentWidth-lipgloss.Width(title)-lipgloss.Width(hints)-1, 1)
		content.WriteString(title + strings.Repeat(" ", padding) + hints)
		content.WriteString("\n")
		content.WriteString(divider)
		content.WriteString("\n")
	}

	content.WriteString(searchLine)
	content.WriteString("\n")
	content.WriteString(divider)

	// Items render into fixed-height slots so the box never shifts.
	maxVisible := m.maxVisibleItems()
	emptyLine := strings.Repeat(" ", contentWidth)

	if len(m.filtered) == 0 {
		noResultsStyle := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true).
			Padding(1, 1)
		content.WriteString("\n")
		content.WriteString(noResultsStyle.Render("No matching commands"))
		for i := 1; i < maxVisible; i++ {
			content.WriteString("\n")
			content.WriteString(emptyLine)
			content.WriteString("\n")
			content.WriteString(emptyLine)
			content.WriteString("\n")
		}
	} else {
		endIdx := min(m.scrollOffset+maxVisible, len(m.filtered))
		hasMoreBelow := endIdx < len(m.filtered)

		renderedCount := 0
		for i := m.scrollOffset; i < endIdx; i++ {
			item := m.filtered[i]
			content.WriteString("\n")
			content.WriteString(m.renderItem(item, i == m.cursor, contentWidth))
			content.WriteString("\n")
			renderedCount++
		}

		for i := renderedCount; i < maxVisible; i++ {
			content.WriteString("\n")
			content.WriteString(emptyLine)
			content.WriteString("\n")
			content.WriteString(emptyLine)
			content.WriteString("\n")
		}

		if hasMoreBelow {
			moreStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
			moreText := moreStyle.Render("↓ more")
			padding := (contentWidth - lipgloss.Width(moreText)) / 2
			content.WriteString(strings.Repeat(" ", padding) + moreText)
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(contentWidth)

	return boxStyle.Render(content.String())
}

// renderItem renders a single item with name and description.
func (m Model) renderItem(item Item, selected bool, width int) string {
	var result strings.Builder

	nameStyle := lipgloss.NewStyle()
	if item.Disabled {
		nameStyle = nameStyle.Foreground(styles.TextMutedColor)
	}
	if selected {
		nameStyle = nameStyle.Bold(true)
	}

	var indicator string
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">")
	} else {
		indicator = " "
	}

	name := styles.TruncateString(item.Name, width-2)
	result.WriteString(indicator + nameStyle.Render(name))

	if item.Description != "" {
		descStyle := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Width(width - 4)

		result.WriteString("\n  ")
		result.WriteString(descStyle.Render(item.Description))
	}

	return result.String()
}

// Overlay renders the command palette on top of a background view.
func (m Model) Overlay(background string) string {
	paletteBox := m.View()

	if background == "" {
		return lipgloss.Place(
			m.viewportWidth, m.viewportHeight,
			lipgloss.Center, lipgloss.Center,
			paletteBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.viewportWidth,
		Height:   m.viewportHeight,
		Position: overlay.Center,
	}, paletteBox, background)
}
