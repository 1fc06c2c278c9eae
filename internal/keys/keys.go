// Package keys contains keybinding definitions.
package keys

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Widget cycling
	NextWidget key.Binding
	PrevWidget key.Binding

	// Actions
	Palette     key.Binding
	Save        key.Binding
	NewDocument key.Binding

	// General
	Logs   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Widget cycling
		NextWidget: key.NewBinding(
			key.WithKeys("ctrl+j", "ctrl+n"),
			key.WithHelp("ctrl+j/n", "next widget"),
		),
		PrevWidget: key.NewBinding(
			key.WithKeys("ctrl+k", "ctrl+p"),
			key.WithHelp("ctrl+k/p", "previous widget"),
		),

		// Actions
		Palette: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("^space", "command palette"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save document"),
		),
		NewDocument: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "new document"),
		),

		// General
		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "toggle logs"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "go back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Palette, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextWidget, k.PrevWidget},       // Widgets
		{k.Palette, k.Save, k.NewDocument}, // Actions
		{k.Logs, k.Escape, k.Quit},         // General
	}
}

// translateToTerminal maps user-facing key names to the sequences the
// terminal actually delivers. Ctrl+Space arrives as ctrl+@.
func translateToTerminal(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	switch k {
	case "ctrl+space", "ctrl+ ":
		return "ctrl+@"
	}
	return k
}

// translateToDisplay maps terminal sequences back to readable help text.
func translateToDisplay(k string) string {
	if k == "ctrl+@" {
		return "ctrl+space"
	}
	return k
}

// ApplyConfig overrides the palette and logs bindings from configuration.
// Empty strings keep the defaults.
func ApplyConfig(km *KeyMap, palette, logs string) {
	if palette != "" {
		k := translateToTerminal(palette)
		km.Palette = key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(translateToDisplay(k), "command palette"),
		)
	}
	if logs != "" {
		k := translateToTerminal(logs)
		km.Logs = key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(translateToDisplay(k), "toggle logs"),
		)
	}
}

// Common holds the bindings shared by every interactive component.
var Common = struct {
	Enter  key.Binding
	Escape key.Binding
}{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss"),
	),
}

// Component holds the bindings for moving focus inside list components.
var Component = struct {
	Next  key.Binding
	Prev  key.Binding
	Close key.Binding
}{
	Next: key.NewBinding(
		key.WithKeys("ctrl+n", "down"),
		key.WithHelp("ctrl+n/↓", "next item"),
	),
	Prev: key.NewBinding(
		key.WithKeys("ctrl+p", "up"),
		key.WithHelp("ctrl+p/↑", "previous item"),
	),
	Close: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "close"),
	),
}
