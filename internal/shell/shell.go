// Package shell provides the visual layout container for the application:
// dock areas, widget activation and iteration, and the node tree used to
// resolve context-menu targets.
package shell

import (
	"iter"

	tea "github.com/charmbracelet/bubbletea"
)

// Area identifies a dock region widgets can be added to.
type Area string

const (
	AreaMain   Area = "main"
	AreaLeft   Area = "left"
	AreaRight  Area = "right"
	AreaStatus Area = "status"
)

// Valid reports whether the area is one of the dock regions.
func (a Area) Valid() bool {
	switch a {
	case AreaMain, AreaLeft, AreaRight, AreaStatus:
		return true
	}
	return false
}

// AddOptions controls widget placement.
type AddOptions struct {
	// Activate makes the widget current immediately (main area only).
	Activate bool

	// Rank orders widgets within an area; lower ranks render first.
	// Widgets with equal rank keep insertion order.
	Rank int
}

// Widget is a dockable component rendered inside a shell area.
type Widget interface {
	// ID uniquely identifies the widget within the shell.
	ID() string

	// Title is shown in the dock rail and status bar.
	Title() string

	SetSize(width, height int) Widget
	Update(msg tea.Msg) (Widget, tea.Cmd)
	View() string
}

// Shell is the capability contract the application composes against.
type Shell interface {
	// Add places a widget in an area. Adding a duplicate id is an error.
	Add(w Widget, area Area, opts AddOptions) error

	// ActivateByID makes the widget with the given id current.
	// Reports false when no such widget exists.
	ActivateByID(id string) bool

	// CurrentWidget returns the active main-area widget, or nil.
	CurrentWidget() Widget

	// Widgets iterates the widgets of an area in rank order.
	Widgets(area Area) iter.Seq[Widget]

	// NodeAt resolves the innermost node under the mouse position:
	// a widget when one is hit, otherwise the area, otherwise the root.
	NodeAt(msg tea.MouseMsg) Node

	// Root returns the root node of the shell's node tree.
	Root() Node
}
