// Package styles contains Lip Gloss style definitions.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	return truncate.StringWithTail(s, uint(maxWidth), "...")
}

// DirtyMarker returns the unsaved-changes indicator for a widget title.
func DirtyMarker(dirty bool) string {
	if dirty {
		return "●"
	}
	return ""
}
