// Package overlay composites modal content on top of a background view
// without clearing the screen underneath.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to anchor the overlay content.
type Position int

const (
	// Center anchors the overlay in the middle of the viewport.
	Center Position = iota
	// Top anchors the overlay at the top center of the viewport.
	Top
	// Bottom anchors the overlay at the bottom center of the viewport.
	Bottom
	// At anchors the overlay at the explicit X,Y coordinates. Used for
	// context menus placed at the mouse position.
	At
)

// Config controls overlay placement.
type Config struct {
	// Width is the total viewport width.
	Width int
	// Height is the total viewport height.
	Height int
	// Position selects the anchor strategy.
	Position Position
	// PadY adds vertical padding from edges for Top and Bottom anchors.
	PadY int
	// X and Y are the placement coordinates for the At anchor.
	X int
	Y int
}

// Place renders foreground content over the background. Both strings may
// contain ANSI styling; truncation is width-aware so escape sequences in
// either layer survive the splice.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	fgHeight := len(fgLines)
	fgWidth := lipgloss.Width(fg)

	startX, startY := anchor(cfg, fgWidth, fgHeight)

	for i, fgLine := range fgLines {
		bgY := startY + i
		if bgY >= len(bgLines) {
			break
		}

		bgLine := bgLines[bgY]
		fgLineWidth := ansi.StringWidth(fgLine)

		leftPart := ansi.Truncate(bgLine, startX, "")
		leftWidth := ansi.StringWidth(leftPart)
		if leftWidth < startX {
			leftPart += strings.Repeat(" ", startX-leftWidth)
		}

		endX := startX + fgLineWidth
		bgWidth := ansi.StringWidth(bgLine)
		var rightPart string
		if endX < bgWidth {
			rightPart = ansi.TruncateLeft(bgLine, endX, "")
		}

		bgLines[bgY] = leftPart + fgLine + rightPart
	}

	return strings.Join(bgLines, "\n")
}

// anchor resolves the top-left coordinates of the overlay, clamping so the
// content stays inside the viewport.
func anchor(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case Top:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.PadY
	case Bottom:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.Height - fgHeight - cfg.PadY
	case At:
		x = cfg.X
		y = cfg.Y
		if x+fgWidth > cfg.Width {
			x = cfg.Width - fgWidth
		}
		if y+fgHeight > cfg.Height {
			y = cfg.Height - fgHeight
		}
	default:
		x = (cfg.Width - fgWidth) / 2
		y = (cfg.Height - fgHeight) / 2
	}

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
