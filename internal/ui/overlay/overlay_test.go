package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlace_Center(t *testing.T) {
	bg := "AAAAA\nAAAAA\nAAAAA"
	fg := "XX\nXX"
	cfg := Config{Width: 5, Height: 3, Position: Center}

	result := Place(cfg, fg, bg)

	lines := strings.Split(result, "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], "XX")
}

func TestPlace_Top_WithPadding(t *testing.T) {
	bg := "AAAAA\nAAAAA\nAAAAA\nAAAAA\nAAAAA"
	fg := "XX"
	cfg := Config{Width: 5, Height: 5, Position: Top, PadY: 1}

	result := Place(cfg, fg, bg)

	lines := strings.Split(result, "\n")
	assert.Equal(t, "AAAAA", lines[0])
	assert.Contains(t, lines[1], "XX")
}

func TestPlace_Bottom(t *testing.T) {
	bg := "AAAAA\nAAAAA\nAAAAA\nAAAAA\nAAAAA"
	fg := "XX"
	cfg := Config{Width: 5, Height: 5, Position: Bottom, PadY: 0}

	result := Place(cfg, fg, bg)

	lines := strings.Split(result, "\n")
	assert.Contains(t, lines[4], "XX")
	assert.Equal(t, "AAAAA", lines[0])
}

func TestPlace_At(t *testing.T) {
	bg := ".....\n.....\n.....\n.....\n....."
	fg := "XX"
	cfg := Config{Width: 5, Height: 5, Position: At, X: 1, Y: 2}

	result := Place(cfg, fg, bg)

	lines := strings.Split(result, "\n")
	assert.Equal(t, ".XX..", lines[2])
	assert.Equal(t, ".....", lines[1])
	assert.Equal(t, ".....", lines[3])
}

func TestPlace_At_ClampsToViewport(t *testing.T) {
	bg := ".....\n.....\n.....\n.....\n....."
	fg := "XXX"
	cfg := Config{Width: 5, Height: 5, Position: At, X: 4, Y: 4}

	result := Place(cfg, fg, bg)

	lines := strings.Split(result, "\n")
	// Pulled back so the menu stays fully on screen.
	assert.Equal(t, "..XXX", lines[4])
}

func TestPlace_EmptyBackground(t *testing.T) {
	bg := ""
	fg := "XX\nXX"
	cfg := Config{Width: 5, Height: 3, Position: Center}

	result := Place(cfg, fg, bg)

	lines := strings.Split(result, "\n")
	assert.Len(t, lines, 3)
}

func TestPlace_PreservesBackgroundOnSides(t *testing.T) {
	bg := "ABCDE\nFGHIJ\nKLMNO"
	fg := "X"
	cfg := Config{Width: 5, Height: 3, Position: Center}

	result := Place(cfg, fg, bg)

	lines := strings.Split(result, "\n")
	assert.Equal(t, "FGXIJ", lines[1])
}

func TestPlace_PreservesANSI(t *testing.T) {
	bg := "\x1b[31mRED\x1b[0m\n\x1b[31mRED\x1b[0m\n\x1b[31mRED\x1b[0m"
	fg := "X"
	cfg := Config{Width: 3, Height: 3, Position: Center}

	result := Place(cfg, fg, bg)

	assert.Contains(t, result, "\x1b[31m")
}

func TestPlace_MultilineForeground(t *testing.T) {
	bg := ".....\n.....\n.....\n.....\n....."
	fg := "XXX\nXXX\nXXX"
	cfg := Config{Width: 5, Height: 5, Position: Center}

	result := Place(cfg, fg, bg)

	lines := strings.Split(result, "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[1], "XXX")
	assert.Contains(t, lines[2], "XXX")
	assert.Contains(t, lines[3], "XXX")
}

func TestAnchor_Center(t *testing.T) {
	cfg := Config{Width: 10, Height: 10, Position: Center}

	x, y := anchor(cfg, 4, 2)

	assert.Equal(t, 3, x)
	assert.Equal(t, 4, y)
}

func TestAnchor_Bottom(t *testing.T) {
	cfg := Config{Width: 10, Height: 10, Position: Bottom, PadY: 1}

	x, y := anchor(cfg, 4, 2)

	assert.Equal(t, 3, x)
	assert.Equal(t, 7, y)
}

func TestAnchor_NegativeClamping(t *testing.T) {
	cfg := Config{Width: 5, Height: 5, Position: Center}

	x, y := anchor(cfg, 10, 10)

	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}
