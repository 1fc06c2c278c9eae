package config

import (
	"fmt"
	"regexp"

	"github.com/atelier-dev/atelier/internal/log"
	"github.com/atelier-dev/atelier/internal/ui/styles"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Color tokens the theme system understands.
const (
	TokenTextMuted     = "text.muted"
	TokenStatusError   = "status.error"
	TokenStatusSuccess = "status.success"
)

// ApplyTheme applies the theme configuration to the global styles.
// Unknown tokens fail so typos surface instead of silently doing nothing.
func ApplyTheme(theme ThemeConfig) error {
	colors := theme.FlattenedColors()

	var muted, errorColor, success string
	for token, value := range colors {
		if !hexColorRe.MatchString(value) {
			return fmt.Errorf("theme color %q: invalid hex color %q", token, value)
		}
		switch token {
		case TokenTextMuted:
			muted = value
		case TokenStatusError:
			errorColor = value
		case TokenStatusSuccess:
			success = value
		default:
			return fmt.Errorf("unknown theme color token %q", token)
		}
	}

	styles.ApplyTheme(muted, errorColor, success)
	if len(colors) > 0 {
		log.Debug(log.CatConfig, "Theme colors applied", "count", len(colors))
	}
	return nil
}
