// Package config provides configuration types, defaults, and persistence
// for atelier.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atelier-dev/atelier/internal/log"
	"github.com/atelier-dev/atelier/internal/services"
	"github.com/atelier-dev/atelier/internal/services/tracing"
)

// Config holds all configuration options for atelier.
type Config struct {
	WorkspaceDir string         `mapstructure:"workspace_dir"`
	AutoWatch    bool           `mapstructure:"auto_watch"`
	UI           UIConfig       `mapstructure:"ui"`
	Theme        ThemeConfig    `mapstructure:"theme"`
	Keys         KeysConfig     `mapstructure:"keys"`
	Services     ServicesConfig `mapstructure:"services"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"show_status_bar"`
	Debug         bool `mapstructure:"debug"` // Enable the log overlay toggle
}

// KeysConfig overrides individual keybindings. Empty values keep the
// defaults.
type KeysConfig struct {
	Palette string `mapstructure:"palette"` // e.g. "ctrl+space"
	Logs    string `mapstructure:"logs"`    // e.g. "ctrl+x"
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     text:
	//       muted: "#6B7280"
	// Or quoted dot notation:
	//   colors:
	//     "text.muted": "#6B7280"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// ServicesConfig holds workspace service settings.
type ServicesConfig struct {
	// DBPath overrides the sqlite store location.
	// Default: <workspace>/.atelier/workspace.db
	DBPath string `mapstructure:"db_path"`

	// SkipCache bypasses the read-through caches.
	SkipCache bool `mapstructure:"skip_cache"`

	// CacheTTL is the time-to-live for cached reads.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// Tracing configures the otel provider for service spans.
	Tracing tracing.Config `mapstructure:"tracing"`
}

// ServiceConfig builds the service-manager configuration for the
// configured workspace.
func (c Config) ServiceConfig() services.Config {
	dir := c.WorkspaceDir
	if dir == "" {
		dir = "."
	}

	cfg := services.DefaultConfig(dir)
	cfg.WatchEnabled = c.AutoWatch
	cfg.SkipCache = c.Services.SkipCache
	if c.Services.DBPath != "" {
		cfg.DBPath = c.Services.DBPath
	}
	if c.Services.CacheTTL > 0 {
		cfg.CacheTTL = c.Services.CacheTTL
	}

	tr := c.Services.Tracing
	if (tr == tracing.Config{}) {
		tr = tracing.DefaultConfig()
	}
	if tr.Enabled && tr.Exporter == "file" && tr.FilePath == "" {
		tr.FilePath = DefaultTracesFilePath()
	}
	cfg.Tracing = tr

	return cfg
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/atelier/traces/traces.jsonl or empty string if home dir
// unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "atelier", "traces", "traces.jsonl")
}

// Validate checks the configuration for errors. Empty values use defaults
// and are always valid.
func Validate(c Config) error {
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Services.Tracing)
}

// ValidateTheme checks theme configuration for errors.
func ValidateTheme(theme ThemeConfig) error {
	switch theme.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme.mode must be \"light\" or \"dark\", got %q", theme.Mode)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("services.tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}

	if tr.Exporter != "" {
		switch tr.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("services.tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
		}
	}

	if tr.Enabled {
		if tr.Exporter == "otlp" && tr.OTLPEndpoint == "" {
			return fmt.Errorf("services.tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoWatch: true,
		UI: UIConfig{
			ShowStatusBar: true,
			Debug:         false,
		},
		Services: ServicesConfig{
			CacheTTL: 0, // Service default applies
			Tracing:  tracing.DefaultConfig(),
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with
// comments.
func DefaultConfigTemplate() string {
	return `# Atelier Configuration

# Workspace root holding your documents (default: current directory)
# workspace_dir: /path/to/workspace

# Re-read documents when they change on disk
auto_watch: true

# UI settings
ui:
  show_status_bar: true  # Show status bar at bottom
  debug: false           # Enable the log overlay (toggle with the logs key)

# Theme configuration
theme:
  # Force light or dark rendering; empty uses terminal detection
  # mode: dark
  #
  # Override specific colors:
  # colors:
  #   text.muted: "#6B7280"
  #   status.error: "#FF5555"
  #   status.success: "#50FA7B"

# Keybinding overrides (empty keeps the default)
keys:
  # palette: ctrl+space  # Open the command palette
  # logs: ctrl+x         # Toggle the log overlay

# Workspace service settings
services:
  # db_path: /path/to/workspace/.atelier/workspace.db
  # skip_cache: false
  # cache_ttl: 5m

  # Distributed tracing for workspace service calls
  # tracing:
  #   enabled: false                 # Enable/disable tracing (default: false)
  #   exporter: file                 # Export backend: none, file, stdout, otlp
  #   file_path: ~/.config/atelier/traces/traces.jsonl
  #   otlp_endpoint: localhost:4317  # OTLP collector endpoint
  #   sample_rate: 1.0               # Trace sampling rate 0.0-1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
