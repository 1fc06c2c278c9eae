package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/atelier-dev/atelier/internal/services/tracing"
)

// loadConfigFromYAML parses a YAML snippet through viper the same way the
// CLI does.
func loadConfigFromYAML(t *testing.T, yamlContent string) Config {
	t.Helper()

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yamlContent)))

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.True(t, cfg.AutoWatch)
	require.True(t, cfg.UI.ShowStatusBar)
	require.False(t, cfg.UI.Debug)
	require.Empty(t, cfg.WorkspaceDir)
	require.False(t, cfg.Services.Tracing.Enabled)
	require.Equal(t, "file", cfg.Services.Tracing.Exporter)
}

func TestDefaultConfigTemplate_ParsesToDefaults(t *testing.T) {
	cfg := loadConfigFromYAML(t, DefaultConfigTemplate())

	require.True(t, cfg.AutoWatch)
	require.True(t, cfg.UI.ShowStatusBar)
	require.False(t, cfg.UI.Debug)
	require.NoError(t, Validate(cfg))
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
workspace_dir: /tmp/notes
auto_watch: false
ui:
  debug: true
keys:
  palette: ctrl+p
services:
  db_path: /tmp/notes/custom.db
  cache_ttl: 2m
`)

	require.Equal(t, "/tmp/notes", cfg.WorkspaceDir)
	require.False(t, cfg.AutoWatch)
	require.True(t, cfg.UI.Debug)
	require.Equal(t, "ctrl+p", cfg.Keys.Palette)
	require.Equal(t, "/tmp/notes/custom.db", cfg.Services.DBPath)
	require.Equal(t, 2*time.Minute, cfg.Services.CacheTTL)
}

func TestServiceConfig_DerivesFromWorkspace(t *testing.T) {
	cfg := Defaults()
	cfg.WorkspaceDir = "/tmp/ws"

	svc := cfg.ServiceConfig()
	require.Equal(t, "/tmp/ws", svc.WorkspaceDir)
	require.Equal(t, filepath.Join("/tmp/ws", ".atelier", "workspace.db"), svc.DBPath)
	require.True(t, svc.WatchEnabled)
}

func TestServiceConfig_Overrides(t *testing.T) {
	cfg := Defaults()
	cfg.WorkspaceDir = "/tmp/ws"
	cfg.AutoWatch = false
	cfg.Services.DBPath = "/elsewhere/store.db"
	cfg.Services.CacheTTL = time.Minute

	svc := cfg.ServiceConfig()
	require.False(t, svc.WatchEnabled)
	require.Equal(t, "/elsewhere/store.db", svc.DBPath)
	require.Equal(t, time.Minute, svc.CacheTTL)
}

func TestServiceConfig_EmptyWorkspaceDefaultsToCurrentDir(t *testing.T) {
	svc := Defaults().ServiceConfig()
	require.Equal(t, ".", svc.WorkspaceDir)
}

func TestServiceConfig_ZeroTracingUsesDefaults(t *testing.T) {
	cfg := Defaults()
	cfg.Services.Tracing = tracing.Config{}

	svc := cfg.ServiceConfig()
	require.Equal(t, "file", svc.Tracing.Exporter)
	require.Equal(t, 1.0, svc.Tracing.SampleRate)
}

func TestValidate_TracingSampleRate(t *testing.T) {
	cfg := Defaults()
	cfg.Services.Tracing.SampleRate = 1.5

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "sample_rate")
}

func TestValidate_TracingExporter(t *testing.T) {
	cfg := Defaults()
	cfg.Services.Tracing.Exporter = "carrier-pigeon"

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exporter")
}

func TestValidate_OTLPEndpointRequired(t *testing.T) {
	cfg := Defaults()
	cfg.Services.Tracing.Enabled = true
	cfg.Services.Tracing.Exporter = "otlp"
	cfg.Services.Tracing.OTLPEndpoint = ""

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "otlp_endpoint")
}

func TestValidate_ThemeMode(t *testing.T) {
	cfg := Defaults()
	cfg.Theme.Mode = "sepia"

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "theme.mode")
}

func TestFlattenedColors_Nested(t *testing.T) {
	theme := ThemeConfig{
		Colors: map[string]any{
			"text": map[string]any{
				"muted": "#AAAAAA",
			},
			"status.error": "#FF0000",
		},
	}

	flat := theme.FlattenedColors()
	require.Equal(t, "#AAAAAA", flat["text.muted"])
	require.Equal(t, "#FF0000", flat["status.error"])
}

func TestFlattenedColors_MapAnyAny(t *testing.T) {
	theme := ThemeConfig{
		Colors: map[string]any{
			"status": map[any]any{
				"success": "#00FF00",
			},
		},
	}

	flat := theme.FlattenedColors()
	require.Equal(t, "#00FF00", flat["status.success"])
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "auto_watch: true")
}
