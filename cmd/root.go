package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atelier-dev/atelier/internal/app"
	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/future"
	"github.com/atelier-dev/atelier/internal/keys"
	"github.com/atelier-dev/atelier/internal/log"
	"github.com/atelier-dev/atelier/internal/services"
	"github.com/atelier-dev/atelier/internal/shell"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "atelier",
	Short:   "A terminal workbench for workspace documents",
	Long:    `A terminal document workbench: open, edit and save workspace documents in dockable widgets, with a command palette and context menus wired to a shared command registry.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .atelier/config.yaml)")
	rootCmd.Flags().StringP("workspace", "w", "",
		"workspace directory holding documents")
	rootCmd.Flags().Bool("debug", false,
		"enable debug logging and the log overlay")
	rootCmd.Flags().Bool("no-watch", false,
		"disable re-reading documents when they change on disk")

	_ = viper.BindPFlag("workspace_dir", rootCmd.Flags().Lookup("workspace"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_watch", defaults.AutoWatch)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.debug", defaults.UI.Debug)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .atelier/config.yaml (current directory)
		// 2. ~/.config/atelier/config.yaml (user config)
		if _, err := os.Stat(".atelier/config.yaml"); err == nil {
			viper.SetConfigFile(".atelier/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "atelier"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .atelier/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".atelier/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configFilePath returns the config file location layout snapshots are
// written back to.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return ".atelier/config.yaml"
}

// applyFlagOverrides folds command-line flags into the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg config.Config) config.Config {
	if workspace, _ := cmd.Flags().GetString("workspace"); workspace != "" {
		cfg.WorkspaceDir = workspace
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.UI.Debug = true
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.AutoWatch = false
	}
	return cfg
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = applyFlagOverrides(cmd, cfg)

	if err := config.ApplyTheme(cfg.Theme); err != nil {
		return fmt.Errorf("invalid theme configuration: %w", err)
	}

	km := keys.DefaultKeyMap()
	keys.ApplyConfig(&km, cfg.Keys.Palette, cfg.Keys.Logs)

	svcCfg := cfg.ServiceConfig()

	if cfg.UI.Debug {
		logPath := filepath.Join(svcCfg.WorkspaceDir, ".atelier", "atelier.log")
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing log file: %w", err)
		}
		defer cleanup()
	}

	manager, err := services.NewManager(svcCfg)
	if err != nil {
		return fmt.Errorf("opening workspace: %w", err)
	}

	opts := app.Options{Services: manager}
	if layout, ok, loadErr := config.LoadLayout(configFilePath()); loadErr != nil {
		log.Warn(log.CatConfig, "Ignoring saved layout", "error", loadErr)
	} else if ok {
		opts.Restored = future.Resolved(layout)
	}

	client, err := app.New(opts)
	if err != nil {
		_ = manager.Close()
		return fmt.Errorf("composing client: %w", err)
	}

	zone.NewGlobal()

	model, err := app.NewModel(client, km, cfg.UI.Debug)
	if err != nil {
		_ = manager.Close()
		return fmt.Errorf("building root model: %w", err)
	}

	dock := client.Shell().(*shell.Dock)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	if saveErr := config.SaveLayout(configFilePath(), dock.Layout()); saveErr != nil {
		log.Warn(log.CatConfig, "Saving layout failed", "error", saveErr)
	}

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	_ = manager.Close()

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
