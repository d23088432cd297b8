package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scr8/sqlopsstudio/internal/action"
	"github.com/scr8/sqlopsstudio/internal/app"
	"github.com/scr8/sqlopsstudio/internal/config"
	"github.com/scr8/sqlopsstudio/internal/gate"
	"github.com/scr8/sqlopsstudio/internal/history"
	"github.com/scr8/sqlopsstudio/internal/log"
	"github.com/scr8/sqlopsstudio/internal/notify"
	"github.com/scr8/sqlopsstudio/internal/tracing"
	"github.com/scr8/sqlopsstudio/internal/watcher"
	"github.com/scr8/sqlopsstudio/internal/workbench"
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
	Use:     "sqlops",
	Short:   "A terminal workbench with contributed actions",
	Long:    `A terminal workbench shell where features contribute actions declaratively: each action gets a command registration, a keybinding, and a command palette entry from a single descriptor.`,
	Version: version,
	RunE:    runWorkbench,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/sqlopsstudio/config.yaml)")
	rootCmd.Flags().Bool("debug", false,
		"enable debug logging to sqlops.log")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable automatic reload when the config file changes")

	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("palette.max_visible_items", defaults.Palette.MaxVisibleItems)
	viper.SetDefault("palette.recent_first", defaults.Palette.RecentFirst)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("history.path", defaults.History.Path)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .sqlops/config.yaml (current directory)
		// 2. ~/.config/sqlopsstudio/config.yaml (user config)
		if _, err := os.Stat(".sqlops/config.yaml"); err == nil {
			viper.SetConfigFile(".sqlops/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "sqlopsstudio"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create a default one
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := defaultConfigPath()
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sqlops/config.yaml"
	}
	return filepath.Join(home, ".config", "sqlopsstudio", "config.yaml")
}

// reloadConfig re-reads the config file into a fresh Config. Used for live
// keybinding override reload while the workbench is running.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("re-reading config: %w", err)
	}
	var fresh config.Config
	if err := viper.Unmarshal(&fresh); err != nil {
		return config.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := config.Validate(fresh); err != nil {
		return config.Config{}, err
	}
	return fresh, nil
}

// registries bundles the three shared registries and the registrar over
// them.
type registries struct {
	commands    *action.CommandRegistry
	keybindings *action.KeybindingRegistry
	menus       *action.MenuRegistry
	registrar   *action.Registrar
}

func newRegistries() registries {
	commands := action.NewCommandRegistry()
	keybindings := action.NewKeybindingRegistry()
	menus := action.NewMenuRegistry()
	return registries{
		commands:    commands,
		keybindings: keybindings,
		menus:       menus,
		registrar:   action.NewRegistrar(commands, keybindings, menus),
	}
}

func runWorkbench(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		closeLog, err := log.Init("sqlops.log")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer closeLog()
	}

	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tracer, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	var store *history.Store
	if cfg.History.Enabled && cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			// History is a convenience; run without it rather than refuse
			// to start.
			log.ErrorErr(log.CatDB, "opening invocation history", err, "path", cfg.History.Path)
			store = nil
		} else {
			defer func() { _ = store.Close() }()
		}
	}

	reg := newRegistries()
	reg.keybindings.SetOverrides(cfg.Keybindings)

	notifier := notify.NewService()
	defer notifier.Close()

	readiness := gate.New()

	accessor := &action.Accessor{
		Notifications: notifier,
		Instantiator:  workbench.NewInstantiator(),
		Lifecycle:     readiness,
	}
	if tracer.Enabled() {
		accessor.Tracer = tracer.Tracer()
	}
	if store != nil {
		accessor.Observer = store
	}

	var configChanges <-chan struct{}
	if cfg.AutoReload {
		configFilePath := viper.ConfigFileUsed()
		if configFilePath != "" {
			w, werr := watcher.New(watcher.DefaultConfig(configFilePath))
			if werr != nil {
				log.ErrorErr(log.CatWatcher, "creating config watcher", werr)
			} else if ch, serr := w.Start(); serr != nil {
				log.ErrorErr(log.CatWatcher, "starting config watcher", serr)
				_ = w.Stop()
			} else {
				configChanges = ch
				defer func() { _ = w.Stop() }()
			}
		}
	}

	model := app.New(ctx, app.Deps{
		Config:        cfg,
		Commands:      reg.commands,
		Keybindings:   reg.keybindings,
		Menus:         reg.menus,
		Accessor:      accessor,
		Readiness:     readiness,
		Notifications: notifier,
		History:       store,
		ReloadConfig:  reloadConfig,
		ConfigChanges: configChanges,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Built-in actions post messages through the running program.
	builtins, err := workbench.Contribute(reg.registrar, workbench.Services{
		Send:          p.Send,
		Notifications: notifier,
	})
	if err != nil {
		return fmt.Errorf("contributing workbench actions: %w", err)
	}
	defer builtins.Dispose()

	if store != nil {
		historyActions, herr := workbench.ContributeHistory(reg.registrar, workbench.Services{
			Send:          p.Send,
			Notifications: notifier,
		}, store)
		if herr != nil {
			return fmt.Errorf("contributing history actions: %w", herr)
		}
		defer historyActions.Dispose()
	}

	if _, err := p.Run(); err != nil {
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
