// Package config provides configuration types and defaults for sqlopsstudio.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scr8/sqlopsstudio/internal/log"
)

// Config holds all configuration options.
type Config struct {
	// Keybindings maps action ids to chord overrides. An override shadows
	// every chord the action was contributed with; an empty string unbinds
	// the action entirely.
	Keybindings map[string]string `mapstructure:"keybindings"`

	AutoReload bool          `mapstructure:"auto_reload"`
	Palette    PaletteConfig `mapstructure:"palette"`
	History    HistoryConfig `mapstructure:"history"`
	Tracing    TracingConfig `mapstructure:"tracing"`
	Debug      bool          `mapstructure:"debug"`
}

// PaletteConfig holds command palette options.
type PaletteConfig struct {
	// MaxVisibleItems limits how many entries show before scrolling.
	MaxVisibleItems int `mapstructure:"max_visible_items"`
	// RecentFirst orders entries by most recent use before alphabetical.
	RecentFirst bool `mapstructure:"recent_first"`
}

// HistoryConfig holds invocation history options.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database location.
	// Default: ~/.config/sqlopsstudio/history.db
	Path string `mapstructure:"path"`
}

// TracingConfig holds invocation tracing configuration.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the backend: "none", "stdout", or "otlp".
	Exporter string `mapstructure:"exporter"`
	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultHistoryPath returns the default invocation history location, or
// empty string if the home directory is unavailable.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sqlopsstudio", "history.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Keybindings: map[string]string{},
		AutoReload:  true,
		Palette: PaletteConfig{
			MaxVisibleItems: 8,
			RecentFirst:     true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "none",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// ValidateKeybindings checks chord overrides for errors. Chords use Bubble
// Tea key notation ("ctrl+k", "f5", "?"); an empty chord means unbind.
func ValidateKeybindings(overrides map[string]string) error {
	for id, chord := range overrides {
		if id == "" {
			return fmt.Errorf("keybindings: action id cannot be empty")
		}
		if strings.ContainsAny(chord, " \t") {
			return fmt.Errorf("keybindings: chord %q for %s must not contain whitespace", chord, id)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	switch tracing.Exporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateKeybindings(cfg.Keybindings); err != nil {
		return err
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return err
	}
	if cfg.Palette.MaxVisibleItems < 0 {
		return fmt.Errorf("palette.max_visible_items cannot be negative")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with
// comments.
func DefaultConfigTemplate() string {
	return `# sqlopsstudio Configuration

# Reload this file automatically when it changes (keybinding overrides
# are re-applied live; installed keybinding rules are never removed).
auto_reload: true

# Keybinding overrides - map an action id to a chord, or to "" to unbind.
# Chords use Bubble Tea key notation: ctrl+k, f5, shift+tab, ?
# keybindings:
#   workbench.action.showCommands: ctrl+p
#   workbench.action.quit: ""

# Command palette settings
palette:
  max_visible_items: 8   # Entries shown before scrolling
  recent_first: true     # Order by most recent use, then alphabetical

# Invocation history (feeds the palette's recent-first ordering)
history:
  enabled: true
  # path: ~/.config/sqlopsstudio/history.db

# Invocation tracing
# tracing:
#   enabled: false
#   exporter: none       # none, stdout, or otlp
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
