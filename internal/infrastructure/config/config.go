// Package config loads, validates and watches the dumbtile configuration.
package config

import "github.com/bnema/dumbtile/internal/domain/entity"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config represents the complete configuration for dumbtile.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging" toml:"logging"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database" toml:"database"`
	Layout     LayoutConfig     `mapstructure:"layout" yaml:"layout" toml:"layout"`
	Appearance AppearanceConfig `mapstructure:"appearance" yaml:"appearance" toml:"appearance"`
}

// LoggingConfig controls log level, format and the preview's log file.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format string `mapstructure:"format" yaml:"format" toml:"format" jsonschema:"enum=console,enum=text,enum=json"`
	// LogDir receives dumbtile.log while the interactive preview owns the terminal.
	LogDir     string `mapstructure:"log_dir" yaml:"log_dir" toml:"log_dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb" jsonschema:"minimum=0"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" toml:"max_backups" jsonschema:"minimum=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days" toml:"max_age_days" jsonschema:"minimum=0"`
	Compress   bool   `mapstructure:"compress" yaml:"compress" toml:"compress"`
}

// DatabaseConfig locates the profile store.
type DatabaseConfig struct {
	// Path is set from XDG_DATA_HOME when empty.
	Path string `mapstructure:"path" yaml:"path" toml:"path"`
}

// LayoutConfig controls which profiles exist and how they behave.
type LayoutConfig struct {
	// DefaultProfile is activated on startup.
	DefaultProfile string `mapstructure:"default_profile" yaml:"default_profile" toml:"default_profile"`
	// ProfilesDir holds declarative layout files (yaml, json, jsonc).
	ProfilesDir string `mapstructure:"profiles_dir" yaml:"profiles_dir" toml:"profiles_dir"`
	// CloseStrategy selects how the focused pane is closed.
	CloseStrategy entity.CloseStrategy `mapstructure:"close_strategy" yaml:"close_strategy" toml:"close_strategy" jsonschema:"enum=sibling,enum=probe,enum=promote"`
	// PersistOnExit stores every edited profile when the preview exits.
	PersistOnExit bool `mapstructure:"persist_on_exit" yaml:"persist_on_exit" toml:"persist_on_exit"`
	// DefaultView is shown by the single pane of a newly created profile.
	DefaultView string `mapstructure:"default_view" yaml:"default_view" toml:"default_view"`
}

// AppearanceConfig styles the preview. Colours are hex (#rgb, #rrggbb) or
// ANSI 256 indices.
type AppearanceConfig struct {
	BorderColor           string `mapstructure:"border_color" yaml:"border_color" toml:"border_color"`
	FocusedBorderColor    string `mapstructure:"focused_border_color" yaml:"focused_border_color" toml:"focused_border_color"`
	FullScreenBorderColor string `mapstructure:"full_screen_border_color" yaml:"full_screen_border_color" toml:"full_screen_border_color"`
	CaptureBorderColor    string `mapstructure:"capture_border_color" yaml:"capture_border_color" toml:"capture_border_color"`
	ShowHelp              bool   `mapstructure:"show_help" yaml:"show_help" toml:"show_help"`
}
