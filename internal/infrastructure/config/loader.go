package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/bnema/dumbtile/internal/domain/entity"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config         *Config
	viper          *viper.Viper
	file           string
	mu             sync.RWMutex
	callbacks      []func(*Config)
	watching       bool
	skipNextReload bool
}

// NewManager creates a configuration manager for the XDG config file.
func NewManager() (*Manager, error) {
	configFile, err := GetConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerForFile(configFile)
}

// NewManagerForFile creates a configuration manager reading path.
// The file is created with defaults on first Load.
func NewManagerForFile(path string) (*Manager, error) {
	if path == "" {
		return nil, errors.New("config file path is empty")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	// DUMBTILE_LAYOUT_CLOSE_STRATEGY overrides layout.close_strategy, etc.
	v.SetEnvPrefix("DUMBTILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shared with logging.NewFromEnv, which runs before the config is loaded.
	if err := v.BindEnv("logging.level", "DUMBTILE_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind DUMBTILE_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "DUMBTILE_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind DUMBTILE_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		file:      path,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := ensureDatabasePath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if _, err := os.Stat(m.file); errors.Is(err, fs.ErrNotExist) {
		if createErr := m.createDefaultConfig(); createErr != nil {
			return fmt.Errorf(
				"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
				m.file,
				createErr,
			)
		}
	}
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.file, err)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.file,
			err,
		)
	}
	return config, nil
}

func ensureDatabasePath(config *Config) error {
	if config.Database.Path != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.Database.Path = dbPath
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "warning" {
		config.Logging.Level = "warn"
	}
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "text" {
		config.Logging.Format = "console"
	}

	config.Layout.DefaultProfile = entity.NormalizeProfileName(config.Layout.DefaultProfile)
	if config.Layout.DefaultProfile == "" {
		config.Layout.DefaultProfile = entity.ProfileSmall
	}
	// invalid names are left for validateConfig to report
	if strategy, err := entity.ParseCloseStrategy(string(config.Layout.CloseStrategy)); err == nil {
		config.Layout.CloseStrategy = strategy
	}
	config.Layout.DefaultView = strings.TrimSpace(config.Layout.DefaultView)
	if config.Layout.DefaultView == "" {
		config.Layout.DefaultView = string(entity.ViewTerminal)
	}
	if config.Layout.ProfilesDir == "" {
		config.Layout.ProfilesDir = getDefaultProfilesDir()
	}
	config.Layout.ProfilesDir = expandHome(config.Layout.ProfilesDir)
	config.Logging.LogDir = expandHome(config.Logging.LogDir)
	config.Database.Path = expandHome(config.Database.Path)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Get returns a copy of the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// Save validates cfg, writes it to the config file and makes it current.
// Change callbacks run once the new configuration is in place.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()

	if cfg == nil {
		m.mu.Unlock()
		return errors.New("config is nil")
	}

	saved := *cfg
	normalizeConfig(&saved)
	if err := validateConfig(&saved); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := WriteConfigOrdered(&saved, m.file); err != nil {
		m.mu.Unlock()
		return err
	}

	m.config = &saved
	if m.watching {
		// the fsnotify event for our own write notifies callbacks
		m.skipNextReload = true
		m.mu.Unlock()
		return nil
	}
	if err := m.viper.ReadInConfig(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to reread config: %w", err)
	}
	m.notifyCallbacksLocked()
	return nil
}

// ConfigFile returns the path to the configuration file.
func (m *Manager) ConfigFile() string {
	return m.file
}

// createDefaultConfig writes the default configuration to the config file.
func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(filepath.Dir(m.file), dirPerm); err != nil {
		return err
	}
	return WriteConfigOrdered(DefaultConfig(), m.file)
}

// setDefaults sets default configuration values in Viper. Every key needs a
// default so AutomaticEnv can override it.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
	m.viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Database.Path is set dynamically in Load()
	m.viper.SetDefault("database.path", "")

	m.viper.SetDefault("layout.default_profile", defaults.Layout.DefaultProfile)
	m.viper.SetDefault("layout.profiles_dir", defaults.Layout.ProfilesDir)
	m.viper.SetDefault("layout.close_strategy", string(defaults.Layout.CloseStrategy))
	m.viper.SetDefault("layout.persist_on_exit", defaults.Layout.PersistOnExit)
	m.viper.SetDefault("layout.default_view", defaults.Layout.DefaultView)

	m.viper.SetDefault("appearance.border_color", defaults.Appearance.BorderColor)
	m.viper.SetDefault("appearance.focused_border_color", defaults.Appearance.FocusedBorderColor)
	m.viper.SetDefault("appearance.full_screen_border_color", defaults.Appearance.FullScreenBorderColor)
	m.viper.SetDefault("appearance.capture_border_color", defaults.Appearance.CaptureBorderColor)
	m.viper.SetDefault("appearance.show_help", defaults.Appearance.ShowHelp)
}
