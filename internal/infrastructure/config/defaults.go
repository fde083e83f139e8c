package config

import "github.com/bnema/dumbtile/internal/domain/entity"

const (
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 7

	defaultBorderColor           = "240"
	defaultFocusedBorderColor    = "#4A90E2"
	defaultFullScreenBorderColor = "#FFA500"
	defaultCaptureBorderColor    = "#00D4AA"
)

func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}

func getDefaultProfilesDir() string {
	dir, err := GetProfilesDir()
	if err != nil {
		return ""
	}
	return dir
}

// DefaultConfig returns the default configuration values for dumbtile.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      defaultLogLevel,
			Format:     defaultLogFormat,
			LogDir:     getDefaultLogDir(),
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
			Compress:   true,
		},
		Database: DatabaseConfig{
			// Path is set dynamically in Load()
		},
		Layout: LayoutConfig{
			DefaultProfile: entity.ProfileSmall,
			ProfilesDir:    getDefaultProfilesDir(),
			CloseStrategy:  entity.DefaultCloseStrategy,
			PersistOnExit:  false,
			DefaultView:    string(entity.ViewTerminal),
		},
		Appearance: AppearanceConfig{
			BorderColor:           defaultBorderColor,
			FocusedBorderColor:    defaultFocusedBorderColor,
			FullScreenBorderColor: defaultFullScreenBorderColor,
			CaptureBorderColor:    defaultCaptureBorderColor,
			ShowHelp:              true,
		},
	}
}
