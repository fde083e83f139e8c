package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/dumbtile/internal/domain/entity"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// validateConfig collects every problem so a single run reports them all.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateLayout(config)...)
	validationErrors = append(validationErrors, validateAppearance(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "disabled", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of: trace, debug, info, warn, error, disabled (got: %s)",
			config.Logging.Level,
		))
	}
	switch config.Logging.Format {
	case "text", "json", "console", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be one of: text, json, console (got: %s)",
			config.Logging.Format,
		))
	}
	if config.Logging.MaxSizeMB < 0 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be non-negative")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	if config.Logging.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "logging.max_age_days must be non-negative")
	}
	return validationErrors
}

func validateLayout(config *Config) []string {
	var validationErrors []string
	if config.Layout.DefaultProfile == "" {
		validationErrors = append(validationErrors, "layout.default_profile cannot be empty")
	}
	if _, err := entity.ParseCloseStrategy(string(config.Layout.CloseStrategy)); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"layout.close_strategy must be one of: sibling, probe, promote (got: %s)",
			config.Layout.CloseStrategy,
		))
	}
	if config.Layout.DefaultView == "" {
		validationErrors = append(validationErrors, "layout.default_view cannot be empty")
	}
	return validationErrors
}

func validateAppearance(config *Config) []string {
	var validationErrors []string
	colors := []struct {
		key   string
		value string
	}{
		{"appearance.border_color", config.Appearance.BorderColor},
		{"appearance.focused_border_color", config.Appearance.FocusedBorderColor},
		{"appearance.full_screen_border_color", config.Appearance.FullScreenBorderColor},
		{"appearance.capture_border_color", config.Appearance.CaptureBorderColor},
	}
	for _, c := range colors {
		if !isValidColor(c.value) {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"%s must be a hex colour (#rgb, #rrggbb) or an ANSI index 0-255 (got: %q)", c.key, c.value,
			))
		}
	}
	return validationErrors
}

func isValidColor(value string) bool {
	if hexColorRegex.MatchString(value) {
		return true
	}
	n, err := strconv.Atoi(value)
	return err == nil && n >= 0 && n <= 255
}
