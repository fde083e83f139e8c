// Package styles provides reusable lipgloss-based TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumbtile/internal/infrastructure/config"
)

// Theme holds lipgloss colors and styles derived from config.
type Theme struct {
	// Pane border colors (from config.AppearanceConfig)
	Border           lipgloss.Color
	FocusedBorder    lipgloss.Color
	FullScreenBorder lipgloss.Color
	CaptureBorder    lipgloss.Color

	// Text colors
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Surface lipgloss.Color

	// Semantic colors
	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color

	// Pre-built styles
	Title        lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	SuccessStyle lipgloss.Style

	Badge      lipgloss.Style
	BadgeMuted lipgloss.Style

	// Pane boxes; the border color is set per frame.
	Pane      lipgloss.Style
	PaneLabel lipgloss.Style

	StatusBar lipgloss.Style
}

// NewTheme creates a Theme from the appearance section, falling back to the
// default colors for a nil config.
func NewTheme(cfg *config.Config) *Theme {
	appearance := config.DefaultConfig().Appearance
	if cfg != nil {
		appearance = cfg.Appearance
	}
	return NewThemeFromAppearance(appearance)
}

// NewThemeFromAppearance creates a Theme from an appearance section.
func NewThemeFromAppearance(a config.AppearanceConfig) *Theme {
	t := &Theme{
		Border:           lipgloss.Color(a.BorderColor),
		FocusedBorder:    lipgloss.Color(a.FocusedBorderColor),
		FullScreenBorder: lipgloss.Color(a.FullScreenBorderColor),
		CaptureBorder:    lipgloss.Color(a.CaptureBorderColor),

		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#909090"),
		Accent:  lipgloss.Color(a.FocusedBorderColor),
		Surface: lipgloss.Color("#1a1a1b"),

		Error:   lipgloss.Color("#ef4444"),
		Warning: lipgloss.Color("#f59e0b"),
		Success: lipgloss.Color("#4ade80"),
	}

	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	t.Title = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	t.Normal = lipgloss.NewStyle().
		Foreground(t.Text)

	t.Subtle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.Highlight = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.Badge = lipgloss.NewStyle().
		Foreground(t.Surface).
		Background(t.Accent).
		Padding(0, 1)

	t.BadgeMuted = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(lipgloss.Color("#2d2d2d")).
		Padding(0, 1)

	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)

	t.PaneLabel = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(t.Muted).
		Background(t.Surface)
}

// PaneBorder returns the border color for a pane in the given state.
// Full-screen wins over capture, capture wins over focus.
func (t *Theme) PaneBorder(focused, fullScreen, captured bool) lipgloss.Color {
	switch {
	case fullScreen:
		return t.FullScreenBorder
	case focused && captured:
		return t.CaptureBorder
	case focused:
		return t.FocusedBorder
	default:
		return t.Border
	}
}
