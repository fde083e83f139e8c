package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap defines keybindings that can be rendered as help.
type KeyMap interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

var _ KeyMap = PreviewKeyMap{}

// PreviewKeyMap defines keybindings for the layout preview.
type PreviewKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	SplitH      key.Binding
	SplitV      key.Binding
	Close       key.Binding
	Merge       key.Binding
	FullScreen  key.Binding
	Terminal    key.Binding
	Release     key.Binding
	NextProfile key.Binding
	NextView    key.Binding
	Save        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k PreviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SplitH, k.SplitV, k.Close, k.FullScreen, k.NextProfile, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k PreviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.SplitH, k.SplitV, k.Merge, k.Close},
		{k.FullScreen, k.Terminal, k.Release, k.NextView},
		{k.NextProfile, k.Save, k.Help, k.Quit},
	}
}

// DefaultPreviewKeyMap returns the default preview keybindings.
func DefaultPreviewKeyMap() PreviewKeyMap {
	return PreviewKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "focus up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "focus down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "focus left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "focus right"),
		),
		SplitH: key.NewBinding(
			key.WithKeys("|"),
			key.WithHelp("|", "split side by side"),
		),
		SplitV: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "split stacked"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		Merge: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "merge sibling"),
		),
		FullScreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "full-screen"),
		),
		Terminal: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "terminal"),
		),
		Release: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "release input"),
		),
		NextProfile: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next profile"),
		),
		NextView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "next view"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save profile"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
