// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumbtile/internal/application/usecase"
	"github.com/bnema/dumbtile/internal/cli/styles"
	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/infrastructure/config"
	"github.com/bnema/dumbtile/internal/logging"
)

// PreviewModel drives a ManageScreenUseCase from terminal input and draws
// one bordered box per pane. It draws no pane content.
//
// Update is the only caller of the use case; bubbletea runs it serially.
type PreviewModel struct {
	help  help.Model
	keys  styles.PreviewKeyMap
	theme *styles.Theme

	width    int
	height   int
	showHelp bool
	status   string
	// lastKey is the most recent key delivered to the captured terminal.
	lastKey string

	ctx    context.Context
	screen *usecase.ManageScreenUseCase
}

// PreviewModelConfig holds configuration for the preview model.
type PreviewModelConfig struct {
	Screen   *usecase.ManageScreenUseCase
	ShowHelp bool
}

// NewPreviewModel creates a preview over cfg.Screen.
func NewPreviewModel(ctx context.Context, theme *styles.Theme, cfg PreviewModelConfig) PreviewModel {
	h := styles.NewStyledHelp(theme)
	return PreviewModel{
		help:     h,
		keys:     styles.DefaultPreviewKeyMap(),
		theme:    theme,
		width:    80,
		height:   24,
		showHelp: cfg.ShowHelp,
		ctx:      ctx,
		screen:   cfg.Screen,
	}
}

// Init implements tea.Model.
func (m PreviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.screen.Resize(m.ctx, m.area())
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case ConfigChangedMsg:
		return m.applyConfig(msg.Config), nil

	case tea.KeyMsg:
		if m.screen.Screen().InputCaptured() {
			return m.handleCapturedKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// ConfigChangedMsg carries a reloaded configuration into the event loop.
type ConfigChangedMsg struct {
	Config *config.Config
}

// applyConfig picks up appearance and close strategy changes.
func (m PreviewModel) applyConfig(cfg *config.Config) PreviewModel {
	if cfg == nil {
		return m
	}
	m.theme = styles.NewTheme(cfg)
	m.help = styles.NewStyledHelp(m.theme)
	m.help.Width = m.width
	m.showHelp = cfg.Appearance.ShowHelp
	m.screen.SetCloseStrategy(m.ctx, cfg.Layout.CloseStrategy)
	m.screen.Resize(m.ctx, m.area())
	m.status = "config reloaded"
	return m
}

func (m PreviewModel) handleMouse(msg tea.MouseMsg) PreviewModel {
	if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
		return m
	}
	area := m.area()
	if !area.Contains(msg.X, msg.Y) {
		return m
	}
	m.screen.PointerMove(m.ctx, uint16(msg.X), uint16(msg.Y))
	return m
}

// handleCapturedKey forwards keys to the terminal pane until released.
func (m PreviewModel) handleCapturedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Release):
		m.screen.ReleaseInput(m.ctx)
		m.screen.DispatchPointer(m.ctx)
		m.lastKey = ""
		m.status = ""
		return m, nil
	default:
		m.lastKey = msg.String()
		return m, nil
	}
}

func (m PreviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	var err error

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.screen.Navigate(m.ctx, entity.DirUp)
	case key.Matches(msg, m.keys.Down):
		m.screen.Navigate(m.ctx, entity.DirDown)
	case key.Matches(msg, m.keys.Left):
		m.screen.Navigate(m.ctx, entity.DirLeft)
	case key.Matches(msg, m.keys.Right):
		m.screen.Navigate(m.ctx, entity.DirRight)

	case key.Matches(msg, m.keys.SplitH):
		_, err = m.screen.Split(m.ctx, entity.SplitHorizontal, entity.EvenRatio)
	case key.Matches(msg, m.keys.SplitV):
		_, err = m.screen.Split(m.ctx, entity.SplitVertical, entity.EvenRatio)
	case key.Matches(msg, m.keys.Merge):
		err = m.screen.MergeSibling(m.ctx)
	case key.Matches(msg, m.keys.Close):
		err = m.screen.Close(m.ctx)

	case key.Matches(msg, m.keys.FullScreen):
		m.screen.ToggleFullScreen(m.ctx)
	case key.Matches(msg, m.keys.Terminal):
		err = m.screen.EnterTerminal(m.ctx)
	case key.Matches(msg, m.keys.NextProfile):
		name := m.screen.CycleProfile(m.ctx)
		m.status = "profile " + name
	case key.Matches(msg, m.keys.NextView):
		m.screen.SetView(m.ctx, nextView(m.screen.FocusedView()))

	case key.Matches(msg, m.keys.Save):
		m.status = m.saveActive()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.showHelp = true
		m.screen.Resize(m.ctx, m.area())
	}

	if err != nil {
		m.status = usecase.StatusFromError(err)
	}
	return m, nil
}

// saveActive stores the active profile synchronously; the use case is not
// safe to call from a tea.Cmd goroutine.
func (m PreviewModel) saveActive() string {
	name := m.screen.Screen().ActiveProfile()
	saved, err := m.screen.SaveProfile(m.ctx, name)
	if err != nil {
		logging.FromContext(m.ctx).Error().Err(err).Str("profile", name).Msg("save failed")
		return usecase.StatusFromError(err)
	}
	if !saved {
		return fmt.Sprintf("%s unchanged", name)
	}
	return fmt.Sprintf("%s saved", name)
}

// nextView returns the well-known view after v, wrapping around.
func nextView(v entity.ViewTag) entity.ViewTag {
	views := entity.KnownViews()
	return views[(slices.Index(views, v)+1)%len(views)]
}

// footerHeight is the number of lines below the pane area.
func (m PreviewModel) footerHeight() int {
	if m.showHelp {
		return 1 + lipgloss.Height(m.help.View(m.keys))
	}
	return 1
}

// area is the screen region handed to the layout.
func (m PreviewModel) area() entity.Rect {
	return entity.NewRect(0, 0, m.width, max(m.height-m.footerHeight(), 0))
}

// View implements tea.Model.
func (m PreviewModel) View() string {
	var b strings.Builder
	b.WriteString(m.drawPanes().render())
	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar())
	if m.showHelp {
		b.WriteByte('\n')
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m PreviewModel) drawPanes() *canvas {
	area := m.area()
	c := newCanvas(area.W, area.H)
	sm := m.screen.Screen()
	fullScreen := sm.FullScreen()
	captured := sm.InputCaptured()

	for _, p := range m.screen.Layout(area) {
		label := paneLabel(p)
		if p.Focused && captured && p.View.IsTerminal() && m.lastKey != "" {
			label += " " + m.lastKey
		}
		c.box(p.Rect, label, m.theme.PaneBorder(p.Focused, fullScreen, captured))
	}
	return c
}

func (m PreviewModel) renderStatusBar() string {
	sm := m.screen.Screen()
	active := sm.ActiveProfile()

	parts := []string{m.theme.ProfileBadge(active, m.screen.Dirty(active))}
	if sm.FullScreen() {
		parts = append(parts, m.theme.AccentBadge(styles.IconFullScreen+" full-screen"))
	}
	if sm.InputCaptured() {
		parts = append(parts, m.theme.AccentBadge(styles.IconTerminal+" input captured, esc to release"))
	}
	focused := m.screen.FocusedPane()
	parts = append(parts, m.theme.Subtle.Render(fmt.Sprintf("%s #%d", focused.View, focused.ID)))
	if m.status != "" {
		parts = append(parts, m.theme.WarningStyle.Render(m.status))
	}
	parts = append(parts, m.theme.MutedBadge("close: "+string(sm.CloseStrategy())))

	return m.theme.StatusBar.Width(m.width).MaxHeight(1).Render(strings.Join(parts, " "))
}
