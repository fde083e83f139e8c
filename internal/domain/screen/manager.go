// Package screen holds the named pane profiles of one session together with
// the mode flags that sit above any single tree: full-screen, input capture
// and buffered pointer movement.
package screen

import (
	"fmt"
	"maps"
	"slices"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/pane"
)

// Manager owns every profile and the active profile name.
// Like pane.Manager it is driven by a single event loop and holds no locks.
type Manager struct {
	profiles       map[string]*pane.Manager
	active         string
	fullScreen     bool
	inputCapture   bool
	pendingPointer *entity.Point
	closeStrategy  entity.CloseStrategy
	viewport       entity.Rect
}

// New returns a manager with the small and large presets registered and the
// small one active.
func New() *Manager {
	s := &Manager{
		profiles:      make(map[string]*pane.Manager),
		closeStrategy: entity.DefaultCloseStrategy,
		viewport:      pane.DefaultViewport,
	}
	s.profiles[entity.ProfileSmall] = pane.DefaultSmallScreen()
	s.profiles[entity.ProfileLarge] = pane.DefaultLargeScreen()
	s.active = entity.ProfileSmall
	return s
}

// AddPaneManager registers m under name, replacing any profile of the same
// name. The profile adopts the current viewport.
func (s *Manager) AddPaneManager(name string, m *pane.Manager) error {
	name = entity.NormalizeProfileName(name)
	if name == "" {
		return fmt.Errorf("%w: empty profile name", entity.ErrInvalidOperation)
	}
	if m == nil {
		return fmt.Errorf("%w: profile %q has no panes", entity.ErrInvalidOperation, name)
	}
	m.SetViewport(s.viewport)
	s.profiles[name] = m
	return nil
}

// RemovePaneManager unregisters a user profile. Presets and the active
// profile cannot be removed.
func (s *Manager) RemovePaneManager(name string) error {
	name = entity.NormalizeProfileName(name)
	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("profile %q: %w", name, entity.ErrNotFound)
	}
	if entity.IsBuiltinProfile(name) {
		return fmt.Errorf("%w: profile %q is built in", entity.ErrInvalidOperation, name)
	}
	if name == s.active {
		return fmt.Errorf("%w: profile %q is active", entity.ErrInvalidOperation, name)
	}
	delete(s.profiles, name)
	return nil
}

// SetPane activates the named profile.
func (s *Manager) SetPane(name string) error {
	name = entity.NormalizeProfileName(name)
	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("profile %q: %w", name, entity.ErrNotFound)
	}
	s.active = name
	return nil
}

// SetSmallScreen activates the small preset.
func (s *Manager) SetSmallScreen() { s.active = entity.ProfileSmall }

// SetLargeScreen activates the large preset.
func (s *Manager) SetLargeScreen() { s.active = entity.ProfileLarge }

// ActiveProfile returns the active profile name.
func (s *Manager) ActiveProfile() string { return s.active }

// AvailableProfiles returns every registered profile name, sorted.
func (s *Manager) AvailableProfiles() []string {
	return slices.Sorted(maps.Keys(s.profiles))
}

// Profile returns the named pane tree.
func (s *Manager) Profile(name string) (*pane.Manager, error) {
	m, ok := s.profiles[entity.NormalizeProfileName(name)]
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", name, entity.ErrNotFound)
	}
	return m, nil
}

// Current returns the active pane tree.
func (s *Manager) Current() *pane.Manager {
	return s.profiles[s.active]
}

// ToggleFullScreen flips full-screen mode. Entering it drops any pending
// pointer movement.
func (s *Manager) ToggleFullScreen() {
	s.fullScreen = !s.fullScreen
	if s.fullScreen {
		s.pendingPointer = nil
	}
}

// FullScreen reports whether full-screen mode is on.
func (s *Manager) FullScreen() bool { return s.fullScreen }

// CaptureInput routes keyboard input to the focused pane.
func (s *Manager) CaptureInput() { s.inputCapture = true }

// ReleaseInput returns keyboard input to the layout key bindings.
func (s *Manager) ReleaseInput() { s.inputCapture = false }

// InputCaptured reports whether the focused pane owns keyboard input.
func (s *Manager) InputCaptured() bool { return s.inputCapture }

// SetMouseMove buffers a pointer position. Ignored in full-screen mode.
func (s *Manager) SetMouseMove(x, y uint16) {
	if s.fullScreen {
		return
	}
	p := entity.NewPoint(x, y)
	s.pendingPointer = &p
}

// PendingPointer returns the buffered pointer position without consuming it.
func (s *Manager) PendingPointer() (entity.Point, bool) {
	if s.pendingPointer == nil {
		return entity.Point{}, false
	}
	return *s.pendingPointer, true
}

// TakePendingPointer returns and clears the buffered pointer position.
func (s *Manager) TakePendingPointer() (entity.Point, bool) {
	p, ok := s.PendingPointer()
	s.pendingPointer = nil
	return p, ok
}

// DispatchPointer consumes the buffered pointer position and focuses the
// pane under it. Returns the focused pane and whether focus moved.
func (s *Manager) DispatchPointer() (entity.PaneID, bool) {
	current := s.Current()
	p, ok := s.TakePendingPointer()
	if !ok {
		return current.FocusedID(), false
	}
	id, hit := current.PaneAt(int(p.X), int(p.Y))
	if !hit || id == current.FocusedID() {
		return current.FocusedID(), false
	}
	if err := current.Focus(id); err != nil {
		return current.FocusedID(), false
	}
	return id, true
}

// EnterTerminal focuses the terminal pane, retargeting the focused pane when
// none shows it, and captures input. Refused in full-screen mode.
func (s *Manager) EnterTerminal() error {
	if s.fullScreen {
		return fmt.Errorf("enter terminal in full screen mode: %w", entity.ErrInvalidState)
	}
	s.Current().ForceGotoByView(entity.ViewTerminal)
	s.inputCapture = true
	return nil
}

// GetFlattenedLayout returns the rectangles to draw. In full-screen mode the
// focused pane alone covers area.
func (s *Manager) GetFlattenedLayout(area entity.Rect) []entity.PaneFlattened {
	current := s.Current()
	if s.fullScreen {
		focused := current.GetFocusedPane()
		return []entity.PaneFlattened{{
			ID:      focused.ID,
			View:    focused.CurrentView(),
			Rect:    area,
			Focused: true,
		}}
	}
	return current.GetFlattenedLayout(area)
}

// SplitFocusedPane splits the focused pane of the active profile.
func (s *Manager) SplitFocusedPane(dir entity.SplitDirection, ratio entity.Ratio) (entity.PaneID, error) {
	current := s.Current()
	return current.Split(current.FocusedID(), dir, ratio)
}

// FocusUp moves focus up in the active profile.
func (s *Manager) FocusUp() { s.Current().FocusUp() }

// FocusDown moves focus down in the active profile.
func (s *Manager) FocusDown() { s.Current().FocusDown() }

// FocusLeft moves focus left in the active profile.
func (s *Manager) FocusLeft() { s.Current().FocusLeft() }

// FocusRight moves focus right in the active profile.
func (s *Manager) FocusRight() { s.Current().FocusRight() }

// Navigate moves focus one step in dir. Returns false at an edge.
func (s *Manager) Navigate(dir entity.Direction) bool {
	return s.Current().Navigate(dir)
}

// GetFocusedPane returns the focused pane of the active profile.
func (s *Manager) GetFocusedPane() entity.Pane {
	return s.Current().GetFocusedPane()
}

// GetFocusedView returns the view of the focused pane.
func (s *Manager) GetFocusedView() entity.ViewTag {
	return s.Current().GetFocusedView()
}

// SetViewport records area on every profile.
func (s *Manager) SetViewport(area entity.Rect) {
	s.viewport = area
	for _, m := range s.profiles {
		m.SetViewport(area)
	}
}

// Viewport returns the last-known viewport.
func (s *Manager) Viewport() entity.Rect { return s.viewport }

// SetCloseStrategy selects the algorithm used by CloseFocusedPane.
func (s *Manager) SetCloseStrategy(strategy entity.CloseStrategy) {
	s.closeStrategy = strategy
}

// CloseStrategy returns the active close algorithm.
func (s *Manager) CloseStrategy() entity.CloseStrategy { return s.closeStrategy }
