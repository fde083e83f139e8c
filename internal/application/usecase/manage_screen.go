package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/pane"
	"github.com/bnema/dumbtile/internal/domain/repository"
	"github.com/bnema/dumbtile/internal/domain/screen"
	"github.com/bnema/dumbtile/internal/logging"
)

// ProfileSource is a declared profile, typically read from a layout file.
type ProfileSource struct {
	Name   string
	Root   *entity.LayoutNode
	Origin string
}

// ProfileNotFoundError reports an unknown profile name together with the
// closest registered name, if any is close enough.
type ProfileNotFoundError struct {
	Name       string
	Suggestion string
}

func (e *ProfileNotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown profile %q, did you mean %q?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown profile %q", e.Name)
}

// Unwrap lets errors.Is match entity.ErrNotFound.
func (e *ProfileNotFoundError) Unwrap() error { return entity.ErrNotFound }

// ManageScreenUseCase is the event-loop facing API over a screen.Manager.
// It is driven by a single goroutine, like the manager it wraps.
type ManageScreenUseCase struct {
	screen      *screen.Manager
	layouts     repository.LayoutRepository
	defaultView entity.ViewTag
	dirty       map[string]bool
	now         func() time.Time
}

// NewManageScreenUseCase wraps sm. layouts may be nil, in which case
// profiles are neither loaded from nor saved to storage.
func NewManageScreenUseCase(sm *screen.Manager, layouts repository.LayoutRepository) *ManageScreenUseCase {
	if sm == nil {
		sm = screen.New()
	}
	return &ManageScreenUseCase{
		screen:      sm,
		layouts:     layouts,
		defaultView: entity.ViewTerminal,
		dirty:       make(map[string]bool),
		now:         time.Now,
	}
}

// Screen exposes the wrapped manager.
func (uc *ManageScreenUseCase) Screen() *screen.Manager { return uc.screen }

// SetDefaultView sets the view shown by profiles created with NewProfile.
func (uc *ManageScreenUseCase) SetDefaultView(view entity.ViewTag) {
	if view != "" {
		uc.defaultView = view
	}
}

// SetCloseStrategy selects how Close removes panes.
func (uc *ManageScreenUseCase) SetCloseStrategy(ctx context.Context, strategy entity.CloseStrategy) {
	logging.FromContext(ctx).Debug().Str("strategy", string(strategy)).Msg("close strategy set")
	uc.screen.SetCloseStrategy(strategy)
}

func (uc *ManageScreenUseCase) logCtx(ctx context.Context) context.Context {
	return logging.WithProfile(ctx, uc.screen.ActiveProfile())
}

func (uc *ManageScreenUseCase) markDirty() {
	uc.dirty[uc.screen.ActiveProfile()] = true
}

// Navigate moves focus one step in dir. Returns false when no pane lies in
// that direction.
func (uc *ManageScreenUseCase) Navigate(ctx context.Context, dir entity.Direction) bool {
	from := uc.screen.GetFocusedPane().ID
	moved := uc.screen.Navigate(dir)
	logging.FromContext(uc.logCtx(ctx)).Debug().
		Str("direction", dir.String()).
		Int("from", int(from)).
		Int("to", int(uc.screen.GetFocusedPane().ID)).
		Bool("moved", moved).
		Msg("navigate")
	return moved
}

// Split splits the focused pane. The new pane shows the same view.
func (uc *ManageScreenUseCase) Split(ctx context.Context, dir entity.SplitDirection, ratio entity.Ratio) (entity.PaneID, error) {
	log := logging.FromContext(uc.logCtx(ctx))
	target := uc.screen.GetFocusedPane()

	id, err := uc.screen.SplitFocusedPane(dir, ratio)
	if err != nil {
		log.Warn().Err(err).Int("pane_id", int(target.ID)).Msg("split refused")
		return 0, err
	}
	uc.markDirty()
	log.Info().
		Int("pane_id", int(target.ID)).
		Int("new_pane_id", int(id)).
		Str("direction", dir.String()).
		Uint32("ratio_first", ratio.First).
		Uint32("ratio_second", ratio.Second).
		Msg("pane split")
	return id, nil
}

// Merge collapses the sibling panes a and b of the active profile into a.
func (uc *ManageScreenUseCase) Merge(ctx context.Context, a, b entity.PaneID) error {
	log := logging.FromContext(uc.logCtx(ctx))
	if err := uc.screen.Current().Merge(a, b); err != nil {
		log.Warn().Err(err).Int("pane_a", int(a)).Int("pane_b", int(b)).Msg("merge refused")
		return err
	}
	uc.markDirty()
	log.Info().Int("pane_a", int(a)).Int("pane_b", int(b)).Msg("panes merged")
	return nil
}

// MergeSibling merges the focused pane with its sibling, keeping the focused
// pane. The sibling must be a single pane.
func (uc *ManageScreenUseCase) MergeSibling(ctx context.Context) error {
	focused := uc.screen.GetFocusedPane().ID
	sib, err := uc.screen.Current().SiblingOf(focused)
	if err != nil {
		return err
	}
	if !sib.Leaf {
		return fmt.Errorf("sibling of pane %d is split: %w", focused, entity.ErrInvalidMerge)
	}
	return uc.Merge(ctx, focused, sib.PaneID)
}

// Close closes the focused pane with the configured close strategy.
func (uc *ManageScreenUseCase) Close(ctx context.Context) error {
	log := logging.FromContext(uc.logCtx(ctx))
	closing := uc.screen.GetFocusedPane()

	if err := uc.screen.CloseFocusedPane(); err != nil {
		log.Warn().Err(err).Int("pane_id", int(closing.ID)).Msg("close refused")
		return err
	}
	uc.markDirty()
	log.Info().
		Int("pane_id", int(closing.ID)).
		Int("focused", int(uc.screen.GetFocusedPane().ID)).
		Str("strategy", string(uc.screen.CloseStrategy())).
		Msg("pane closed")
	return nil
}

// PointerMove records pointer movement. Unless input is captured the pane
// under the pointer takes focus immediately; while captured the position
// stays pending until the next dispatch.
func (uc *ManageScreenUseCase) PointerMove(ctx context.Context, x, y uint16) (entity.PaneID, bool) {
	uc.screen.SetMouseMove(x, y)
	if uc.screen.InputCaptured() {
		return 0, false
	}
	return uc.DispatchPointer(ctx)
}

// DispatchPointer focuses the pane under the pending pointer, if any.
func (uc *ManageScreenUseCase) DispatchPointer(ctx context.Context) (entity.PaneID, bool) {
	before := uc.screen.GetFocusedPane().ID
	id, ok := uc.screen.DispatchPointer()
	if ok && id != before {
		logging.FromContext(uc.logCtx(ctx)).Debug().Int("pane_id", int(id)).Msg("hover focus")
	}
	return id, ok
}

// ToggleFullScreen flips full-screen mode and returns the new state.
func (uc *ManageScreenUseCase) ToggleFullScreen(ctx context.Context) bool {
	uc.screen.ToggleFullScreen()
	on := uc.screen.FullScreen()
	logging.FromContext(uc.logCtx(ctx)).Debug().Bool("full_screen", on).Msg("full-screen toggled")
	return on
}

// SwitchProfile activates name. Unknown names yield a *ProfileNotFoundError.
func (uc *ManageScreenUseCase) SwitchProfile(ctx context.Context, name string) error {
	if err := uc.screen.SetPane(name); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return &ProfileNotFoundError{
				Name:       name,
				Suggestion: closestName(entity.NormalizeProfileName(name), uc.screen.AvailableProfiles()),
			}
		}
		return err
	}
	logging.FromContext(uc.logCtx(ctx)).Info().Msg("profile switched")
	return nil
}

// CycleProfile activates the next profile in name order and returns it.
func (uc *ManageScreenUseCase) CycleProfile(ctx context.Context) string {
	names := uc.screen.AvailableProfiles()
	next := names[(slices.Index(names, uc.screen.ActiveProfile())+1)%len(names)]
	_ = uc.screen.SetPane(next)
	logging.FromContext(uc.logCtx(ctx)).Info().Msg("profile switched")
	return next
}

// closestName returns the candidate nearest to name by edit distance, or ""
// when none is within a third of the longer name (minimum two edits).
func closestName(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(2, max(len(name), len(best))/3)
	if best == "" || bestDist > limit {
		return ""
	}
	return best
}

// EnterTerminal focuses the terminal pane and captures input.
func (uc *ManageScreenUseCase) EnterTerminal(ctx context.Context) error {
	log := logging.FromContext(uc.logCtx(ctx))
	if err := uc.screen.EnterTerminal(); err != nil {
		log.Debug().Err(err).Msg("enter terminal refused")
		return err
	}
	log.Debug().Int("pane_id", int(uc.screen.GetFocusedPane().ID)).Msg("input captured by terminal")
	return nil
}

// ReleaseInput ends input capture.
func (uc *ManageScreenUseCase) ReleaseInput(ctx context.Context) {
	uc.screen.ReleaseInput()
	logging.FromContext(uc.logCtx(ctx)).Debug().Msg("input released")
}

// Resize records the terminal area used by navigation and hit-testing.
func (uc *ManageScreenUseCase) Resize(ctx context.Context, area entity.Rect) {
	uc.screen.SetViewport(area)
	logging.FromContext(ctx).Debug().Int("width", area.W).Int("height", area.H).Msg("viewport resized")
}

// SetView changes what the focused pane displays.
func (uc *ManageScreenUseCase) SetView(ctx context.Context, view entity.ViewTag) {
	uc.screen.Current().ForceGoto(view)
	uc.markDirty()
	logging.FromContext(uc.logCtx(ctx)).Info().
		Int("pane_id", int(uc.screen.GetFocusedPane().ID)).
		Str("view", string(view)).
		Msg("pane view set")
}

// Layout returns the rectangles to draw this frame.
func (uc *ManageScreenUseCase) Layout(area entity.Rect) []entity.PaneFlattened {
	return uc.screen.GetFlattenedLayout(area)
}

// FocusedView returns the view of the focused pane.
func (uc *ManageScreenUseCase) FocusedView() entity.ViewTag { return uc.screen.GetFocusedView() }

// FocusedPane returns the focused pane.
func (uc *ManageScreenUseCase) FocusedPane() entity.Pane { return uc.screen.GetFocusedPane() }

// Dirty reports whether name was edited since it was loaded or saved.
func (uc *ManageScreenUseCase) Dirty(name string) bool {
	return uc.dirty[entity.NormalizeProfileName(name)]
}

// StatusFromError turns an event error into a short transient message for
// the status line. Nil yields "".
func StatusFromError(err error) string {
	var notFound *ProfileNotFoundError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.Is(err, entity.ErrUnmergeable):
		return "cannot close the last pane"
	case errors.Is(err, entity.ErrInvalidState):
		return "not available in full-screen mode"
	case errors.Is(err, entity.ErrInvalidMerge):
		return "panes are not siblings"
	case errors.Is(err, entity.ErrInvalidOperation):
		return "not allowed: " + err.Error()
	case errors.Is(err, entity.ErrNotFound):
		return "not found: " + err.Error()
	default:
		return err.Error()
	}
}

// presetFor rebuilds a built-in profile.
func presetFor(name string) (*pane.Manager, bool) {
	root, ok := pane.PresetLayout(name)
	if !ok {
		return nil, false
	}
	return pane.MustFromLayout(root), true
}
