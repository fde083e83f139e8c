package screen

import (
	"fmt"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/pane"
)

// CloseFocusedPane closes the focused pane of the active profile using the
// configured strategy. Terminal panes are never closed. When no neighbour
// can be absorbed the call fails with ErrUnmergeable.
func (s *Manager) CloseFocusedPane() error {
	current := s.Current()
	focused := current.GetFocusedPane()
	if focused.View.IsTerminal() {
		return fmt.Errorf("close terminal pane %d: %w", focused.ID, entity.ErrInvalidOperation)
	}

	switch s.closeStrategy {
	case entity.CloseProbe:
		return closeByProbing(current, focused.ID)
	case entity.ClosePromote:
		if _, err := current.Remove(focused.ID); err != nil {
			return fmt.Errorf("close pane %d: %w", focused.ID, err)
		}
		return nil
	default:
		return closeIntoOrigin(current, focused.ID)
	}
}

// closeIntoOrigin merges origin's sibling into origin. Origin keeps its id
// and view. A split sibling or a terminal sibling cannot be absorbed.
func closeIntoOrigin(m *pane.Manager, origin entity.PaneID) error {
	sib, err := m.SiblingOf(origin)
	if err != nil {
		return fmt.Errorf("close pane %d: %w", origin, err)
	}
	if !sib.Leaf {
		return fmt.Errorf("close pane %d: sibling is split: %w", origin, entity.ErrUnmergeable)
	}
	if err := m.Merge(origin, sib.PaneID); err != nil {
		return fmt.Errorf("close pane %d into sibling %d: %v: %w", origin, sib.PaneID, err, entity.ErrUnmergeable)
	}
	return nil
}

// closeByProbing steps focus left, right, up, then down from origin and
// merges the first neighbour that turns out to be origin's sibling into it.
// Every attempt starts from origin; stepping back must land on origin
// exactly, anything else means the tree is corrupt.
func closeByProbing(m *pane.Manager, origin entity.PaneID) error {
	for _, dir := range entity.ProbeOrder {
		if !m.Navigate(dir) {
			continue
		}
		if err := m.Merge(origin, m.FocusedID()); err == nil {
			return nil
		}
		m.Navigate(dir.Opposite())
		if got := m.FocusedID(); got != origin {
			panic(fmt.Sprintf("screen: stepping %s then %s from pane %d landed on pane %d",
				dir, dir.Opposite(), origin, got))
		}
	}

	if err := m.Focus(origin); err != nil {
		return err
	}
	return fmt.Errorf("close pane %d: %w", origin, entity.ErrUnmergeable)
}
