package pane

import (
	"sort"

	"github.com/bnema/dumbtile/internal/domain/entity"
)

// FocusUp moves focus to the nearest pane above the focused one.
func (m *Manager) FocusUp() { m.Navigate(entity.DirUp) }

// FocusDown moves focus to the nearest pane below the focused one.
func (m *Manager) FocusDown() { m.Navigate(entity.DirDown) }

// FocusLeft moves focus to the nearest pane left of the focused one.
func (m *Manager) FocusLeft() { m.Navigate(entity.DirLeft) }

// FocusRight moves focus to the nearest pane right of the focused one.
func (m *Manager) FocusRight() { m.Navigate(entity.DirRight) }

// Navigate moves focus one step in dir using the geometry of the last-known
// viewport. Returns false, leaving focus unchanged, when no pane lies in
// that direction.
//
// Algorithm:
//  1. Flatten the tree under the viewport
//  2. Keep candidates whose centre is strictly in the direction
//  3. Rank by distance along the direction axis, then Euclidean centre
//     distance, then traversal order
func (m *Manager) Navigate(dir entity.Direction) bool {
	entries := m.GetFlattenedLayout(m.viewport)
	var from entity.Rect
	for _, e := range entries {
		if e.Focused {
			from = e.Rect
			break
		}
	}
	target, ok := pickInDirection(m.focused, from, entries, dir)
	if !ok {
		return false
	}
	m.focused = target
	return true
}

// navCandidate represents a pane candidate for navigation with its ranking keys.
type navCandidate struct {
	paneID  entity.PaneID
	primary int
	euclid  int
	order   int
}

func pickInDirection(
	fromID entity.PaneID,
	from entity.Rect,
	entries []entity.PaneFlattened,
	dir entity.Direction,
) (entity.PaneID, bool) {
	fcx, fcy := from.Center2()
	var candidates []navCandidate

	for i, e := range entries {
		if e.ID == fromID {
			continue
		}
		cx, cy := e.Rect.Center2()
		dx := cx - fcx
		dy := cy - fcy

		inDirection, primary := evalDirection(dx, dy, dir)
		if !inDirection {
			continue
		}
		candidates = append(candidates, navCandidate{
			paneID:  e.ID,
			primary: primary,
			euclid:  dx*dx + dy*dy,
			order:   i,
		})
	}

	if len(candidates) == 0 {
		return 0, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.primary != b.primary {
			return a.primary < b.primary
		}
		if a.euclid != b.euclid {
			return a.euclid < b.euclid
		}
		return a.order < b.order
	})
	return candidates[0].paneID, true
}

// evalDirection reports whether a candidate whose centre is offset by
// (dx, dy) from the focused centre lies strictly in dir, and its distance
// along the direction axis.
func evalDirection(dx, dy int, dir entity.Direction) (bool, int) {
	switch dir {
	case entity.DirLeft:
		return dx < 0, -dx
	case entity.DirRight:
		return dx > 0, dx
	case entity.DirUp:
		return dy < 0, -dy
	case entity.DirDown:
		return dy > 0, dy
	default:
		return false, 0
	}
}

// PaneAt returns the pane covering cell (x, y) of the viewport.
func (m *Manager) PaneAt(x, y int) (entity.PaneID, bool) {
	for _, e := range m.GetFlattenedLayout(m.viewport) {
		if e.Rect.Contains(x, y) {
			return e.ID, true
		}
	}
	return 0, false
}
