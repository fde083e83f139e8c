package pane

import "github.com/bnema/dumbtile/internal/domain/entity"

// GetFlattenedLayout partitions area top-down and returns one entry per pane,
// depth-first with the first child before the second. At a split the first
// child receives extent*first/(first+second) cells along the split axis and
// the second child the remainder. The call does not mutate the manager.
func (m *Manager) GetFlattenedLayout(area entity.Rect) []entity.PaneFlattened {
	out := make([]entity.PaneFlattened, 0, len(m.leaves))
	return m.flatten(m.root, area, out)
}

func (m *Manager) flatten(idx int, area entity.Rect, out []entity.PaneFlattened) []entity.PaneFlattened {
	if idx == noNode {
		return out
	}
	n := m.nodes[idx]
	if n.kind == kindLeaf {
		return append(out, entity.PaneFlattened{
			ID:      n.pane.ID,
			View:    n.pane.View,
			Rect:    area,
			Focused: n.pane.ID == m.focused,
		})
	}

	first, second := splitRect(area, n.dir, n.ratio)
	out = m.flatten(n.first, first, out)
	return m.flatten(n.second, second, out)
}

// splitRect divides area along dir in proportion to ratio.
func splitRect(area entity.Rect, dir entity.SplitDirection, ratio entity.Ratio) (entity.Rect, entity.Rect) {
	if dir == entity.SplitHorizontal {
		w := share(area.W, ratio)
		return entity.NewRect(area.X, area.Y, w, area.H),
			entity.NewRect(area.X+w, area.Y, area.W-w, area.H)
	}
	h := share(area.H, ratio)
	return entity.NewRect(area.X, area.Y, area.W, h),
		entity.NewRect(area.X, area.Y+h, area.W, area.H-h)
}

// share returns the first child's part of extent; the remainder of the
// integer division is left to the second child.
func share(extent int, ratio entity.Ratio) int {
	if extent <= 0 || ratio.Total() == 0 {
		return 0
	}
	return int(uint64(extent) * uint64(ratio.First) / ratio.Total())
}
