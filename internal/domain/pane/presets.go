package pane

import "github.com/bnema/dumbtile/internal/domain/entity"

// SmallScreenLayout is a single terminal pane.
func SmallScreenLayout() *entity.LayoutNode {
	return entity.FocusedLeaf(entity.ViewTerminal)
}

// LargeScreenLayout puts source and terminal on the left, trace, opcodes and
// the stack on the right.
//
//	+--------------+---------+
//	| code         | trace   |
//	|              |         |
//	+--------------+----+----+
//	| terminal     | op | st |
//	+--------------+----+----+
func LargeScreenLayout() *entity.LayoutNode {
	return entity.HSplit(entity.Ratio{First: 3, Second: 2},
		entity.VSplit(entity.Ratio{First: 2, Second: 1},
			entity.Leaf(entity.ViewCode),
			entity.FocusedLeaf(entity.ViewTerminal),
		),
		entity.VSplit(entity.Ratio{First: 2, Second: 1},
			entity.Leaf(entity.ViewTrace),
			entity.HSplit(entity.EvenRatio,
				entity.Leaf(entity.ViewOpcode),
				entity.Leaf(entity.ViewStack),
			),
		),
	)
}

// DefaultSmallScreen returns the small terminal preset: pane 0 showing the terminal.
func DefaultSmallScreen() *Manager {
	return MustFromLayout(SmallScreenLayout())
}

// DefaultLargeScreen returns the large terminal preset.
func DefaultLargeScreen() *Manager {
	return MustFromLayout(LargeScreenLayout())
}

// PresetLayout returns the layout of a built-in profile.
func PresetLayout(name string) (*entity.LayoutNode, bool) {
	switch entity.NormalizeProfileName(name) {
	case entity.ProfileSmall:
		return SmallScreenLayout(), true
	case entity.ProfileLarge:
		return LargeScreenLayout(), true
	default:
		return nil, false
	}
}
