package pane_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/pane"
)

func TestFromLayout_RoundTrip(t *testing.T) {
	layouts := map[string]*entity.LayoutNode{
		"small": pane.SmallScreenLayout(),
		"large": pane.LargeScreenLayout(),
		"nested": entity.VSplit(entity.Ratio{First: 1, Second: 4},
			entity.Leaf(entity.ViewMemory),
			entity.HSplit(entity.Ratio{First: 9, Second: 2},
				entity.VSplit(entity.EvenRatio,
					entity.Leaf(entity.ViewVariable),
					entity.FocusedLeaf(entity.ViewExpression),
				),
				entity.Leaf(entity.ViewReturndata),
			),
		),
	}

	for name, layout := range layouts {
		t.Run(name, func(t *testing.T) {
			m, err := pane.FromLayout(layout)
			require.NoError(t, err)

			assert.Equal(t, layout, m.Layout())

			again, err := pane.FromLayout(m.Layout())
			require.NoError(t, err)
			assert.Equal(t, m.Panes(), again.Panes())
			assert.Equal(t, m.FocusedID(), again.FocusedID())
		})
	}
}

func TestFromLayout_AssignsIDsDepthFirst(t *testing.T) {
	m, err := pane.FromLayout(entity.HSplit(entity.EvenRatio,
		entity.VSplit(entity.EvenRatio, entity.Leaf(entity.ViewCode), entity.Leaf(entity.ViewTrace)),
		entity.Leaf(entity.ViewStack),
	))
	require.NoError(t, err)

	panes := m.Panes()
	require.Len(t, panes, 3)
	assert.Equal(t, entity.Pane{ID: 0, View: entity.ViewCode}, panes[0])
	assert.Equal(t, entity.Pane{ID: 1, View: entity.ViewTrace}, panes[1])
	assert.Equal(t, entity.Pane{ID: 2, View: entity.ViewStack}, panes[2])
	assert.Equal(t, entity.PaneID(0), m.FocusedID(), "first pane is focused when none is marked")

	newID, err := m.Split(2, entity.SplitVertical, entity.EvenRatio)
	require.NoError(t, err)
	assert.Equal(t, entity.PaneID(3), newID)
}

func TestFromLayout_RejectsInvalidTrees(t *testing.T) {
	tests := []struct {
		name   string
		layout *entity.LayoutNode
	}{
		{name: "nil", layout: nil},
		{name: "leaf without view", layout: &entity.LayoutNode{}},
		{
			name:   "zero ratio",
			layout: entity.HSplit(entity.Ratio{First: 0, Second: 1}, entity.Leaf(entity.ViewCode), entity.Leaf(entity.ViewStack)),
		},
		{
			name:   "missing child",
			layout: entity.VSplit(entity.EvenRatio, entity.Leaf(entity.ViewCode), nil),
		},
		{
			name: "two focused leaves",
			layout: entity.HSplit(entity.EvenRatio,
				entity.FocusedLeaf(entity.ViewCode),
				entity.FocusedLeaf(entity.ViewStack),
			),
		},
		{
			name: "unknown direction",
			layout: &entity.LayoutNode{Split: &entity.LayoutSplit{
				Direction: entity.SplitDirection(7),
				Ratio:     entity.EvenRatio,
				First:     entity.Leaf(entity.ViewCode),
				Second:    entity.Leaf(entity.ViewStack),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := pane.FromLayout(tt.layout)

			assert.Nil(t, m)
			assert.ErrorIs(t, err, entity.ErrInvalidOperation)
		})
	}
}

func TestMustFromLayout_PanicsOnInvalidTree(t *testing.T) {
	assert.Panics(t, func() {
		pane.MustFromLayout(&entity.LayoutNode{})
	})
}

func TestLayout_TracksFocusAfterEdits(t *testing.T) {
	m := pane.DefaultSmallScreen()

	newID, err := m.Split(0, entity.SplitHorizontal, entity.Ratio{First: 2, Second: 3})
	require.NoError(t, err)
	require.NoError(t, m.Focus(newID))
	m.ForceGoto(entity.ViewCode)

	want := entity.HSplit(entity.Ratio{First: 2, Second: 3},
		entity.Leaf(entity.ViewTerminal),
		entity.FocusedLeaf(entity.ViewCode),
	)
	assert.Equal(t, want, m.Layout())
	assert.Equal(t, 2, m.Layout().LeafCount())
}
