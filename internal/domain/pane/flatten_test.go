package pane_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/pane"
)

// assertTiles checks that entries cover area exactly: every rect lies inside
// area, no two rects overlap, and the areas sum to the whole.
func assertTiles(t *testing.T, area entity.Rect, entries []entity.PaneFlattened) {
	t.Helper()
	total := 0
	for i, a := range entries {
		assert.GreaterOrEqual(t, a.Rect.X, area.X, "entry %d", i)
		assert.GreaterOrEqual(t, a.Rect.Y, area.Y, "entry %d", i)
		assert.LessOrEqual(t, a.Rect.X+a.Rect.W, area.X+area.W, "entry %d", i)
		assert.LessOrEqual(t, a.Rect.Y+a.Rect.H, area.Y+area.H, "entry %d", i)
		assert.GreaterOrEqual(t, a.Rect.W, 0)
		assert.GreaterOrEqual(t, a.Rect.H, 0)
		total += a.Rect.Area()
		for j := i + 1; j < len(entries); j++ {
			assert.False(t, a.Rect.Intersects(entries[j].Rect), "entries %d and %d overlap", i, j)
		}
	}
	assert.Equal(t, area.Area(), total)
}

func assertOneFocused(t *testing.T, entries []entity.PaneFlattened) {
	t.Helper()
	focused := 0
	for _, e := range entries {
		if e.Focused {
			focused++
		}
	}
	assert.Equal(t, 1, focused)
}

// grow splits panes round-robin with varying directions and ratios.
func grow(t *testing.T, m *pane.Manager, steps int) {
	t.Helper()
	ratios := []entity.Ratio{entity.EvenRatio, {First: 1, Second: 2}, {First: 5, Second: 3}, {First: 1, Second: 7}}
	for i := 0; i < steps; i++ {
		panes := m.Panes()
		target := panes[i%len(panes)].ID
		dir := entity.SplitHorizontal
		if i%3 == 1 {
			dir = entity.SplitVertical
		}
		_, err := m.Split(target, dir, ratios[i%len(ratios)])
		require.NoError(t, err)
	}
}

func TestGetFlattenedLayout_Scenario80x24(t *testing.T) {
	m := pane.DefaultSmallScreen()
	area := entity.NewRect(0, 0, 80, 24)

	newID, err := m.Split(0, entity.SplitHorizontal, entity.EvenRatio)
	require.NoError(t, err)
	assert.Equal(t, entity.PaneID(1), newID)

	entries := m.GetFlattenedLayout(area)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.PaneID(0), entries[0].ID)
	assert.Equal(t, entity.PaneID(1), entries[1].ID)
	assert.Equal(t, entity.NewRect(0, 0, 40, 24), entries[0].Rect)
	assert.Equal(t, entity.NewRect(40, 0, 40, 24), entries[1].Rect)
	assertTiles(t, area, entries)

	require.NoError(t, m.Merge(0, 1))

	entries = m.GetFlattenedLayout(area)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.PaneFlattened{ID: 0, View: entity.ViewTerminal, Rect: area, Focused: true}, entries[0])
}

func TestGetFlattenedLayout_RemainderGoesToSecondChild(t *testing.T) {
	tests := []struct {
		name       string
		dir        entity.SplitDirection
		ratio      entity.Ratio
		area       entity.Rect
		wantFirst  entity.Rect
		wantSecond entity.Rect
	}{
		{
			name:       "odd width even ratio",
			dir:        entity.SplitHorizontal,
			ratio:      entity.EvenRatio,
			area:       entity.NewRect(0, 0, 81, 24),
			wantFirst:  entity.NewRect(0, 0, 40, 24),
			wantSecond: entity.NewRect(40, 0, 41, 24),
		},
		{
			name:       "vertical one third",
			dir:        entity.SplitVertical,
			ratio:      entity.Ratio{First: 1, Second: 2},
			area:       entity.NewRect(5, 3, 10, 10),
			wantFirst:  entity.NewRect(5, 3, 10, 3),
			wantSecond: entity.NewRect(5, 6, 10, 7),
		},
		{
			name:       "degenerate area",
			dir:        entity.SplitHorizontal,
			ratio:      entity.Ratio{First: 3, Second: 1},
			area:       entity.NewRect(0, 0, 1, 1),
			wantFirst:  entity.NewRect(0, 0, 0, 1),
			wantSecond: entity.NewRect(0, 0, 1, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pane.MustFromLayout(entity.Leaf(entity.ViewCode))
			_, err := m.Split(0, tt.dir, tt.ratio)
			require.NoError(t, err)

			entries := m.GetFlattenedLayout(tt.area)

			require.Len(t, entries, 2)
			assert.Equal(t, tt.wantFirst, entries[0].Rect)
			assert.Equal(t, tt.wantSecond, entries[1].Rect)
		})
	}
}

func TestGetFlattenedLayout_TilesEveryViewport(t *testing.T) {
	viewports := []entity.Rect{
		entity.NewRect(0, 0, 80, 24),
		entity.NewRect(0, 0, 211, 57),
		entity.NewRect(3, 7, 33, 11),
		entity.NewRect(0, 0, 2, 2),
	}

	for steps := 0; steps < 12; steps++ {
		m := pane.DefaultLargeScreen()
		grow(t, m, steps)
		for _, vp := range viewports {
			entries := m.GetFlattenedLayout(vp)
			require.Len(t, entries, m.PaneCount())
			assertTiles(t, vp, entries)
			assertOneFocused(t, entries)
		}
	}
}

func TestGetFlattenedLayout_LargePreset(t *testing.T) {
	m := pane.DefaultLargeScreen()

	entries := m.GetFlattenedLayout(entity.NewRect(0, 0, 80, 24))

	want := []entity.PaneFlattened{
		{ID: 0, View: entity.ViewCode, Rect: entity.NewRect(0, 0, 48, 16)},
		{ID: 1, View: entity.ViewTerminal, Rect: entity.NewRect(0, 16, 48, 8), Focused: true},
		{ID: 2, View: entity.ViewTrace, Rect: entity.NewRect(48, 0, 32, 16)},
		{ID: 3, View: entity.ViewOpcode, Rect: entity.NewRect(48, 16, 16, 8)},
		{ID: 4, View: entity.ViewStack, Rect: entity.NewRect(64, 16, 16, 8)},
	}
	assert.Equal(t, want, entries)
}

func TestGetFlattenedLayout_IsPure(t *testing.T) {
	m := pane.DefaultLargeScreen()
	before := m.Clone()

	first := m.GetFlattenedLayout(entity.NewRect(0, 0, 120, 40))
	second := m.GetFlattenedLayout(entity.NewRect(0, 0, 120, 40))

	assert.Equal(t, first, second)
	assert.Equal(t, before, m)
}

func TestOneFocusedEntryAcrossEdits(t *testing.T) {
	m := pane.DefaultLargeScreen()
	area := entity.NewRect(0, 0, 100, 30)

	grow(t, m, 6)
	assertOneFocused(t, m.GetFlattenedLayout(area))

	for _, dir := range []entity.Direction{entity.DirLeft, entity.DirUp, entity.DirRight, entity.DirDown} {
		m.Navigate(dir)
		assertOneFocused(t, m.GetFlattenedLayout(area))
	}

	for m.PaneCount() > 1 {
		focused := m.FocusedID()
		if m.GetFocusedView().IsTerminal() {
			m.ForceGoto(entity.ViewMemory)
		}
		_, err := m.Remove(focused)
		require.NoError(t, err)
		assertOneFocused(t, m.GetFlattenedLayout(area))
	}
}
