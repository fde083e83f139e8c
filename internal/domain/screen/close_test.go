package screen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/pane"
	"github.com/bnema/dumbtile/internal/domain/screen"
)

func paneIDs(s *screen.Manager) []entity.PaneID {
	var out []entity.PaneID
	for _, p := range s.Current().Panes() {
		out = append(out, p.ID)
	}
	return out
}

// staircase is a layout where stepping down then up from the trace pane
// lands on the code pane, whose centre is nearer than trace's.
//
//	+--------+--------+
//	|        | trace  |
//	|  code  +----+---+
//	|        | op | st|
//	+--------+----+---+
func staircase() *pane.Manager {
	return pane.MustFromLayout(entity.HSplit(entity.EvenRatio,
		entity.Leaf(entity.ViewCode),
		entity.VSplit(entity.EvenRatio,
			entity.FocusedLeaf(entity.ViewTrace),
			entity.HSplit(entity.EvenRatio,
				entity.Leaf(entity.ViewOpcode),
				entity.Leaf(entity.ViewStack),
			),
		),
	))
}

// row is terminal | code | stack side by side, code focused.
func row() *pane.Manager {
	return pane.MustFromLayout(entity.HSplit(entity.EvenRatio,
		entity.Leaf(entity.ViewTerminal),
		entity.HSplit(entity.EvenRatio,
			entity.FocusedLeaf(entity.ViewCode),
			entity.Leaf(entity.ViewStack),
		),
	))
}

func withProfile(t *testing.T, strategy entity.CloseStrategy, m *pane.Manager) *screen.Manager {
	t.Helper()
	s := screen.New()
	s.SetCloseStrategy(strategy)
	require.NoError(t, s.AddPaneManager("test", m))
	require.NoError(t, s.SetPane("test"))
	return s
}

func TestCloseFocusedPane_Refusals(t *testing.T) {
	for _, strategy := range entity.CloseStrategies() {
		t.Run(string(strategy), func(t *testing.T) {
			s := screen.New()
			s.SetCloseStrategy(strategy)
			assert.ErrorIs(t, s.CloseFocusedPane(), entity.ErrInvalidOperation, "single terminal pane")

			s.SetLargeScreen()
			before := s.Current().Layout()
			assert.ErrorIs(t, s.CloseFocusedPane(), entity.ErrInvalidOperation, "terminal with siblings")
			assert.Equal(t, before, s.Current().Layout())

			single := withProfile(t, strategy, pane.MustFromLayout(entity.Leaf(entity.ViewCode)))
			assert.ErrorIs(t, single.CloseFocusedPane(), entity.ErrUnmergeable)
			assert.Equal(t, 1, single.Current().PaneCount())
		})
	}
}

func TestCloseFocusedPane_Sibling(t *testing.T) {
	tests := []struct {
		name      string
		focus     entity.PaneID
		wantPanes []entity.PaneID
		wantPane  entity.Pane
		wantRect  entity.Rect
	}{
		{
			name:      "opcode absorbs stack",
			focus:     3,
			wantPanes: []entity.PaneID{0, 1, 2, 3},
			wantPane:  entity.Pane{ID: 3, View: entity.ViewOpcode},
			wantRect:  entity.NewRect(48, 16, 32, 8),
		},
		{
			name:      "stack absorbs opcode",
			focus:     4,
			wantPanes: []entity.PaneID{0, 1, 2, 4},
			wantPane:  entity.Pane{ID: 4, View: entity.ViewStack},
			wantRect:  entity.NewRect(48, 16, 32, 8),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := screen.New()
			s.SetLargeScreen()
			require.NoError(t, s.Current().Focus(tt.focus))

			require.NoError(t, s.CloseFocusedPane())

			assert.Equal(t, tt.wantPanes, paneIDs(s))
			assert.Equal(t, tt.wantPane, s.GetFocusedPane())
			entries := s.GetFlattenedLayout(screenArea)
			require.Len(t, entries, 4)
			assert.Equal(t, tt.wantRect, entries[3].Rect)
		})
	}
}

func TestCloseFocusedPane_SiblingRefusesSplitOrTerminal(t *testing.T) {
	tests := []struct {
		name  string
		focus entity.PaneID
	}{
		{name: "trace sibling is a split", focus: 2},
		{name: "code sibling is the terminal", focus: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := screen.New()
			s.SetLargeScreen()
			require.NoError(t, s.Current().Focus(tt.focus))
			before := s.Current().Layout()

			err := s.CloseFocusedPane()

			assert.ErrorIs(t, err, entity.ErrUnmergeable)
			assert.Equal(t, before, s.Current().Layout())
			assert.Equal(t, tt.focus, s.GetFocusedPane().ID)
		})
	}
}

func TestCloseFocusedPane_SiblingCollapsesColumn(t *testing.T) {
	s := screen.New()
	s.SetLargeScreen()
	require.NoError(t, s.Current().Focus(4))

	require.NoError(t, s.CloseFocusedPane(), "stack absorbs opcode")
	require.NoError(t, s.CloseFocusedPane(), "stack absorbs trace")

	assert.Equal(t, []entity.PaneID{0, 1, 4}, paneIDs(s))
	entries := s.GetFlattenedLayout(screenArea)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.NewRect(48, 0, 32, 24), entries[2].Rect)

	// the left column is a split, so stack has nothing left to absorb
	assert.ErrorIs(t, s.CloseFocusedPane(), entity.ErrUnmergeable)
}

func TestCloseFocusedPane_Promote(t *testing.T) {
	s := screen.New()
	s.SetCloseStrategy(entity.ClosePromote)
	s.SetLargeScreen()
	require.NoError(t, s.Current().Focus(3))

	require.NoError(t, s.CloseFocusedPane())

	assert.Equal(t, []entity.PaneID{0, 1, 2, 4}, paneIDs(s))
	assert.Equal(t, entity.PaneID(4), s.GetFocusedPane().ID)

	entries := s.GetFlattenedLayout(screenArea)
	require.Len(t, entries, 4)
	assert.Equal(t, entity.NewRect(48, 16, 32, 8), entries[3].Rect)
}

func TestCloseFocusedPane_PromoteLetsTerminalGrow(t *testing.T) {
	s := screen.New()
	s.SetCloseStrategy(entity.ClosePromote)
	s.SetLargeScreen()
	s.FocusUp()

	require.NoError(t, s.CloseFocusedPane())

	assert.Equal(t, []entity.PaneID{1, 2, 3, 4}, paneIDs(s))
	assert.Equal(t, entity.PaneID(1), s.GetFocusedPane().ID)
	entries := s.GetFlattenedLayout(screenArea)
	assert.Equal(t, entity.NewRect(0, 0, 48, 24), entries[0].Rect)
}

func TestCloseFocusedPane_PromoteHandlesStaircase(t *testing.T) {
	s := withProfile(t, entity.ClosePromote, staircase())

	require.NoError(t, s.CloseFocusedPane())

	assert.Equal(t, []entity.PaneID{0, 2, 3}, paneIDs(s))
	// opcode's centre is the nearest one left of trace's
	assert.Equal(t, entity.PaneID(2), s.GetFocusedPane().ID)
}

func TestCloseFocusedPane_PromoteUntilTerminal(t *testing.T) {
	s := screen.New()
	s.SetCloseStrategy(entity.ClosePromote)
	s.SetLargeScreen()

	for _, id := range []entity.PaneID{4, 3, 2, 0} {
		require.NoError(t, s.Current().Focus(id))
		require.NoError(t, s.CloseFocusedPane(), "closing %d", id)
	}

	assert.Equal(t, []entity.PaneID{1}, paneIDs(s))
	assert.ErrorIs(t, s.CloseFocusedPane(), entity.ErrInvalidOperation)
	entries := s.GetFlattenedLayout(screenArea)
	require.Len(t, entries, 1)
	assert.Equal(t, screenArea, entries[0].Rect)
}

func TestCloseFocusedPane_Probe(t *testing.T) {
	s := withProfile(t, entity.CloseProbe, row())

	// left lands on the terminal, which is not a sibling; right lands on the
	// stack pane, which is
	require.NoError(t, s.CloseFocusedPane())

	assert.Equal(t, []entity.PaneID{0, 1}, paneIDs(s))
	assert.Equal(t, entity.Pane{ID: 1, View: entity.ViewCode}, s.GetFocusedPane())
	entries := s.GetFlattenedLayout(screenArea)
	assert.Equal(t, entity.NewRect(40, 0, 40, 24), entries[1].Rect)
}

func TestCloseFocusedPane_ProbeNeverDiscardsTerminal(t *testing.T) {
	s := withProfile(t, entity.CloseProbe, pane.MustFromLayout(entity.HSplit(entity.EvenRatio,
		entity.FocusedLeaf(entity.ViewCode),
		entity.Leaf(entity.ViewTerminal),
	)))
	before := s.Current().Layout()

	err := s.CloseFocusedPane()

	assert.ErrorIs(t, err, entity.ErrUnmergeable)
	assert.Equal(t, before, s.Current().Layout())
	assert.Equal(t, entity.PaneID(0), s.GetFocusedPane().ID)
}

func TestCloseFocusedPane_ProbeExhaustsDirections(t *testing.T) {
	s := withProfile(t, entity.CloseProbe, pane.DefaultLargeScreen())
	require.NoError(t, s.Current().Focus(3))
	before := s.Current().Layout()

	// every neighbour reached from opcode is a stranger; stack is never the
	// nearest centre
	err := s.CloseFocusedPane()

	assert.ErrorIs(t, err, entity.ErrUnmergeable)
	assert.Equal(t, before, s.Current().Layout())
	assert.Equal(t, entity.PaneID(3), s.GetFocusedPane().ID)
}

func TestCloseFocusedPane_ProbePanicsWhenStepsDoNotInvert(t *testing.T) {
	tests := []struct {
		name string
		m    func() *pane.Manager
	}{
		{name: "staircase", m: staircase},
		{
			// right from code reaches opcode; left from opcode reaches terminal
			name: "large preset code",
			m: func() *pane.Manager {
				m := pane.DefaultLargeScreen()
				_ = m.Focus(0)
				return m
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := withProfile(t, entity.CloseProbe, tt.m())
			assert.Panics(t, func() {
				_ = s.CloseFocusedPane()
			})
		})
	}
}
