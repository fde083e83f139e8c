// Package pane implements the pane tree of one layout profile: split, merge,
// removal, directional focus navigation and flattening into rectangles.
//
// The tree is stored as an arena of nodes addressed by index. Every node
// records its parent, so sibling lookups and restructuring never need to walk
// from the root. A Manager is not safe for concurrent use; the event loop owns
// it exclusively.
package pane

import (
	"fmt"
	"maps"
	"slices"

	"github.com/bnema/dumbtile/internal/domain/entity"
)

// DefaultViewport is used for navigation until the first resize is reported.
var DefaultViewport = entity.NewRect(0, 0, 80, 24)

const noNode = -1

type nodeKind uint8

const (
	kindFree nodeKind = iota
	kindLeaf
	kindSplit
)

type node struct {
	kind   nodeKind
	pane   entity.Pane // kindLeaf
	dir    entity.SplitDirection
	ratio  entity.Ratio
	parent int
	first  int // kindSplit
	second int // kindSplit
}

// Manager owns one pane tree and its focus pointer.
type Manager struct {
	nodes    []node
	free     []int
	root     int
	leaves   map[entity.PaneID]int
	focused  entity.PaneID
	nextID   entity.PaneID
	viewport entity.Rect
}

// Sibling describes the other child of a leaf's parent split.
type Sibling struct {
	// Leaf is true when the sibling is a single pane.
	Leaf bool
	// PaneID is the sibling pane when Leaf is true.
	PaneID entity.PaneID
	// Panes lists every pane of the sibling subtree in traversal order.
	Panes []entity.PaneID
}

func newManager() *Manager {
	return &Manager{
		root:     noNode,
		leaves:   make(map[entity.PaneID]int),
		viewport: DefaultViewport,
	}
}

func (m *Manager) alloc(n node) int {
	if len(m.free) > 0 {
		idx := m.free[len(m.free)-1]
		m.free = m.free[:len(m.free)-1]
		m.nodes[idx] = n
		return idx
	}
	m.nodes = append(m.nodes, n)
	return len(m.nodes) - 1
}

func (m *Manager) release(idx int) {
	m.nodes[idx] = node{kind: kindFree, parent: noNode, first: noNode, second: noNode}
	m.free = append(m.free, idx)
}

func (m *Manager) lookup(id entity.PaneID) (int, error) {
	idx, ok := m.leaves[id]
	if !ok {
		return noNode, fmt.Errorf("pane %d: %w", id, entity.ErrNotFound)
	}
	return idx, nil
}

// replaceChild points parent's reference to oldChild at newChild, or makes
// newChild the root when parent is noNode.
func (m *Manager) replaceChild(parent, oldChild, newChild int) {
	m.nodes[newChild].parent = parent
	if parent == noNode {
		m.root = newChild
		return
	}
	if m.nodes[parent].first == oldChild {
		m.nodes[parent].first = newChild
	} else {
		m.nodes[parent].second = newChild
	}
}

// Split replaces leaf id with a split along dir. The first child keeps the
// leaf's identity and view; the second child is a new pane showing the same
// view. Focus does not move. Returns the new pane's id.
func (m *Manager) Split(id entity.PaneID, dir entity.SplitDirection, ratio entity.Ratio) (entity.PaneID, error) {
	idx, err := m.lookup(id)
	if err != nil {
		return 0, err
	}
	if !ratio.Valid() {
		return 0, fmt.Errorf("split ratio %d:%d: %w", ratio.First, ratio.Second, entity.ErrInvalidOperation)
	}
	if dir != entity.SplitHorizontal && dir != entity.SplitVertical {
		return 0, fmt.Errorf("split direction %d: %w", int(dir), entity.ErrInvalidOperation)
	}

	original := m.nodes[idx]
	newID := m.nextID
	m.nextID++

	first := m.alloc(node{kind: kindLeaf, pane: original.pane, parent: idx, first: noNode, second: noNode})
	second := m.alloc(node{
		kind:   kindLeaf,
		pane:   *entity.NewPane(newID, original.pane.View),
		parent: idx,
		first:  noNode,
		second: noNode,
	})
	m.nodes[idx] = node{
		kind:   kindSplit,
		dir:    dir,
		ratio:  ratio,
		parent: original.parent,
		first:  first,
		second: second,
	}
	m.leaves[id] = first
	m.leaves[newID] = second

	return newID, nil
}

// Merge collapses the split holding a and b into a single pane that keeps
// a's identity and view. a and b must be the two children of the same split.
// A terminal pane is never discarded unless a shows the terminal too.
// On failure the tree is left untouched.
func (m *Manager) Merge(a, b entity.PaneID) error {
	ia, err := m.lookup(a)
	if err != nil {
		return err
	}
	ib, err := m.lookup(b)
	if err != nil {
		return err
	}
	parent := m.nodes[ia].parent
	if a == b || parent == noNode || parent != m.nodes[ib].parent {
		return fmt.Errorf("merge %d with %d: %w", a, b, entity.ErrInvalidMerge)
	}
	if m.nodes[ib].pane.View.IsTerminal() && !m.nodes[ia].pane.View.IsTerminal() {
		return fmt.Errorf("merge %d would discard terminal pane %d: %w", a, b, entity.ErrInvalidOperation)
	}

	kept := m.nodes[ia].pane
	m.nodes[parent] = node{
		kind:   kindLeaf,
		pane:   kept,
		parent: m.nodes[parent].parent,
		first:  noNode,
		second: noNode,
	}
	m.release(ia)
	m.release(ib)
	delete(m.leaves, b)
	m.leaves[a] = parent

	if m.focused == b {
		m.focused = a
	}
	return nil
}

// SiblingOf returns the other child of the leaf's parent split.
// The root leaf has no sibling and reports ErrUnmergeable.
func (m *Manager) SiblingOf(id entity.PaneID) (Sibling, error) {
	idx, err := m.lookup(id)
	if err != nil {
		return Sibling{}, err
	}
	sib := m.siblingIndex(idx)
	if sib == noNode {
		return Sibling{}, fmt.Errorf("pane %d has no sibling: %w", id, entity.ErrUnmergeable)
	}
	out := Sibling{Panes: m.subtreePanes(sib)}
	if m.nodes[sib].kind == kindLeaf {
		out.Leaf = true
		out.PaneID = m.nodes[sib].pane.ID
	}
	return out, nil
}

func (m *Manager) siblingIndex(idx int) int {
	parent := m.nodes[idx].parent
	if parent == noNode {
		return noNode
	}
	if m.nodes[parent].first == idx {
		return m.nodes[parent].second
	}
	return m.nodes[parent].first
}

// Remove deletes leaf id and promotes its sibling subtree into the parent's
// slot. Terminal panes and the last remaining pane cannot be removed.
// When the removed pane had focus, focus moves to the sibling-subtree pane
// reached first by probing left, right, up, then down from the removed
// pane's rectangle, or to the subtree's first pane when no probe lands in it.
// Returns the focused pane after removal.
func (m *Manager) Remove(id entity.PaneID) (entity.PaneID, error) {
	idx, err := m.lookup(id)
	if err != nil {
		return 0, err
	}
	if m.nodes[idx].pane.View.IsTerminal() {
		return 0, fmt.Errorf("remove terminal pane %d: %w", id, entity.ErrInvalidOperation)
	}
	parent := m.nodes[idx].parent
	if parent == noNode {
		return 0, fmt.Errorf("remove pane %d: %w", id, entity.ErrUnmergeable)
	}
	sib := m.siblingIndex(idx)

	if m.focused == id {
		m.focused = m.heirOf(id, m.subtreePanes(sib))
	}

	m.replaceChild(m.nodes[parent].parent, parent, sib)
	m.release(parent)
	m.release(idx)
	delete(m.leaves, id)

	return m.focused, nil
}

// heirOf picks the pane inheriting focus from id among heirs.
func (m *Manager) heirOf(id entity.PaneID, heirs []entity.PaneID) entity.PaneID {
	entries := m.GetFlattenedLayout(m.viewport)
	var from entity.Rect
	for _, e := range entries {
		if e.ID == id {
			from = e.Rect
			break
		}
	}
	for _, dir := range entity.ProbeOrder {
		target, ok := pickInDirection(id, from, entries, dir)
		if ok && slices.Contains(heirs, target) {
			return target
		}
	}
	return heirs[0]
}

func (m *Manager) subtreePanes(idx int) []entity.PaneID {
	var out []entity.PaneID
	m.walk(idx, func(n *node) {
		out = append(out, n.pane.ID)
	})
	return out
}

// walk visits the leaves under idx depth-first, first child first.
func (m *Manager) walk(idx int, fn func(*node)) {
	if idx == noNode {
		return
	}
	n := &m.nodes[idx]
	if n.kind == kindLeaf {
		fn(n)
		return
	}
	first, second := n.first, n.second
	m.walk(first, fn)
	m.walk(second, fn)
}

// Focus moves focus to pane id.
func (m *Manager) Focus(id entity.PaneID) error {
	if _, err := m.lookup(id); err != nil {
		return err
	}
	m.focused = id
	return nil
}

// FocusedID returns the focused pane's id.
func (m *Manager) FocusedID() entity.PaneID {
	return m.focused
}

// GetFocusedPane returns a copy of the focused pane.
func (m *Manager) GetFocusedPane() entity.Pane {
	return m.nodes[m.leaves[m.focused]].pane
}

// GetFocusedView returns the view shown by the focused pane.
func (m *Manager) GetFocusedView() entity.ViewTag {
	return m.GetFocusedPane().View
}

// Pane returns a copy of pane id.
func (m *Manager) Pane(id entity.PaneID) (entity.Pane, error) {
	idx, err := m.lookup(id)
	if err != nil {
		return entity.Pane{}, err
	}
	return m.nodes[idx].pane, nil
}

// SetView overwrites the view of pane id.
func (m *Manager) SetView(id entity.PaneID, view entity.ViewTag) error {
	idx, err := m.lookup(id)
	if err != nil {
		return err
	}
	m.nodes[idx].pane.SetView(view)
	return nil
}

// ForceGoto sets the focused pane's view.
func (m *Manager) ForceGoto(view entity.ViewTag) {
	m.nodes[m.leaves[m.focused]].pane.SetView(view)
}

// ForceGotoByView focuses the first pane already showing view, or falls back
// to ForceGoto when no pane shows it.
func (m *Manager) ForceGotoByView(view entity.ViewTag) {
	found := false
	m.walk(m.root, func(n *node) {
		if !found && n.pane.View == view {
			m.focused = n.pane.ID
			found = true
		}
	})
	if !found {
		m.ForceGoto(view)
	}
}

// Panes returns copies of all panes in traversal order.
func (m *Manager) Panes() []entity.Pane {
	panes := make([]entity.Pane, 0, len(m.leaves))
	m.walk(m.root, func(n *node) {
		panes = append(panes, n.pane)
	})
	return panes
}

// PaneCount returns the number of panes.
func (m *Manager) PaneCount() int {
	return len(m.leaves)
}

// SetViewport records the area navigation is computed against.
func (m *Manager) SetViewport(area entity.Rect) {
	m.viewport = area
}

// Viewport returns the last-known viewport.
func (m *Manager) Viewport() entity.Rect {
	return m.viewport
}

// Clone returns an independent deep copy.
func (m *Manager) Clone() *Manager {
	return &Manager{
		nodes:    slices.Clone(m.nodes),
		free:     slices.Clone(m.free),
		root:     m.root,
		leaves:   maps.Clone(m.leaves),
		focused:  m.focused,
		nextID:   m.nextID,
		viewport: m.viewport,
	}
}
