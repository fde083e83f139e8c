package pane

import (
	"fmt"

	"github.com/bnema/dumbtile/internal/domain/entity"
)

// FromLayout builds a manager from a declarative tree. Pane ids are assigned
// depth-first, first child first, starting at zero. The leaf marked Focused
// receives focus, otherwise the first pane does.
func FromLayout(root *entity.LayoutNode) (*Manager, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}
	m := newManager()
	focus := entity.PaneID(-1)
	m.root = m.build(root, noNode, &focus)
	if focus < 0 {
		focus = m.nodes[m.firstLeaf(m.root)].pane.ID
	}
	m.focused = focus
	return m, nil
}

// MustFromLayout is FromLayout for static literals; it panics on an invalid tree.
func MustFromLayout(root *entity.LayoutNode) *Manager {
	m, err := FromLayout(root)
	if err != nil {
		panic(fmt.Sprintf("pane: invalid static layout: %v", err))
	}
	return m
}

func (m *Manager) build(n *entity.LayoutNode, parent int, focus *entity.PaneID) int {
	if n.IsLeaf() {
		id := m.nextID
		m.nextID++
		idx := m.alloc(node{
			kind:   kindLeaf,
			pane:   *entity.NewPane(id, n.View),
			parent: parent,
			first:  noNode,
			second: noNode,
		})
		m.leaves[id] = idx
		if n.Focused {
			*focus = id
		}
		return idx
	}

	idx := m.alloc(node{kind: kindSplit, dir: n.Split.Direction, ratio: n.Split.Ratio, parent: parent})
	first := m.build(n.Split.First, idx, focus)
	second := m.build(n.Split.Second, idx, focus)
	m.nodes[idx].first = first
	m.nodes[idx].second = second
	return idx
}

func (m *Manager) firstLeaf(idx int) int {
	for m.nodes[idx].kind == kindSplit {
		idx = m.nodes[idx].first
	}
	return idx
}

// Layout exports the tree as a declarative literal. Building the result with
// FromLayout yields the same structure, views and focused position.
func (m *Manager) Layout() *entity.LayoutNode {
	return m.export(m.root)
}

func (m *Manager) export(idx int) *entity.LayoutNode {
	n := m.nodes[idx]
	if n.kind == kindLeaf {
		return &entity.LayoutNode{View: n.pane.View, Focused: n.pane.ID == m.focused}
	}
	return &entity.LayoutNode{Split: &entity.LayoutSplit{
		Direction: n.dir,
		Ratio:     n.ratio,
		First:     m.export(n.first),
		Second:    m.export(n.second),
	}}
}
