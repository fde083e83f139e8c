package entity

import (
	"fmt"
	"strings"
)

// LayoutNode is a declarative, serialisable pane tree.
// Presets, layout files and persisted profiles are all LayoutNode trees.
// A node is either a leaf (Split == nil) or a split with two children.
type LayoutNode struct {
	View    ViewTag      `json:"view,omitempty" yaml:"view,omitempty" cbor:"1,keyasint,omitempty"`
	Focused bool         `json:"focused,omitempty" yaml:"focused,omitempty" cbor:"2,keyasint,omitempty"`
	Split   *LayoutSplit `json:"split,omitempty" yaml:"split,omitempty" cbor:"3,keyasint,omitempty"`
}

// LayoutSplit holds the split half of a LayoutNode.
type LayoutSplit struct {
	Direction SplitDirection `json:"direction" yaml:"direction" cbor:"1,keyasint"`
	Ratio     Ratio          `json:"ratio" yaml:"ratio" cbor:"2,keyasint"`
	First     *LayoutNode    `json:"first" yaml:"first" cbor:"3,keyasint"`
	Second    *LayoutNode    `json:"second" yaml:"second" cbor:"4,keyasint"`
}

// Leaf declares a pane showing view.
func Leaf(view ViewTag) *LayoutNode {
	return &LayoutNode{View: view}
}

// FocusedLeaf declares a pane showing view that receives the initial focus.
func FocusedLeaf(view ViewTag) *LayoutNode {
	return &LayoutNode{View: view, Focused: true}
}

// HSplit declares a left/right split.
func HSplit(ratio Ratio, left, right *LayoutNode) *LayoutNode {
	return &LayoutNode{Split: &LayoutSplit{Direction: SplitHorizontal, Ratio: ratio, First: left, Second: right}}
}

// VSplit declares a top/bottom split.
func VSplit(ratio Ratio, top, bottom *LayoutNode) *LayoutNode {
	return &LayoutNode{Split: &LayoutSplit{Direction: SplitVertical, Ratio: ratio, First: top, Second: bottom}}
}

// IsLeaf returns true if the node declares a pane.
func (n *LayoutNode) IsLeaf() bool {
	return n.Split == nil
}

// Walk traverses the tree depth-first, first child first.
// Returns early if fn returns false.
func (n *LayoutNode) Walk(fn func(*LayoutNode) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	if n.Split != nil {
		if !n.Split.First.Walk(fn) {
			return false
		}
		return n.Split.Second.Walk(fn)
	}
	return true
}

// LeafCount returns the number of declared panes.
func (n *LayoutNode) LeafCount() int {
	count := 0
	n.Walk(func(node *LayoutNode) bool {
		if node.IsLeaf() {
			count++
		}
		return true
	})
	return count
}

// Validate checks that the tree is complete: every leaf has a view, every
// split has two children and a positive ratio, and at most one leaf is
// marked focused.
func (n *LayoutNode) Validate() error {
	if n == nil {
		return fmt.Errorf("%w: empty layout", ErrInvalidOperation)
	}
	focused := 0
	var problems []string
	n.Walk(func(node *LayoutNode) bool {
		if node.IsLeaf() {
			if node.View == "" {
				problems = append(problems, "leaf without view")
			}
			if node.Focused {
				focused++
			}
			return true
		}
		if node.Split.First == nil || node.Split.Second == nil {
			problems = append(problems, "split without two children")
		}
		if !node.Split.Ratio.Valid() {
			problems = append(problems, fmt.Sprintf("split ratio %d:%d is not positive",
				node.Split.Ratio.First, node.Split.Ratio.Second))
		}
		if node.Split.Direction != SplitHorizontal && node.Split.Direction != SplitVertical {
			problems = append(problems, "split with unknown direction")
		}
		return true
	})
	if focused > 1 {
		problems = append(problems, fmt.Sprintf("%d leaves marked focused", focused))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: invalid layout: %s", ErrInvalidOperation, strings.Join(problems, "; "))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d SplitDirection) MarshalText() ([]byte, error) {
	switch d {
	case SplitHorizontal, SplitVertical:
		return []byte(d.String()), nil
	default:
		return nil, fmt.Errorf("unknown split direction %d", int(d))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *SplitDirection) UnmarshalText(text []byte) error {
	parsed, err := ParseSplitDirection(strings.ToLower(strings.TrimSpace(string(text))))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
