// Package entity contains domain entities representing core layout concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

import (
	"fmt"
	"strconv"
)

// PaneID identifies a pane within one pane manager.
// IDs are assigned monotonically and never reused.
type PaneID int

// String implements fmt.Stringer.
func (id PaneID) String() string {
	return strconv.Itoa(int(id))
}

// ViewTag marks the kind of content a pane displays.
// The layout engine stores and compares tags but never interprets them,
// with the single exception of ViewTerminal.
type ViewTag string

// Well-known view tags supplied by the debugger front end.
const (
	ViewTerminal   ViewTag = "terminal"
	ViewCode       ViewTag = "code"
	ViewTrace      ViewTag = "trace"
	ViewOpcode     ViewTag = "opcode"
	ViewStack      ViewTag = "stack"
	ViewMemory     ViewTag = "memory"
	ViewCalldata   ViewTag = "calldata"
	ViewReturndata ViewTag = "returndata"
	ViewVariable   ViewTag = "variable"
	ViewExpression ViewTag = "expression"
)

// KnownViews returns the built-in view tags in display order.
func KnownViews() []ViewTag {
	return []ViewTag{
		ViewTerminal,
		ViewCode,
		ViewTrace,
		ViewOpcode,
		ViewStack,
		ViewMemory,
		ViewCalldata,
		ViewReturndata,
		ViewVariable,
		ViewExpression,
	}
}

// IsTerminal reports whether the tag is the permanent terminal view.
func (v ViewTag) IsTerminal() bool {
	return v == ViewTerminal
}

// Pane is a leaf of the layout tree.
type Pane struct {
	ID   PaneID
	View ViewTag
}

// NewPane creates a pane displaying view.
func NewPane(id PaneID, view ViewTag) *Pane {
	return &Pane{
		ID:   id,
		View: view,
	}
}

// SetView overwrites the displayed view.
func (p *Pane) SetView(view ViewTag) {
	p.View = view
}

// CurrentView returns the displayed view.
func (p *Pane) CurrentView() ViewTag {
	return p.View
}

// SplitDirection indicates how a split node divides its area.
type SplitDirection int

const (
	SplitHorizontal SplitDirection = iota // Left/right split
	SplitVertical                         // Top/bottom split
)

// String implements fmt.Stringer.
func (d SplitDirection) String() string {
	switch d {
	case SplitHorizontal:
		return "horizontal"
	case SplitVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// ParseSplitDirection parses "horizontal"/"h" or "vertical"/"v".
func ParseSplitDirection(s string) (SplitDirection, error) {
	switch s {
	case "horizontal", "h":
		return SplitHorizontal, nil
	case "vertical", "v":
		return SplitVertical, nil
	default:
		return 0, fmt.Errorf("%w: unknown split direction %q", ErrInvalidOperation, s)
	}
}

// Ratio is the share of a split's area given to its first and second child.
type Ratio struct {
	First  uint32 `json:"first" yaml:"first" cbor:"1,keyasint"`
	Second uint32 `json:"second" yaml:"second" cbor:"2,keyasint"`
}

// EvenRatio splits an area in two equal halves.
var EvenRatio = Ratio{First: 1, Second: 1}

// Valid reports whether both halves are positive.
func (r Ratio) Valid() bool {
	return r.First > 0 && r.Second > 0
}

// Total returns First+Second.
func (r Ratio) Total() uint64 {
	return uint64(r.First) + uint64(r.Second)
}

// Direction is a focus navigation direction.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	default:
		return DirUp
	}
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "unknown"
	}
}

// ProbeOrder is the fixed neighbour priority used when a closed pane must
// hand its focus (or its area) to a neighbour.
var ProbeOrder = []Direction{DirLeft, DirRight, DirUp, DirDown}

// PaneFlattened is the render-only projection of one leaf.
type PaneFlattened struct {
	ID      PaneID  `json:"id"`
	View    ViewTag `json:"view"`
	Rect    Rect    `json:"rect"`
	Focused bool    `json:"focused"`
}
