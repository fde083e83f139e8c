package entity

import (
	"fmt"
	"strings"
)

// CloseStrategy selects how the focused pane is closed.
type CloseStrategy string

const (
	// CloseSibling merges the focused pane's sibling into it. The sibling
	// must be a single pane.
	CloseSibling CloseStrategy = "sibling"
	// CloseProbe steps to a neighbour in each direction and merges it into
	// the focused pane when the two are siblings.
	CloseProbe CloseStrategy = "probe"
	// ClosePromote removes the focused pane and promotes its sibling subtree.
	ClosePromote CloseStrategy = "promote"
)

// DefaultCloseStrategy is used when none is configured.
const DefaultCloseStrategy = CloseSibling

// ParseCloseStrategy parses a strategy name. The empty string selects the default.
func ParseCloseStrategy(s string) (CloseStrategy, error) {
	switch CloseStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultCloseStrategy, nil
	case CloseSibling:
		return CloseSibling, nil
	case CloseProbe:
		return CloseProbe, nil
	case ClosePromote:
		return ClosePromote, nil
	default:
		return "", fmt.Errorf("%w: unknown close strategy %q", ErrInvalidOperation, s)
	}
}

// CloseStrategies lists the supported strategies.
func CloseStrategies() []CloseStrategy {
	return []CloseStrategy{CloseSibling, CloseProbe, ClosePromote}
}
