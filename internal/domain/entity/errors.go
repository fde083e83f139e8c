package entity

import "errors"

// Layout errors. Operations wrap these with context; test with errors.Is.
var (
	// ErrNotFound reports an unknown pane id or profile name.
	ErrNotFound = errors.New("not found")
	// ErrInvalidMerge reports merge targets that are not direct siblings.
	ErrInvalidMerge = errors.New("panes are not siblings")
	// ErrInvalidOperation reports a structurally impossible request, such as
	// removing the terminal pane.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInvalidState reports an action forbidden in the current mode.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnmergeable reports that the last pane cannot be closed.
	ErrUnmergeable = errors.New("cannot close the last pane")
)
