package entity

import (
	"strings"
	"time"
)

// ProfileSnapshotVersion is the current schema version for stored profiles.
// Increment when making breaking changes to the serialization format.
const ProfileSnapshotVersion = 1

// Built-in profile names.
const (
	ProfileSmall = "small"
	ProfileLarge = "large"
)

// IsBuiltinProfile reports whether name is one of the preset profiles.
func IsBuiltinProfile(name string) bool {
	return name == ProfileSmall || name == ProfileLarge
}

// ProfileSnapshot is a persisted pane layout profile.
// This is serialized to JSON and stored in the database.
type ProfileSnapshot struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Version     int         `json:"version"`
	Root        *LayoutNode `json:"root"`
	Fingerprint string      `json:"fingerprint,omitempty"`
	SavedAt     time.Time   `json:"saved_at"`
}

// PaneCount returns the number of panes in the snapshot.
func (s *ProfileSnapshot) PaneCount() int {
	if s == nil || s.Root == nil {
		return 0
	}
	return s.Root.LeafCount()
}

// ProfileInfo provides summary information for profile listings.
type ProfileInfo struct {
	Name      string
	PaneCount int
	IsActive  bool
	IsBuiltin bool
	IsStored  bool
	UpdatedAt time.Time
}

// NormalizeProfileName trims whitespace and lowercases a profile name.
func NormalizeProfileName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
