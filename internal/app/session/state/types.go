// Package state provides shared-session state management.
package state

// Role represents the local participant's role in the session lifecycle.
type Role int

const (
	RoleSolo  Role = iota // No session; local playback only
	RoleHost              // Owns the authoritative queue
	RoleGuest             // Mirrors the host's queue
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case RoleSolo:
		return "solo"
	case RoleHost:
		return "host"
	case RoleGuest:
		return "guest"
	default:
		return "unknown"
	}
}

// SyncHealth represents a guest's view of the host connection.
type SyncHealth int

const (
	SyncLive  SyncHealth = iota // Heartbeats arriving on time
	SyncStale                   // No heartbeat within the stale window
)

// String returns the string representation of the sync health.
func (s SyncHealth) String() string {
	switch s {
	case SyncLive:
		return "live"
	case SyncStale:
		return "stale"
	default:
		return "unknown"
	}
}
