// Package participant provides the session participant entity.
package participant

import "time"

// Role identifies a participant's role in a shared session.
type Role string

const (
	RoleHost  Role = "HOST"
	RoleGuest Role = "GUEST"
)

// Participant represents a member of a shared listening session.
type Participant struct {
	ID                 string     // UUID assigned on join
	DisplayName        string     // Display name
	Role               Role       // Host or guest
	PendingSuggestions int        // Suggestions awaiting queue insertion
	IsKicked           bool       // Kicked status
	JoinedAt           time.Time  // Join time
	TotalSuggestions   int        // Lifetime suggestion count
	LastSuggestionAt   *time.Time // Last suggestion time
}

// New creates a new participant.
func New(id, displayName string, role Role) *Participant {
	return &Participant{
		ID:          id,
		DisplayName: displayName,
		Role:        role,
		JoinedAt:    time.Now(),
	}
}

// IncrementPending increments the pending suggestion count.
func (p *Participant) IncrementPending() {
	p.PendingSuggestions++
	p.TotalSuggestions++
	now := time.Now()
	p.LastSuggestionAt = &now
}

// DecrementPending decrements the pending suggestion count.
// Called when a suggested song starts playing.
func (p *Participant) DecrementPending() {
	if p.PendingSuggestions > 0 {
		p.PendingSuggestions--
	}
}

// Kick marks the participant as kicked.
func (p *Participant) Kick() {
	p.IsKicked = true
}

// CanSuggest checks if the participant may submit a suggestion.
// The host is never throttled; guests are limited to one pending suggestion.
func (p *Participant) CanSuggest() bool {
	if p.IsKicked {
		return false
	}
	if p.Role == RoleHost {
		return true
	}
	return p.PendingSuggestions == 0
}
