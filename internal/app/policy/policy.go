// Package policy provides the pluggable acceptance chain applied to
// incoming song suggestions. Whether a suggestion is auto-applied or
// filtered is a product decision; the chain makes it configuration.
package policy

import (
	"context"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Origin identifies who originated a queue addition.
type Origin string

const (
	OriginHost  Origin = "HOST"  // Host-driven transport controls and queueing
	OriginGuest Origin = "GUEST" // Guest-submitted suggestion
)

// SuggestionRequest represents a suggestion to be validated.
type SuggestionRequest struct {
	ParticipantID string
	SongID        string
}

// Result represents the outcome of a policy check.
type Result struct {
	Accepted bool
	Code     string // e.g., "duplicate_song", "pending_limit"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Policy is the interface for suggestion-acceptance policies.
type Policy interface {
	// Name returns the policy name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this policy can return.
	ReturnCodes() []string
	// ValidateConfig validates the policy configuration.
	ValidateConfig(settings map[string]any) error
	// AppliesTo returns true if this policy should be applied to the
	// given origin.
	AppliesTo(origin Origin) bool
	// Check performs the policy check.
	Check(ctx context.Context, req SuggestionRequest, s song.Song, p *participant.Participant) Result
}

// registry holds registered policy factories.
var registry = make(map[string]func() Policy)

// Register registers a policy factory.
func Register(name string, factory func() Policy) {
	registry[name] = factory
}

// GetRegistered returns all registered policy factories.
func GetRegistered() map[string]func() Policy {
	return registry
}
