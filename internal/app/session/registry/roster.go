package registry

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
)

var (
	ErrInvalidParticipant = errors.New("invalid participant")
	ErrParticipantKicked  = errors.New("participant is kicked")
)

// Roster manages session participants with thread-safe access.
type Roster struct {
	mu           sync.RWMutex
	participants map[string]*participant.Participant
}

// NewRoster creates a new participant roster.
func NewRoster() *Roster {
	return &Roster{
		participants: make(map[string]*participant.Participant),
	}
}

// Join adds a new participant and returns their ID. Rejoining with a
// display name already present returns the existing ID instead of
// creating a duplicate entry.
func (r *Roster) Join(displayName string, role participant.Role) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if displayName != "" {
		for _, p := range r.participants {
			if p.DisplayName == displayName && !p.IsKicked {
				return p.ID, nil
			}
		}
	}

	id := uuid.New().String()
	r.participants[id] = participant.New(id, displayName, role)

	return id, nil
}

// Get retrieves a participant by ID.
func (r *Roster) Get(participantID string) (*participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[participantID]
	if !ok {
		return nil, ErrInvalidParticipant
	}
	return p, nil
}

// Validate checks if a participant exists and is not kicked.
func (r *Roster) Validate(participantID string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[participantID]
	if !ok {
		return ErrInvalidParticipant
	}
	if p.IsKicked {
		return ErrParticipantKicked
	}
	return nil
}

// Kick marks a participant as kicked.
func (r *Roster) Kick(participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[participantID]
	if !ok {
		return ErrInvalidParticipant
	}
	p.Kick()
	return nil
}

// Leave removes a participant from the roster.
func (r *Roster) Leave(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, participantID)
}

// IncrementPending increments a participant's pending suggestion count.
func (r *Roster) IncrementPending(participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[participantID]
	if !ok {
		return ErrInvalidParticipant
	}
	p.IncrementPending()
	return nil
}

// DecrementPending decrements a participant's pending suggestion count.
func (r *Roster) DecrementPending(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.participants[participantID]; ok {
		p.DecrementPending()
	}
}

// All returns all participants.
func (r *Roster) All() []*participant.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*participant.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		result = append(result, p)
	}
	return result
}

// Count returns the number of participants.
func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}
