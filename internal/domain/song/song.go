// Package song provides the Song domain entity.
package song

import "time"

// Song represents a playable catalog entry.
// Contains only information retrieved from the metadata service.
type Song struct {
	ID        string        `json:"id"`        // Stable catalog identifier
	Title     string        `json:"title"`     // Song title
	Artist    string        `json:"artist"`    // Primary artist name
	Thumbnail string        `json:"thumbnail"` // Artwork URL
	Duration  time.Duration `json:"duration"`  // Duration (0 if unknown)
}

// Equal reports whether two songs refer to the same catalog entry.
// Identity is the catalog ID; attributes may differ between fetches.
func (s Song) Equal(other Song) bool {
	return s.ID == other.ID
}

// IsZero reports whether the song is the zero value.
func (s Song) IsZero() bool {
	return s.ID == ""
}

// Suggestion represents a guest-submitted song proposal.
// The host assigns Seq when the suggestion is accepted; LocalSeq is the
// guest's own submission counter used to correlate outcomes.
type Suggestion struct {
	Song      Song      `json:"song"`
	Submitter string    `json:"submitter"` // Participant UUID
	LocalSeq  uint64    `json:"local_seq"`
	Seq       uint64    `json:"seq,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
