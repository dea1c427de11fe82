// Package player provides the playback engine: a serialized state machine
// over the queue model, driven by an abstract audio backend.
package player

import (
	"time"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// State represents the playback state.
type State int

const (
	StateIdle      State = iota // No song loaded (queue empty or stopped)
	StateLoading                // Backend is resolving/loading a song
	StatePlaying                // Song is playing
	StatePaused                 // Song is paused
	StateBuffering              // Backend reported an underrun
	StateFailed                 // Load or decode failed; waiting on retry/skip
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrorKind classifies a backend failure carried by StateFailed.
type ErrorKind int

const (
	ErrNone              ErrorKind = iota
	ErrNetwork                     // Source unreachable or timed out
	ErrUnsupportedFormat           // Backend cannot play the resolved source
	ErrNotFound                    // Requested song absent from the catalog
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrNetwork:
		return "network_error"
	case ErrUnsupportedFormat:
		return "unsupported_format"
	case ErrNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Status is a point-in-time snapshot of the engine, safe to hand to the UI
// layer or the session coordinator.
type Status struct {
	State       State
	Song        song.Song // Zero value when State is Idle
	Position    time.Duration
	QueueIndex  int
	QueueLen    int
	Err         ErrorKind // Set only when State is Failed
	LoopEnabled bool
}
