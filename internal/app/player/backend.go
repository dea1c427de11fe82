package player

import (
	"context"
	"time"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// BackendEventType represents an asynchronous backend report.
type BackendEventType int

const (
	BackendReady       BackendEventType = iota // Load finished, playable
	BackendFailed                              // Load or decode failed
	BackendUnderrun                            // Buffer underrun while playing
	BackendResumeReady                         // Underrun recovered
	BackendEnded                               // Current song played to the end
)

// BackendEvent is delivered on the backend's event channel. Gen echoes the
// load generation passed to Load so the engine can discard reports from a
// superseded load.
type BackendEvent struct {
	Type BackendEventType
	Gen  uint64
	Err  ErrorKind // Set for BackendFailed
}

// Backend abstracts the device audio pipeline. Load begins an asynchronous
// resolve+decode and reports completion via the event channel; the remaining
// calls act on the most recently loaded song. One backend instance owns the
// hardware output exclusively.
type Backend interface {
	Load(ctx context.Context, gen uint64, s song.Song)
	Play() error
	Pause() error
	Seek(position time.Duration) error
	Stop() error
	Position() time.Duration
	Events() <-chan BackendEvent
	Close() error
}
