package player

import "github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"

// EventType represents a playback event type.
type EventType int

const (
	EventSongStarted    EventType = iota // A song began playing
	EventSongEnded                       // The current song finished
	EventStateChanged                    // State transition (pause/resume/buffer)
	EventLoadFailed                      // Load or decode failed
	EventQueueExhausted                  // Advance hit the end of the queue
	EventQueueChanged                    // Sequence or cursor mutated
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventSongStarted:
		return "song_started"
	case EventSongEnded:
		return "song_ended"
	case EventStateChanged:
		return "state_changed"
	case EventLoadFailed:
		return "load_failed"
	case EventQueueExhausted:
		return "queue_exhausted"
	case EventQueueChanged:
		return "queue_changed"
	default:
		return "unknown"
	}
}

// Event represents a playback event pushed to subscribers. Subscribers react
// to transitions without polling; Status snapshots fill in the rest.
type Event struct {
	Type  EventType
	Song  song.Song // Song the event concerns (zero for queue-only events)
	State State
	Err   ErrorKind // Set for EventLoadFailed
}
