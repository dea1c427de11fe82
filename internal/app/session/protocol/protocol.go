// Package protocol defines the wire format exchanged between participants
// of a shared listening session. Messages are JSON envelopes with a typed
// payload; every host-originated message carries the session revision.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Message type constants for the wire format.
const (
	TypeJoin            = "join"
	TypeWelcome         = "welcome"
	TypeLeave           = "leave"
	TypeRoster          = "roster"
	TypeSuggestSong     = "suggest_song"
	TypeQueueSnapshot   = "queue_snapshot"
	TypePlaybackCommand = "playback_command"
	TypeHeartbeat       = "heartbeat"
)

// Command kinds carried by a PlaybackCommand payload.
const (
	CommandPlay  = "play"
	CommandPause = "pause"
	CommandSeek  = "seek"
	CommandSkip  = "skip"
)

var ErrUnknownType = errors.New("unknown message type")

// Envelope is the JSON wire format for session messages.
// Host-originated messages carry Revision; a receiver discards any message
// whose revision is not strictly greater than its last-applied revision.
type Envelope struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	From      string          `json:"from,omitempty"`
	Revision  uint64          `json:"revision,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	SentAt    int64           `json:"sent_at,omitempty"` // Unix millis
}

// JoinPayload is sent by a guest when connecting.
type JoinPayload struct {
	DisplayName string `json:"display_name"`
}

// WelcomePayload is sent to a new guest after joining: full state sync.
type WelcomePayload struct {
	ParticipantID string               `json:"participant_id"`
	SessionID     string               `json:"session_id"`
	Roster        []RosterEntry        `json:"roster"`
	Snapshot      QueueSnapshotPayload `json:"snapshot"`
}

// RosterEntry describes one session participant.
type RosterEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	JoinedAt    int64  `json:"joined_at"` // Unix millis
}

// RosterPayload is broadcast when membership changes.
type RosterPayload struct {
	Roster []RosterEntry `json:"roster"`
}

// SuggestSongPayload is a guest-to-host song proposal. LocalSeq is the
// submitter's own counter; the host assigns the session sequence on accept.
type SuggestSongPayload struct {
	Song     song.Song `json:"song"`
	LocalSeq uint64    `json:"local_seq"`
}

// QueueSnapshotPayload is the host's full queue state: songs plus cursor.
// Sent on join and after any accepted queue mutation. Playing distinguishes
// an active cursor from one parked on a played-out queue, which receivers
// cannot tell apart from the cursor alone.
type QueueSnapshotPayload struct {
	Songs   []song.Song `json:"songs"`
	Cursor  int         `json:"cursor"`
	Playing bool        `json:"playing"`
}

// PlaybackCommandPayload replicates a host transport-control intent.
// PositionMs is set for seek commands.
type PlaybackCommandPayload struct {
	Kind       string `json:"kind"`
	PositionMs int64  `json:"position_ms,omitempty"`
}

// HeartbeatPayload lets followers detect a stalled host.
type HeartbeatPayload struct{}

// NewEnvelope builds an envelope with the payload marshaled in place.
func NewEnvelope(msgType, sessionID, from string, revision uint64, payload any) (Envelope, error) {
	env := Envelope{
		Type:      msgType,
		SessionID: sessionID,
		From:      from,
		Revision:  revision,
		SentAt:    time.Now().UnixMilli(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, errors.Wrap(err, "marshal payload")
		}
		env.Payload = raw
	}
	return env, nil
}

// DecodePayload unmarshals the envelope payload into the variant matching
// its type. The returned value is one of the *Payload structs above.
func DecodePayload(env Envelope) (any, error) {
	switch env.Type {
	case TypeJoin:
		var p JoinPayload
		return &p, json.Unmarshal(env.Payload, &p)
	case TypeWelcome:
		var p WelcomePayload
		return &p, json.Unmarshal(env.Payload, &p)
	case TypeLeave:
		return nil, nil
	case TypeRoster:
		var p RosterPayload
		return &p, json.Unmarshal(env.Payload, &p)
	case TypeSuggestSong:
		var p SuggestSongPayload
		return &p, json.Unmarshal(env.Payload, &p)
	case TypeQueueSnapshot:
		var p QueueSnapshotPayload
		return &p, json.Unmarshal(env.Payload, &p)
	case TypePlaybackCommand:
		var p PlaybackCommandPayload
		return &p, json.Unmarshal(env.Payload, &p)
	case TypeHeartbeat:
		var p HeartbeatPayload
		return &p, nil
	default:
		return nil, errors.Wrapf(ErrUnknownType, "type=%q", env.Type)
	}
}

// Encode serializes an envelope to its wire bytes.
func Encode(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	return data, errors.Wrap(err, "encode envelope")
}

// Decode parses wire bytes into an envelope.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, errors.Wrap(err, "decode envelope")
	}
	return env, nil
}

// Ordered reports whether an inbound revision-carrying message should be
// applied given the last-applied revision. Non-revisioned messages (join,
// suggest, leave) always pass.
func Ordered(env Envelope, lastApplied uint64) bool {
	switch env.Type {
	case TypeQueueSnapshot, TypePlaybackCommand, TypeHeartbeat, TypeRoster:
		return env.Revision > lastApplied
	default:
		return true
	}
}
