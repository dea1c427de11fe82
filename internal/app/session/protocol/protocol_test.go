package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(TypeQueueSnapshot, "sess-1", "host-1", 7, QueueSnapshotPayload{
		Songs: []song.Song{
			{ID: "v1", Title: "One", Artist: "A"},
			{ID: "v2", Title: "Two", Artist: "B"},
		},
		Cursor:  1,
		Playing: true,
	})
	require.NoError(t, err)

	data, err := Encode(env)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, TypeQueueSnapshot, got.Type)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, uint64(7), got.Revision)

	payload, err := DecodePayload(got)
	require.NoError(t, err)
	snap, ok := payload.(*QueueSnapshotPayload)
	require.True(t, ok)
	assert.Equal(t, 1, snap.Cursor)
	assert.True(t, snap.Playing)
	require.Len(t, snap.Songs, 2)
	assert.Equal(t, "v2", snap.Songs[1].ID)
}

func TestDecodePayloadVariants(t *testing.T) {
	tests := []struct {
		msgType string
		payload any
	}{
		{TypeJoin, JoinPayload{DisplayName: "ira"}},
		{TypeSuggestSong, SuggestSongPayload{Song: song.Song{ID: "v9"}, LocalSeq: 3}},
		{TypePlaybackCommand, PlaybackCommandPayload{Kind: CommandSeek, PositionMs: 42_000}},
		{TypeHeartbeat, HeartbeatPayload{}},
		{TypeRoster, RosterPayload{Roster: []RosterEntry{{ID: "p1", Role: "GUEST"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.msgType, func(t *testing.T) {
			env, err := NewEnvelope(tt.msgType, "s", "f", 1, tt.payload)
			require.NoError(t, err)

			data, err := Encode(env)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)

			_, err = DecodePayload(got)
			assert.NoError(t, err)
		})
	}
}

func TestDecodePayloadUnknownType(t *testing.T) {
	_, err := DecodePayload(Envelope{Type: "bogus"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestOrdered(t *testing.T) {
	tests := []struct {
		name        string
		msgType     string
		revision    uint64
		lastApplied uint64
		want        bool
	}{
		{"newer snapshot applies", TypeQueueSnapshot, 5, 3, true},
		{"equal revision discarded", TypeQueueSnapshot, 3, 3, false},
		{"older snapshot discarded", TypeQueueSnapshot, 3, 5, false},
		{"older command discarded", TypePlaybackCommand, 1, 2, false},
		{"stale heartbeat discarded", TypeHeartbeat, 2, 2, false},
		{"join has no revision ordering", TypeJoin, 0, 10, true},
		{"suggestion has no revision ordering", TypeSuggestSong, 0, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Envelope{Type: tt.msgType, Revision: tt.revision}
			assert.Equal(t, tt.want, Ordered(env, tt.lastApplied))
		})
	}
}
