package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
)

func TestRoster_JoinAndGet(t *testing.T) {
	roster := NewRoster()

	id, err := roster.Join("Alice", participant.RoleGuest)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	p, err := roster.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.DisplayName)
	assert.Equal(t, participant.RoleGuest, p.Role)
	assert.Equal(t, 1, roster.Count())
}

func TestRoster_RejoinKeepsIdentity(t *testing.T) {
	roster := NewRoster()

	first, err := roster.Join("Alice", participant.RoleGuest)
	require.NoError(t, err)

	second, err := roster.Join("Alice", participant.RoleGuest)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, roster.Count())
}

func TestRoster_KickedNameCanRejoinFresh(t *testing.T) {
	roster := NewRoster()

	first, err := roster.Join("Alice", participant.RoleGuest)
	require.NoError(t, err)
	require.NoError(t, roster.Kick(first))

	second, err := roster.Join("Alice", participant.RoleGuest)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestRoster_Validate(t *testing.T) {
	roster := NewRoster()

	id, err := roster.Join("Bob", participant.RoleGuest)
	require.NoError(t, err)

	assert.NoError(t, roster.Validate(id))

	require.NoError(t, roster.Kick(id))
	assert.ErrorIs(t, roster.Validate(id), ErrParticipantKicked)

	assert.ErrorIs(t, roster.Validate("missing"), ErrInvalidParticipant)
}

func TestRoster_Leave(t *testing.T) {
	roster := NewRoster()

	id, err := roster.Join("Bob", participant.RoleGuest)
	require.NoError(t, err)

	roster.Leave(id)
	assert.Equal(t, 0, roster.Count())

	_, err = roster.Get(id)
	assert.ErrorIs(t, err, ErrInvalidParticipant)
}

func TestRoster_PendingCounts(t *testing.T) {
	roster := NewRoster()

	id, err := roster.Join("Carol", participant.RoleGuest)
	require.NoError(t, err)

	require.NoError(t, roster.IncrementPending(id))
	require.NoError(t, roster.IncrementPending(id))

	p, err := roster.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 2, p.PendingSuggestions)

	roster.DecrementPending(id)
	assert.Equal(t, 1, p.PendingSuggestions)

	// Unknown IDs are rejected or ignored.
	assert.ErrorIs(t, roster.IncrementPending("missing"), ErrInvalidParticipant)
	roster.DecrementPending("missing")
}

func TestRoster_All(t *testing.T) {
	roster := NewRoster()

	_, err := roster.Join("Alice", participant.RoleHost)
	require.NoError(t, err)
	_, err = roster.Join("Bob", participant.RoleGuest)
	require.NoError(t, err)

	assert.Len(t, roster.All(), 2)
}
