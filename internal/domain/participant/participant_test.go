package participant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		displayName string
		role        Role
	}{
		{
			name:        "guest",
			id:          "participant-1",
			displayName: "Test User",
			role:        RoleGuest,
		},
		{
			name:        "host",
			id:          "participant-2",
			displayName: "Host User",
			role:        RoleHost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.id, tt.displayName, tt.role)

			assert.Equal(t, tt.id, p.ID)
			assert.Equal(t, tt.displayName, p.DisplayName)
			assert.Equal(t, tt.role, p.Role)
			assert.Equal(t, 0, p.PendingSuggestions)
			assert.False(t, p.IsKicked)
			assert.Equal(t, 0, p.TotalSuggestions)
			assert.Nil(t, p.LastSuggestionAt)
		})
	}
}

func TestParticipant_CanSuggest(t *testing.T) {
	tests := []struct {
		name               string
		role               Role
		isKicked           bool
		pendingSuggestions int
		expected           bool
	}{
		{
			name:               "guest, no pending",
			role:               RoleGuest,
			pendingSuggestions: 0,
			expected:           true,
		},
		{
			name:               "guest, has pending",
			role:               RoleGuest,
			pendingSuggestions: 1,
			expected:           false,
		},
		{
			name:               "host, no pending",
			role:               RoleHost,
			pendingSuggestions: 0,
			expected:           true,
		},
		{
			name:               "host, has pending",
			role:               RoleHost,
			pendingSuggestions: 2,
			expected:           true,
		},
		{
			name:     "kicked guest",
			role:     RoleGuest,
			isKicked: true,
			expected: false,
		},
		{
			name:     "kicked host",
			role:     RoleHost,
			isKicked: true,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Participant{
				ID:                 "test-id",
				DisplayName:        "Test User",
				Role:               tt.role,
				IsKicked:           tt.isKicked,
				PendingSuggestions: tt.pendingSuggestions,
			}

			assert.Equal(t, tt.expected, p.CanSuggest())
		})
	}
}

func TestParticipant_IncrementPending(t *testing.T) {
	p := New("test-id", "Test User", RoleGuest)

	assert.Equal(t, 0, p.PendingSuggestions)
	assert.Equal(t, 0, p.TotalSuggestions)
	assert.Nil(t, p.LastSuggestionAt)

	p.IncrementPending()

	assert.Equal(t, 1, p.PendingSuggestions)
	assert.Equal(t, 1, p.TotalSuggestions)
	assert.NotNil(t, p.LastSuggestionAt)

	first := p.LastSuggestionAt

	time.Sleep(10 * time.Millisecond)
	p.IncrementPending()

	assert.Equal(t, 2, p.PendingSuggestions)
	assert.Equal(t, 2, p.TotalSuggestions)
	assert.True(t, p.LastSuggestionAt.After(*first))
}

func TestParticipant_DecrementPending(t *testing.T) {
	p := &Participant{
		ID:                 "test-id",
		DisplayName:        "Test User",
		PendingSuggestions: 2,
	}

	p.DecrementPending()
	assert.Equal(t, 1, p.PendingSuggestions)

	p.DecrementPending()
	assert.Equal(t, 0, p.PendingSuggestions)

	// Should not go below 0
	p.DecrementPending()
	assert.Equal(t, 0, p.PendingSuggestions)
}

func TestParticipant_Kick(t *testing.T) {
	p := New("test-id", "Test User", RoleGuest)

	assert.False(t, p.IsKicked)

	p.Kick()

	assert.True(t, p.IsKicked)
	assert.False(t, p.CanSuggest())
}

func TestParticipant_SuggestionWorkflow(t *testing.T) {
	p := New("test-id", "Guest User", RoleGuest)

	assert.True(t, p.CanSuggest())

	p.IncrementPending()
	assert.False(t, p.CanSuggest(), "guest cannot suggest while one is pending")

	// Suggested song starts playing
	p.DecrementPending()
	assert.True(t, p.CanSuggest(), "guest can suggest again after the song starts")

	host := New("host-id", "Host User", RoleHost)
	host.IncrementPending()
	host.IncrementPending()
	assert.True(t, host.CanSuggest(), "host is never throttled")
}
