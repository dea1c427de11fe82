package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

func TestPendingLimitPolicy_Check(t *testing.T) {
	tests := []struct {
		name         string
		submitter    participant.Participant
		shouldReject bool
	}{
		{
			name:         "guest with no pending suggestion",
			submitter:    participant.Participant{Role: participant.RoleGuest},
			shouldReject: false,
		},
		{
			name:         "guest with a pending suggestion",
			submitter:    participant.Participant{Role: participant.RoleGuest, PendingSuggestions: 1},
			shouldReject: true,
		},
		{
			name:         "host is never limited",
			submitter:    participant.Participant{Role: participant.RoleHost, PendingSuggestions: 3},
			shouldReject: false,
		},
		{
			name:         "kicked guest",
			submitter:    participant.Participant{Role: participant.RoleGuest, IsKicked: true},
			shouldReject: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol := &PendingLimitPolicy{}
			result := pol.Check(context.Background(), SuggestionRequest{}, song.Song{ID: "v1"}, &tt.submitter)
			assert.Equal(t, !tt.shouldReject, result.Accepted)
			if tt.shouldReject {
				assert.Equal(t, "pending_limit", result.Code)
			}
		})
	}
}

func TestPendingLimitPolicy_AppliesTo(t *testing.T) {
	pol := &PendingLimitPolicy{}
	assert.True(t, pol.AppliesTo(OriginGuest))
	assert.False(t, pol.AppliesTo(OriginHost))
}
