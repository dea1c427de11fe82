package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

func TestDurationLimitPolicy_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{
			name:     "valid config",
			settings: map[string]any{"min_minutes": 1.0, "max_minutes": 10.0},
			wantErr:  false,
		},
		{
			name:     "empty settings uses defaults",
			settings: map[string]any{},
			wantErr:  false,
		},
		{
			name:     "min greater than max",
			settings: map[string]any{"min_minutes": 10.0, "max_minutes": 5.0},
			wantErr:  true,
		},
		{
			name:     "negative min",
			settings: map[string]any{"min_minutes": -1.0},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol := NewDurationLimitPolicy()
			err := pol.ValidateConfig(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDurationLimitPolicy_Check(t *testing.T) {
	pol := NewDurationLimitPolicy()
	require.NoError(t, pol.ValidateConfig(map[string]any{
		"min_minutes": 1.0,
		"max_minutes": 10.0,
	}))

	tests := []struct {
		name     string
		duration time.Duration
		accepted bool
	}{
		{"within limits", 4 * time.Minute, true},
		{"too short", 30 * time.Second, false},
		{"too long", 15 * time.Minute, false},
		{"unknown duration passes", 0, true},
		{"exactly min", 1 * time.Minute, true},
		{"exactly max", 10 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pol.Check(
				context.Background(),
				SuggestionRequest{},
				song.Song{ID: "v1", Title: "Test", Duration: tt.duration},
				&participant.Participant{},
			)
			assert.Equal(t, tt.accepted, result.Accepted)
			if !tt.accepted {
				assert.Equal(t, "duration_limit_exceeded", result.Code)
			}
		})
	}
}

func TestDurationLimitPolicy_NoConfigAcceptsAll(t *testing.T) {
	pol := NewDurationLimitPolicy()

	result := pol.Check(
		context.Background(),
		SuggestionRequest{},
		song.Song{ID: "v1", Duration: 2 * time.Hour},
		&participant.Participant{},
	)
	assert.True(t, result.Accepted)
}
