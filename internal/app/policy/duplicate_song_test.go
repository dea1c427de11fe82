package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Mock queue reader for testing
type mockQueueReader struct {
	songs []song.Song
}

func (m *mockQueueReader) QueueSnapshot() ([]song.Song, int) {
	return m.songs, 0
}

func TestDuplicateSongPolicy_ExactIDMatch(t *testing.T) {
	qr := &mockQueueReader{
		songs: []song.Song{
			{ID: "v123", Title: "Bohemian Rhapsody", Artist: "Queen"},
		},
	}

	pol := NewDuplicateSongPolicy(qr)

	result := pol.Check(
		context.Background(),
		SuggestionRequest{},
		song.Song{ID: "v123", Title: "Bohemian Rhapsody - 2011 Remaster", Artist: "Queen"},
		&participant.Participant{},
	)

	assert.False(t, result.Accepted)
	assert.Equal(t, "duplicate_song", result.Code)
}

func TestDuplicateSongPolicy_VersionDetection(t *testing.T) {
	tests := []struct {
		name         string
		queued       song.Song
		suggested    song.Song
		shouldReject bool
	}{
		{
			name:         "trailing remaster suffix",
			queued:       song.Song{ID: "v1", Title: "Bohemian Rhapsody", Artist: "Queen"},
			suggested:    song.Song{ID: "v2", Title: "Bohemian Rhapsody - 2011 Remaster", Artist: "Queen"},
			shouldReject: true,
		},
		{
			name:         "remastered in parentheses",
			queued:       song.Song{ID: "v1", Title: "Yesterday", Artist: "The Beatles"},
			suggested:    song.Song{ID: "v2", Title: "Yesterday (Remastered 2023)", Artist: "The Beatles"},
			shouldReject: true,
		},
		{
			name:         "radio edit",
			queued:       song.Song{ID: "v1", Title: "One More Time", Artist: "Daft Punk"},
			suggested:    song.Song{ID: "v2", Title: "One More Time (Radio Edit)", Artist: "Daft Punk"},
			shouldReject: true,
		},
		{
			name:         "cover by different artist allowed",
			queued:       song.Song{ID: "v1", Title: "Yesterday", Artist: "The Beatles"},
			suggested:    song.Song{ID: "v2", Title: "Yesterday", Artist: "Boyz II Men"},
			shouldReject: false,
		},
		{
			name:         "different song same artist allowed",
			queued:       song.Song{ID: "v1", Title: "Yesterday", Artist: "The Beatles"},
			suggested:    song.Song{ID: "v2", Title: "Let It Be", Artist: "The Beatles"},
			shouldReject: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qr := &mockQueueReader{songs: []song.Song{tt.queued}}
			pol := NewDuplicateSongPolicy(qr)

			result := pol.Check(context.Background(), SuggestionRequest{}, tt.suggested, &participant.Participant{})
			assert.Equal(t, !tt.shouldReject, result.Accepted)
		})
	}
}

func TestDuplicateSongPolicy_AppliesTo(t *testing.T) {
	pol := NewDuplicateSongPolicy(&mockQueueReader{})
	assert.True(t, pol.AppliesTo(OriginGuest))
	assert.False(t, pol.AppliesTo(OriginHost))
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bohemian Rhapsody - 2011 Remaster", "bohemian rhapsody"},
		{"Yesterday (Remastered 2023)", "yesterday"},
		{"Hotel California [Remastered]", "hotel california"},
		{"Something (Single Version)", "something"},
		{"Plain Title", "plain title"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTitle(tt.in))
		})
	}
}
