package autofill

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

type fakeLibrary struct {
	songs []song.Song
}

func (f *fakeLibrary) Liked(ctx context.Context) ([]song.Song, error) {
	return f.songs, nil
}

func TestLikedSource_FiltersExcluded(t *testing.T) {
	src, err := NewLikedSource(&fakeLibrary{songs: []song.Song{
		{ID: "s1"}, {ID: "s2"}, {ID: "s3"},
	}})
	require.NoError(t, err)

	songs, err := src.Candidates(context.Background(), 10, nil, map[string]bool{"s2": true})
	require.NoError(t, err)
	require.Len(t, songs, 2)
	for _, s := range songs {
		assert.NotEqual(t, "s2", s.ID)
	}
}

func TestLikedSource_RespectsCount(t *testing.T) {
	src, err := NewLikedSource(&fakeLibrary{songs: []song.Song{
		{ID: "s1"}, {ID: "s2"}, {ID: "s3"},
	}})
	require.NoError(t, err)

	songs, err := src.Candidates(context.Background(), 2, nil, nil)
	require.NoError(t, err)
	assert.Len(t, songs, 2)
}

func TestLikedSource_RequiresLibrary(t *testing.T) {
	_, err := NewLikedSource(nil)
	assert.Error(t, err)
}
