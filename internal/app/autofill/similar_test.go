package autofill

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/lastfm"
)

type fakeRecommendAPI struct {
	similar map[string][]lastfm.SimilarTrack // keyed by seed title
	charts  []lastfm.TopTrack
}

func (f *fakeRecommendAPI) GetSimilarTracks(ctx context.Context, trackName, artistName string, limit int) ([]lastfm.SimilarTrack, error) {
	return f.similar[trackName], nil
}

func (f *fakeRecommendAPI) GetChartTopTracks(ctx context.Context, limit int) ([]lastfm.TopTrack, error) {
	return f.charts, nil
}

// fakeCatalog resolves "Title Artist" queries to songs with slugged IDs.
type fakeCatalog struct{}

func (fakeCatalog) Search(ctx context.Context, query string, limit int) ([]song.SearchResult, error) {
	id := strings.ToLower(strings.ReplaceAll(query, " ", "-"))
	s := song.Song{ID: id, Title: query}
	return []song.SearchResult{{Kind: song.KindSong, Song: &s}}, nil
}

func newTestSimilarSource(t *testing.T, api RecommendAPI) *SimilarSource {
	t.Helper()
	src, err := NewSimilarSource(fakeCatalog{}, map[string]any{"api_key": "test_key"})
	require.NoError(t, err)
	src.lastfm = api
	return src
}

func TestNewSimilarSource_RequiresAPIKey(t *testing.T) {
	_, err := NewSimilarSource(fakeCatalog{}, map[string]any{})
	assert.Error(t, err)
}

func TestNewSimilarSource_RequiresCatalog(t *testing.T) {
	_, err := NewSimilarSource(nil, map[string]any{"api_key": "k"})
	assert.Error(t, err)
}

func TestSimilarSource_UsesSeeds(t *testing.T) {
	api := &fakeRecommendAPI{
		similar: map[string][]lastfm.SimilarTrack{
			"Seed One": {{Name: "Rec A", Artist: "Artist A"}, {Name: "Rec B", Artist: "Artist B"}},
		},
	}
	src := newTestSimilarSource(t, api)

	seeds := []song.Song{{ID: "seed1", Title: "Seed One", Artist: "Someone"}}
	songs, err := src.Candidates(context.Background(), 2, seeds, nil)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "rec-a-artist-a", songs[0].ID)
}

func TestSimilarSource_ChartFallbackWithoutSeeds(t *testing.T) {
	api := &fakeRecommendAPI{
		charts: []lastfm.TopTrack{{Name: "Hit", Artist: "Star"}},
	}
	src := newTestSimilarSource(t, api)

	songs, err := src.Candidates(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "hit-star", songs[0].ID)
}

func TestSimilarSource_SkipsExcluded(t *testing.T) {
	api := &fakeRecommendAPI{
		similar: map[string][]lastfm.SimilarTrack{
			"Seed One": {{Name: "Rec A", Artist: "Artist A"}, {Name: "Rec B", Artist: "Artist B"}},
		},
	}
	src := newTestSimilarSource(t, api)

	seeds := []song.Song{{ID: "seed1", Title: "Seed One", Artist: "Someone"}}
	exclude := map[string]bool{"rec-a-artist-a": true}
	songs, err := src.Candidates(context.Background(), 2, seeds, exclude)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "rec-b-artist-b", songs[0].ID)
}

func TestSimilarSource_NoRecommendations(t *testing.T) {
	src := newTestSimilarSource(t, &fakeRecommendAPI{})

	seeds := []song.Song{{ID: "seed1", Title: "Seed One", Artist: "Someone"}}
	_, err := src.Candidates(context.Background(), 2, seeds, nil)
	assert.Error(t, err)
}
