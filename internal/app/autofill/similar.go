package autofill

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/lastfm"
)

// RecommendAPI is the Last.fm surface the similar source needs.
type RecommendAPI interface {
	GetSimilarTracks(ctx context.Context, trackName, artistName string, limit int) ([]lastfm.SimilarTrack, error)
	GetChartTopTracks(ctx context.Context, limit int) ([]lastfm.TopTrack, error)
}

// Catalog resolves track names to playable songs.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]song.SearchResult, error)
}

// SimilarSourceConfig holds the similar source settings.
type SimilarSourceConfig struct {
	APIKey    string `yaml:"api_key" mapstructure:"api_key" validate:"required"`
	SeedCount int    `yaml:"seed_count" mapstructure:"seed_count" default:"3" validate:"gte=1"`
}

// SimilarSource recommends songs similar to recently played ones via
// Last.fm, resolved to playable songs through the catalog. Without seeds
// it falls back to the global charts.
type SimilarSource struct {
	lastfm  RecommendAPI
	catalog Catalog
	config  *SimilarSourceConfig
}

// NewSimilarSource creates a similar-track autofill source.
func NewSimilarSource(catalog Catalog, settings map[string]any) (*SimilarSource, error) {
	if catalog == nil {
		return nil, errors.New("catalog client is required")
	}

	var config SimilarSourceConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	client, err := lastfm.New(lastfm.Config{APIKey: config.APIKey})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create last.fm client")
	}

	return &SimilarSource{
		lastfm:  client,
		catalog: catalog,
		config:  &config,
	}, nil
}

func (s *SimilarSource) Name() string {
	return "similar"
}

func (s *SimilarSource) Candidates(ctx context.Context, count int, seeds []song.Song, exclude map[string]bool) ([]song.Song, error) {
	if count <= 0 {
		return nil, nil
	}
	if len(seeds) > s.config.SeedCount {
		seeds = seeds[:s.config.SeedCount]
	}

	names, err := s.candidateNames(ctx, count, seeds)
	if err != nil {
		return nil, err
	}

	var out []song.Song
	for _, name := range names {
		if len(out) >= count {
			break
		}
		resolved, err := s.resolve(ctx, name.title, name.artist, exclude)
		if err != nil {
			zlog.Debug().Msgf("resolve failed: title=%s artist=%s err=%v", name.title, name.artist, err)
			continue
		}
		if resolved == nil {
			continue
		}
		out = append(out, *resolved)
	}
	return out, nil
}

type trackName struct {
	title  string
	artist string
}

// candidateNames gathers recommendation names, one Last.fm call per seed,
// or one chart call when no seeds exist.
func (s *SimilarSource) candidateNames(ctx context.Context, count int, seeds []song.Song) ([]trackName, error) {
	if len(seeds) == 0 {
		charts, err := s.lastfm.GetChartTopTracks(ctx, count*2)
		if err != nil {
			return nil, errors.Wrap(err, "chart top tracks")
		}
		names := make([]trackName, 0, len(charts))
		for _, t := range charts {
			names = append(names, trackName{title: t.Name, artist: t.Artist})
		}
		return names, nil
	}

	var names []trackName
	for _, seed := range seeds {
		if seed.Title == "" || seed.Artist == "" {
			continue
		}
		similar, err := s.lastfm.GetSimilarTracks(ctx, seed.Title, seed.Artist, count)
		if err != nil {
			zlog.Debug().Msgf("similar tracks failed: seed=%s err=%v", seed.ID, err)
			continue
		}
		for _, t := range similar {
			names = append(names, trackName{title: t.Name, artist: t.Artist})
		}
	}
	if len(names) == 0 {
		return nil, errors.New("no recommendations for any seed")
	}
	return names, nil
}

// resolve searches the catalog for a playable song matching the name.
// Returns nil when the best match is excluded or nothing matches.
func (s *SimilarSource) resolve(ctx context.Context, title, artist string, exclude map[string]bool) (*song.Song, error) {
	results, err := s.catalog.Search(ctx, fmt.Sprintf("%s %s", title, artist), 20)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		if res.Kind != song.KindSong || res.Song == nil {
			continue
		}
		if exclude[res.Song.ID] {
			return nil, nil
		}
		return res.Song, nil
	}
	return nil, nil
}
