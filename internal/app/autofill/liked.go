package autofill

import (
	"context"
	"math/rand"

	"github.com/cockroachdb/errors"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Library is the store surface the liked source needs.
type Library interface {
	Liked(ctx context.Context) ([]song.Song, error)
}

// LikedSource refills the queue from the local liked-songs library,
// picking uniformly at random.
type LikedSource struct {
	library Library
}

// NewLikedSource creates a liked-songs autofill source.
func NewLikedSource(library Library) (*LikedSource, error) {
	if library == nil {
		return nil, errors.New("library store is required")
	}
	return &LikedSource{library: library}, nil
}

func (s *LikedSource) Name() string {
	return "liked"
}

func (s *LikedSource) Candidates(ctx context.Context, count int, seeds []song.Song, exclude map[string]bool) ([]song.Song, error) {
	if count <= 0 {
		return nil, nil
	}

	liked, err := s.library.Liked(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load liked songs")
	}

	eligible := make([]song.Song, 0, len(liked))
	for _, sg := range liked {
		if exclude[sg.ID] {
			continue
		}
		eligible = append(eligible, sg)
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if len(eligible) > count {
		eligible = eligible[:count]
	}
	return eligible, nil
}
