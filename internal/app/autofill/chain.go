package autofill

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Chain queries sources in order until enough candidates are collected.
// A failing source is skipped, not fatal.
type Chain struct {
	sources []Source
}

// NewChain creates an autofill chain.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Candidates collects up to count songs across the chain's sources. The
// exclude set grows as candidates are collected so later sources cannot
// duplicate earlier ones.
func (c *Chain) Candidates(ctx context.Context, count int, seeds []song.Song, exclude map[string]bool) ([]song.Song, error) {
	if count <= 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(exclude))
	for id := range exclude {
		seen[id] = true
	}

	var collected []song.Song
	for _, src := range c.sources {
		if len(collected) >= count {
			break
		}

		candidates, err := src.Candidates(ctx, count-len(collected), seeds, seen)
		if err != nil {
			zlog.Warn().Msgf("autofill source failed, trying next: source=%s err=%v", src.Name(), err)
			continue
		}

		for _, s := range candidates {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			collected = append(collected, s)
			if len(collected) >= count {
				break
			}
		}
		zlog.Debug().Msgf("autofill source done: source=%s collected=%d", src.Name(), len(collected))
	}

	if len(collected) == 0 {
		return nil, errors.New("no autofill source returned candidates")
	}
	return collected, nil
}

// Name returns the chain name.
func (c *Chain) Name() string {
	return "chain"
}
