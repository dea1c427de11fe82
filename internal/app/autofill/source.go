// Package autofill provides queue refill strategies for when the shared
// queue runs dry.
package autofill

import (
	"context"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Source is the interface for autofill candidate providers. Different
// implementations provide songs through different strategies
// (recommendations, the local library, charts).
type Source interface {
	// Candidates returns up to count playable songs. seeds are recently
	// played songs usable as recommendation hints; IDs in exclude are
	// already queued and must not be returned.
	Candidates(ctx context.Context, count int, seeds []song.Song, exclude map[string]bool) ([]song.Song, error)

	// Name returns the source name (used in config).
	Name() string
}
