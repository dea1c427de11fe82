package policy

import (
	"context"
	"regexp"
	"strings"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// DuplicateSongPolicy rejects songs already present in the queue.
// Detects:
// - Exact catalog ID matches
// - Remasters and alternate versions (normalized title + same artist)
// Excludes:
// - Covers (same title, different artist)
type DuplicateSongPolicy struct {
	queue QueueReader
}

// QueueReader exposes the songs currently in the queue.
type QueueReader interface {
	QueueSnapshot() ([]song.Song, int)
}

// NewDuplicateSongPolicy creates a new duplicate song policy.
func NewDuplicateSongPolicy(queue QueueReader) *DuplicateSongPolicy {
	return &DuplicateSongPolicy{queue: queue}
}

// Name returns the policy name.
func (p *DuplicateSongPolicy) Name() string {
	return "duplicate_song_policy"
}

// Description returns the policy description.
func (p *DuplicateSongPolicy) Description() string {
	return "Rejects suggestions already in the queue, including remasters; covers by other artists are allowed"
}

// ReturnCodes returns possible return codes.
func (p *DuplicateSongPolicy) ReturnCodes() []string {
	return []string{"duplicate_song"}
}

// AppliesTo returns which origins this policy applies to.
func (p *DuplicateSongPolicy) AppliesTo(origin Origin) bool {
	// The host may deliberately queue a song twice.
	return origin == OriginGuest
}

// ValidateConfig validates the policy configuration.
func (p *DuplicateSongPolicy) ValidateConfig(settings map[string]any) error {
	return nil
}

// Check checks if the song is a duplicate of a queued one.
func (p *DuplicateSongPolicy) Check(
	ctx context.Context,
	req SuggestionRequest,
	suggested song.Song,
	submitter *participant.Participant,
) Result {
	queued, _ := p.queue.QueueSnapshot()

	for _, q := range queued {
		if q.ID == suggested.ID {
			return Reject("duplicate_song")
		}
		if isSameRecording(q, suggested) {
			return Reject("duplicate_song")
		}
	}

	return Accept()
}

// isSameRecording checks if two songs are the same recording in different
// versions (remaster, radio edit). Covers by a different artist pass.
func isSameRecording(a, b song.Song) bool {
	if normalizeTitle(a.Title) != normalizeTitle(b.Title) {
		return false
	}
	if a.Artist == "" || b.Artist == "" {
		return false
	}
	return strings.EqualFold(a.Artist, b.Artist)
}

var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s*-?\s*\d{4}\s+remaster(ed)?`),
	regexp.MustCompile(`\s*\(remaster(ed)?\s*\d{0,4}\)`),
	regexp.MustCompile(`\s*\[remaster(ed)?\s*\d{0,4}\]`),
	regexp.MustCompile(`\s*-?\s*remaster(ed)?(\s+version)?`),
	regexp.MustCompile(`\s*\(.*?remaster.*?\)`),
	regexp.MustCompile(`\s*\[.*?remaster.*?\]`),
	regexp.MustCompile(`\s*\(.*?version\)`),
	regexp.MustCompile(`\s*\(.*?edit\)`),
	regexp.MustCompile(`\s*\(live\)`),
	regexp.MustCompile(`\s*-?\s*live`),
	regexp.MustCompile(`\s*-?\s*radio\s+edit`),
	regexp.MustCompile(`\s*-?\s*single\s+version`),
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeTitle strips remaster and version markers from a song title.
func normalizeTitle(title string) string {
	normalized := strings.ToLower(title)

	for _, pattern := range versionPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}

	normalized = strings.TrimSpace(normalized)
	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	normalized = strings.TrimRight(normalized, " -")

	return normalized
}
