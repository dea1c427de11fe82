package policy

import (
	"context"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// PendingLimitPolicy rejects a suggestion while the submitter already has
// one waiting to be played.
type PendingLimitPolicy struct{}

func (p *PendingLimitPolicy) Name() string {
	return "pending_limit_policy"
}

func (p *PendingLimitPolicy) Description() string {
	return "Limits each guest to one suggestion waiting in the queue"
}

func (p *PendingLimitPolicy) ReturnCodes() []string {
	return []string{"pending_limit"}
}

func (p *PendingLimitPolicy) ValidateConfig(settings map[string]any) error {
	return nil
}

func (p *PendingLimitPolicy) AppliesTo(origin Origin) bool {
	return origin == OriginGuest
}

func (p *PendingLimitPolicy) Check(ctx context.Context, req SuggestionRequest, s song.Song, submitter *participant.Participant) Result {
	if !submitter.CanSuggest() {
		return Reject("pending_limit")
	}
	return Accept()
}

func init() {
	Register("pending_limit_policy", func() Policy {
		return &PendingLimitPolicy{}
	})
}
