package policy

import (
	"context"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// KickedPolicy rejects suggestions from kicked participants.
type KickedPolicy struct{}

func (p *KickedPolicy) Name() string {
	return "kicked_participant_policy"
}

func (p *KickedPolicy) Description() string {
	return "Rejects suggestions from participants kicked out of the session"
}

func (p *KickedPolicy) ReturnCodes() []string {
	return []string{"kicked"}
}

func (p *KickedPolicy) ValidateConfig(settings map[string]any) error {
	return nil
}

func (p *KickedPolicy) AppliesTo(origin Origin) bool {
	// The host cannot kick themselves.
	return origin == OriginGuest
}

func (p *KickedPolicy) Check(ctx context.Context, req SuggestionRequest, s song.Song, submitter *participant.Participant) Result {
	if submitter.IsKicked {
		return Reject("kicked")
	}
	return Accept()
}

func init() {
	Register("kicked_participant_policy", func() Policy {
		return &KickedPolicy{}
	})
}
