package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// stubPolicy is a configurable test double.
type stubPolicy struct {
	name    string
	origins []Origin
	result  Result
	called  bool
}

func (s *stubPolicy) Name() string                        { return s.name }
func (s *stubPolicy) Description() string                 { return "stub" }
func (s *stubPolicy) ReturnCodes() []string               { return []string{s.result.Code} }
func (s *stubPolicy) ValidateConfig(map[string]any) error { return nil }
func (s *stubPolicy) AppliesTo(origin Origin) bool {
	for _, o := range s.origins {
		if o == origin {
			return true
		}
	}
	return false
}

func (s *stubPolicy) Check(ctx context.Context, req SuggestionRequest, sg song.Song, p *participant.Participant) Result {
	s.called = true
	return s.result
}

func TestChain_StopsAtFirstRejection(t *testing.T) {
	first := &stubPolicy{name: "first", origins: []Origin{OriginGuest}, result: Reject("nope")}
	second := &stubPolicy{name: "second", origins: []Origin{OriginGuest}, result: Accept()}

	chain := NewChain()
	chain.Add(first)
	chain.Add(second)

	result := chain.Execute(context.Background(), SuggestionRequest{}, song.Song{}, &participant.Participant{}, OriginGuest)

	assert.False(t, result.Accepted)
	assert.Equal(t, "nope", result.Code)
	assert.True(t, first.called)
	assert.False(t, second.called)
}

func TestChain_SkipsNonApplyingOrigins(t *testing.T) {
	guestOnly := &stubPolicy{name: "guest_only", origins: []Origin{OriginGuest}, result: Reject("nope")}

	chain := NewChain()
	chain.Add(guestOnly)

	result := chain.Execute(context.Background(), SuggestionRequest{}, song.Song{}, &participant.Participant{}, OriginHost)

	assert.True(t, result.Accepted)
	assert.False(t, guestOnly.called)
}

func TestChain_EmptyChainAccepts(t *testing.T) {
	chain := NewChain()
	result := chain.Execute(context.Background(), SuggestionRequest{}, song.Song{}, &participant.Participant{}, OriginGuest)
	assert.True(t, result.Accepted)
}

func TestChain_AllAccept(t *testing.T) {
	chain := NewChain()
	for _, name := range []string{"a", "b", "c"} {
		chain.Add(&stubPolicy{name: name, origins: []Origin{OriginGuest}, result: Accept()})
	}

	result := chain.Execute(context.Background(), SuggestionRequest{}, song.Song{}, &participant.Participant{}, OriginGuest)
	assert.True(t, result.Accepted)
	assert.Len(t, chain.Policies(), 3)
}
