package policy

import (
	"context"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Chain executes policies in sequence.
type Chain struct {
	policies []Policy
}

// NewChain creates a new policy chain.
func NewChain() *Chain {
	return &Chain{
		policies: make([]Policy, 0),
	}
}

// Add adds a policy to the chain.
func (c *Chain) Add(p Policy) {
	c.policies = append(c.policies, p)
}

// Execute runs all policies in sequence, stopping at the first rejection.
// Policies are only applied if they declare they apply to the given origin.
func (c *Chain) Execute(ctx context.Context, req SuggestionRequest, s song.Song, p *participant.Participant, origin Origin) Result {
	for _, pol := range c.policies {
		if !pol.AppliesTo(origin) {
			continue
		}

		result := pol.Check(ctx, req, s, p)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Policies returns all policies in the chain.
func (c *Chain) Policies() []Policy {
	return c.policies
}
