package policy

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// DurationLimitConfig represents the configuration for DurationLimitPolicy.
type DurationLimitConfig struct {
	MinMinutes float64 `yaml:"min_minutes" mapstructure:"min_minutes" default:"1" validate:"gte=0"`
	MaxMinutes float64 `yaml:"max_minutes" mapstructure:"max_minutes" validate:"gte=0"`
}

// DurationLimitPolicy checks if a suggested song's duration is within the
// configured limits. Songs with unknown duration pass; the duration field
// is optional in the catalog.
type DurationLimitPolicy struct {
	config *DurationLimitConfig
}

// NewDurationLimitPolicy creates a new duration limit policy.
func NewDurationLimitPolicy() *DurationLimitPolicy {
	return &DurationLimitPolicy{}
}

func (p *DurationLimitPolicy) Name() string {
	return "duration_limit_policy"
}

func (p *DurationLimitPolicy) Description() string {
	return "Checks if song duration is within allowed limits"
}

func (p *DurationLimitPolicy) ReturnCodes() []string {
	return []string{"duration_limit_exceeded"}
}

func (p *DurationLimitPolicy) ValidateConfig(settings map[string]any) error {
	var config DurationLimitConfig

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &config,
		TagName: "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}

	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	if config.MaxMinutes > 0 && config.MinMinutes > config.MaxMinutes {
		return errors.New("min_minutes cannot be greater than max_minutes")
	}

	p.config = &config
	zlog.Info().Msgf("duration limit policy config: %+v", config)
	return nil
}

func (p *DurationLimitPolicy) AppliesTo(origin Origin) bool {
	return origin == OriginGuest
}

func (p *DurationLimitPolicy) Check(ctx context.Context, req SuggestionRequest, s song.Song, submitter *participant.Participant) Result {
	if p.config == nil {
		return Accept()
	}

	// Unknown duration: nothing to enforce against.
	if s.Duration == 0 {
		return Accept()
	}

	minutes := s.Duration.Minutes()

	if minutes < p.config.MinMinutes {
		return Reject("duration_limit_exceeded")
	}
	if p.config.MaxMinutes > 0 && minutes > p.config.MaxMinutes {
		return Reject("duration_limit_exceeded")
	}

	return Accept()
}

func init() {
	Register("duration_limit_policy", func() Policy {
		return NewDurationLimitPolicy()
	})
}
