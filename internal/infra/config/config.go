// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig            `yaml:"server"`
	Session   SessionConfig           `yaml:"session"`
	Playback  PlaybackConfig          `yaml:"playback"`
	Policies  map[string]PolicyConfig `yaml:"policies"`
	Autofill  AutofillConfig          `yaml:"autofill"`
	Catalog   CatalogConfig           `yaml:"catalog"`
	Streaming StreamingConfig         `yaml:"streaming"`
	Store     StoreConfig             `yaml:"store"`
	Log       LogConfig               `yaml:"log"`
}

// ServerConfig represents the session host server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8080"`
	// ControlToken guards the local control API. Empty disables the check.
	ControlToken string `yaml:"control_token"`
}

// SessionConfig represents shared-session configuration.
type SessionConfig struct {
	DisplayName         string `yaml:"display_name" default:"Host"`
	SessionName         string `yaml:"session_name" default:"Shared Session"`
	HeartbeatIntervalMs int    `yaml:"heartbeat_interval_ms" default:"5000" validate:"gte=500,lte=60000"`
	StaleTimeoutMs      int    `yaml:"stale_timeout_ms" default:"15000" validate:"gte=1000,lte=300000"`
	JoinTimeoutMs       int    `yaml:"join_timeout_ms" default:"10000" validate:"gte=1000,lte=60000"`
}

// PlaybackConfig represents playback engine configuration.
type PlaybackConfig struct {
	Loop        bool `yaml:"loop"`
	EventBuffer int  `yaml:"event_buffer" default:"16" validate:"gte=1,lte=1024"`
}

// PolicyConfig represents a suggestion policy's configuration.
type PolicyConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// AutofillConfig represents queue autofill configuration. Sources share
// the enabled/settings shape of policies.
type AutofillConfig struct {
	Enabled bool                    `yaml:"enabled"`
	Count   int                     `yaml:"count" default:"2" validate:"omitempty,gte=1,lte=20"`
	Sources map[string]PolicyConfig `yaml:"sources"`
}

// CatalogConfig represents catalog API configuration.
type CatalogConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RefreshToken string `yaml:"refresh_token" validate:"required"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"US"`
}

// StreamingConfig represents audio stream resolution configuration.
type StreamingConfig struct {
	URLTemplate string `yaml:"url_template" validate:"required"`
}

// StoreConfig represents local persistence configuration.
type StoreConfig struct {
	Path string `yaml:"path" default:"data/library.db"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Output string `yaml:"output" default:"stdout"`
	Level  string `yaml:"level" default:"info"`
	File   string `yaml:"file"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for credentials.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Catalog.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Catalog.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Catalog.RefreshToken = v
	}
	if v := os.Getenv("STREAM_URL_TEMPLATE"); v != "" {
		c.Streaming.URLTemplate = v
	}
	if v := os.Getenv("WAVIFY_CONTROL_TOKEN"); v != "" {
		c.Server.ControlToken = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Session.StaleTimeoutMs <= c.Session.HeartbeatIntervalMs {
		return errors.Newf("stale_timeout_ms (%d) must be greater than heartbeat_interval_ms (%d)",
			c.Session.StaleTimeoutMs, c.Session.HeartbeatIntervalMs)
	}

	return nil
}

// HeartbeatInterval returns the heartbeat interval as a duration.
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.Session.HeartbeatIntervalMs) * time.Millisecond
}

// StaleTimeout returns the stale timeout as a duration.
func (c *Config) StaleTimeout() time.Duration {
	return time.Duration(c.Session.StaleTimeoutMs) * time.Millisecond
}

// JoinTimeout returns the join timeout as a duration.
func (c *Config) JoinTimeout() time.Duration {
	return time.Duration(c.Session.JoinTimeoutMs) * time.Millisecond
}

// IsPolicyEnabled checks if a suggestion policy is enabled.
func (c *Config) IsPolicyEnabled(policyName string) bool {
	if p, ok := c.Policies[policyName]; ok {
		return p.Enabled
	}
	return false
}

// PolicySettings returns the settings map for a policy.
func (c *Config) PolicySettings(policyName string) map[string]any {
	if p, ok := c.Policies[policyName]; ok {
		return p.Settings
	}
	return nil
}
