// Package config loads runtime settings from the process environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/petasbytes/followup-agent/internal/provider"
)

// ErrMissingAPIKey is returned when no provider credential is available.
var ErrMissingAPIKey = errors.New("missing ANTHROPIC_API_KEY; export it or add it to .env before running")

const (
	DefaultModel     = string(provider.DefaultModel)
	DefaultMaxTokens = 1024
	DefaultMaxSteps  = 8
	DefaultLogLevel  = "warn"
	DefaultArtifacts = ".agent"
	EnvFile          = ".env"
)

// Config stores all configuration of the application. Keys match the
// environment variable names.
type Config struct {
	APIKey       string `mapstructure:"anthropic_api_key"`
	Model        string `mapstructure:"agt_model"`
	MaxTokens    int64  `mapstructure:"agt_max_tokens"`
	MaxSteps     int    `mapstructure:"agt_max_steps"`
	LogLevel     string `mapstructure:"agt_log_level"`
	ObserveJSON  bool   `mapstructure:"agt_observe_json"`
	ArtifactsDir string `mapstructure:"agt_artifacts_dir"`
}

var keys = []string{
	"anthropic_api_key",
	"agt_model",
	"agt_max_tokens",
	"agt_max_steps",
	"agt_log_level",
	"agt_observe_json",
	"agt_artifacts_dir",
}

// Load reads dir/.env when present, overlays the environment, and validates
// the result. An empty dir means the working directory.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, EnvFile))
	v.SetConfigType("env")

	v.SetDefault("agt_model", DefaultModel)
	v.SetDefault("agt_max_tokens", DefaultMaxTokens)
	v.SetDefault("agt_max_steps", DefaultMaxSteps)
	v.SetDefault("agt_log_level", DefaultLogLevel)
	v.SetDefault("agt_observe_json", false)
	v.SetDefault("agt_artifacts_dir", DefaultArtifacts)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", EnvFile, err)
	}

	// AutomaticEnv only covers Get calls; Unmarshal needs explicit bindings.
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required values and numeric ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("invalid AGT_MAX_TOKENS %d: must be positive", c.MaxTokens)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("invalid AGT_MAX_STEPS %d: must be positive", c.MaxSteps)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid AGT_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// Level returns the parsed log level; Validate has already rejected bad values.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}
	return lvl
}
