package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PACEBOARD_CONFIG is set
//  3. env (prefix PACEBOARD_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PACEBOARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PACEBOARD_ADDR, PACEBOARD_SNAPSHOT_PATH, ...
	// Keys map to the flat koanf tags on Config, underscores preserved.
	envProvider := env.Provider("PACEBOARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "paceboard_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unattended setups export the credentials without the prefix; the
	// prefixed spelling wins when both are set.
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("CLIENT_SECRET")
	}
	if cfg.RefreshToken == "" {
		cfg.RefreshToken = os.Getenv("REFRESH_TOKEN")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(c *Config) error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SnapshotPath == "":
		return fmt.Errorf("%w: snapshot_path must not be empty", ErrInvalidConfig)
	case c.StatePath == "":
		return fmt.Errorf("%w: state_path must not be empty", ErrInvalidConfig)
	case c.PerPage < 1 || c.PerPage > 200:
		return fmt.Errorf("%w: per_page must be in [1,200]", ErrInvalidConfig)
	case c.MaxPages < 1:
		return fmt.Errorf("%w: max_pages must be positive", ErrInvalidConfig)
	case c.MonthlyGoalKM < 0:
		return fmt.Errorf("%w: monthly_goal_km must not be negative", ErrInvalidConfig)
	case c.HTTPTimeoutSec < 1:
		return fmt.Errorf("%w: http_timeout_sec must be positive", ErrInvalidConfig)
	case c.TokenTTLMin < 1 || c.FetchTTLMin < 1:
		return fmt.Errorf("%w: cache ttls must be positive", ErrInvalidConfig)
	}
	return nil
}
