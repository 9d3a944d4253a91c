// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, an optional YAML file, and environment.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration for both binaries.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// SnapshotPath is the CSV snapshot file holding the cached dataset.
	SnapshotPath string `koanf:"snapshot_path"`

	// StatePath is the JSON file holding monthly_goal and last_update.
	StatePath string `koanf:"state_path"`

	// TokenURL is the OAuth token-refresh endpoint.
	TokenURL string `koanf:"token_url"`

	// ActivitiesURL is the paginated activity listing endpoint.
	ActivitiesURL string `koanf:"activities_url"`

	// ClientID, ClientSecret and RefreshToken authenticate the athlete.
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RefreshToken string `koanf:"refresh_token"`

	// PerPage sets the page size for activity listing (API max 200).
	PerPage int `koanf:"per_page"`

	// MaxPages caps pagination against a misbehaving endpoint.
	MaxPages int `koanf:"max_pages"`

	// MonthlyGoalKM seeds the monthly distance goal on first run.
	MonthlyGoalKM int `koanf:"monthly_goal_km"`

	// ActivityType filters the dataset served by the API, e.g. "Run".
	ActivityType string `koanf:"activity_type"`

	// HTTPTimeoutSec bounds individual remote requests.
	HTTPTimeoutSec int `koanf:"http_timeout_sec"`

	// TokenTTLMin is the memoized access-token validity window.
	TokenTTLMin int `koanf:"token_ttl_min"`

	// FetchTTLMin is the memoized full-fetch validity window.
	FetchTTLMin int `koanf:"fetch_ttl_min"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9090",
		SnapshotPath:   "running_data.csv",
		StatePath:      "app_config.json",
		TokenURL:       "https://www.strava.com/oauth/token",
		ActivitiesURL:  "https://www.strava.com/api/v3/athlete/activities",
		PerPage:        200,
		MaxPages:       100,
		MonthlyGoalKM:  100,
		ActivityType:   "Run",
		HTTPTimeoutSec: 30,
		TokenTTLMin:    60,
		FetchTTLMin:    30,
	}
}

// HasCredentials reports whether all three credential fields are set.
// Unattended mode refuses to start without them.
func (c *Config) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}
