package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConfig string

const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
)

// SpotifyConfig holds application credentials for the client
// credentials grant.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// LookupConfig tunes pacing and retry behavior for catalog requests.
type LookupConfig struct {
	DelayMS        int `toml:"delay_ms"`
	TimeoutSeconds int `toml:"timeout_seconds"`
	MaxRetries     int `toml:"max_retries"`
	BackoffMS      int `toml:"backoff_ms"`
}

type OutputConfig struct {
	Format string `toml:"format"`
}

type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Lookup      LookupConfig      `toml:"lookup"`
	Output      OutputConfig      `toml:"output"`
}

// LoadConfig reads and parses the TOML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var conf Config
	if err := toml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &conf, nil
}

// DefaultConfig returns the embedded example configuration with the
// placeholder credentials blanked out.
func DefaultConfig() *Config {
	var conf Config
	if err := toml.Unmarshal([]byte(exampleConfig), &conf); err != nil {
		panic(fmt.Sprintf("invalid embedded config: %v", err))
	}

	conf.Credentials.Spotify = SpotifyConfig{}

	return &conf
}

// ResolveConfig loads path when it exists and falls back to defaults
// otherwise, then fills any empty credential field from the
// environment. File values win over environment values.
func ResolveConfig(path string) (*Config, error) {
	conf := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}

		conf.merge(loaded)
	}

	conf.fillFromEnv()

	return conf, nil
}

func (c *Config) merge(other *Config) {
	if other.Credentials.Spotify.ClientID != "" {
		c.Credentials.Spotify.ClientID = other.Credentials.Spotify.ClientID
	}

	if other.Credentials.Spotify.ClientSecret != "" {
		c.Credentials.Spotify.ClientSecret = other.Credentials.Spotify.ClientSecret
	}

	if other.Lookup.DelayMS > 0 {
		c.Lookup.DelayMS = other.Lookup.DelayMS
	}

	if other.Lookup.TimeoutSeconds > 0 {
		c.Lookup.TimeoutSeconds = other.Lookup.TimeoutSeconds
	}

	if other.Lookup.MaxRetries > 0 {
		c.Lookup.MaxRetries = other.Lookup.MaxRetries
	}

	if other.Lookup.BackoffMS > 0 {
		c.Lookup.BackoffMS = other.Lookup.BackoffMS
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
}

func (c *Config) fillFromEnv() {
	spotify := &c.Credentials.Spotify
	if spotify.ClientID == "" || isPlaceholder(spotify.ClientID) {
		if v := os.Getenv(EnvClientID); v != "" {
			spotify.ClientID = v
		}
	}

	if spotify.ClientSecret == "" || isPlaceholder(spotify.ClientSecret) {
		if v := os.Getenv(EnvClientSecret); v != "" {
			spotify.ClientSecret = v
		}
	}
}

// ValidateCredentials rejects missing or placeholder credentials
// before any network call is made.
func (c *Config) ValidateCredentials() error {
	spotify := c.Credentials.Spotify
	if spotify.ClientID == "" || spotify.ClientSecret == "" {
		return fmt.Errorf("%w: set %s and %s or add [credentials.spotify] to the config file",
			ErrMissingCredentials, EnvClientID, EnvClientSecret)
	}

	if isPlaceholder(spotify.ClientID) || isPlaceholder(spotify.ClientSecret) {
		return fmt.Errorf("%w: replace the placeholder values from the example config",
			ErrInvalidCredentials)
	}

	return nil
}

func isPlaceholder(v string) bool {
	v = strings.ToLower(v)
	return strings.HasPrefix(v, "your_") || strings.HasPrefix(v, "your-")
}

// Delay is the pause between consecutive catalog requests.
func (c LookupConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Timeout bounds a single catalog request.
func (c LookupConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Backoff is the wait before retrying when the provider sends no
// Retry-After hint.
func (c LookupConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffMS) * time.Millisecond
}

// CreateConfigFile writes the example configuration to path for the
// user to edit.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", ErrInvalidArgument, path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}
