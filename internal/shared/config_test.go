package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("unable to write config fixture: %v", err)
	}

	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses a valid file", func(t *testing.T) {
		path := writeConfigFile(t, `
[credentials.spotify]
client_id = "abc123"
client_secret = "shh"

[lookup]
delay_ms = 250
timeout_seconds = 5
max_retries = 2
backoff_ms = 500

[output]
format = "csv"
`)

		conf, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if conf.Credentials.Spotify.ClientID != "abc123" {
			t.Errorf("expected client_id abc123, got %s", conf.Credentials.Spotify.ClientID)
		}

		if conf.Lookup.DelayMS != 250 {
			t.Errorf("expected delay_ms 250, got %d", conf.Lookup.DelayMS)
		}

		if conf.Output.Format != "csv" {
			t.Errorf("expected format csv, got %s", conf.Output.Format)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfigFile(t, "not [valid toml")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	conf := DefaultConfig()

	if conf.Credentials.Spotify.ClientID != "" {
		t.Errorf("expected blank client_id, got %s", conf.Credentials.Spotify.ClientID)
	}

	if conf.Lookup.DelayMS != 100 {
		t.Errorf("expected delay_ms 100, got %d", conf.Lookup.DelayMS)
	}

	if conf.Lookup.TimeoutSeconds != 10 {
		t.Errorf("expected timeout_seconds 10, got %d", conf.Lookup.TimeoutSeconds)
	}

	if conf.Lookup.MaxRetries != 3 {
		t.Errorf("expected max_retries 3, got %d", conf.Lookup.MaxRetries)
	}

	if conf.Output.Format != "xlsx" {
		t.Errorf("expected format xlsx, got %s", conf.Output.Format)
	}
}

func TestResolveConfig(t *testing.T) {
	t.Run("file values win over environment", func(t *testing.T) {
		t.Setenv(EnvClientID, "from-env")
		t.Setenv(EnvClientSecret, "from-env-secret")

		path := writeConfigFile(t, `
[credentials.spotify]
client_id = "from-file"
client_secret = "from-file-secret"
`)

		conf, err := ResolveConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if conf.Credentials.Spotify.ClientID != "from-file" {
			t.Errorf("expected from-file, got %s", conf.Credentials.Spotify.ClientID)
		}
	})

	t.Run("environment fills missing fields", func(t *testing.T) {
		t.Setenv(EnvClientID, "env-id")
		t.Setenv(EnvClientSecret, "env-secret")

		path := writeConfigFile(t, `
[lookup]
delay_ms = 50
`)

		conf, err := ResolveConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if conf.Credentials.Spotify.ClientID != "env-id" {
			t.Errorf("expected env-id, got %s", conf.Credentials.Spotify.ClientID)
		}

		if conf.Lookup.DelayMS != 50 {
			t.Errorf("expected delay_ms 50, got %d", conf.Lookup.DelayMS)
		}

		if conf.Lookup.MaxRetries != 3 {
			t.Errorf("expected default max_retries 3, got %d", conf.Lookup.MaxRetries)
		}
	})

	t.Run("environment replaces placeholders", func(t *testing.T) {
		t.Setenv(EnvClientID, "env-id")
		t.Setenv(EnvClientSecret, "env-secret")

		path := writeConfigFile(t, `
[credentials.spotify]
client_id = "your_spotify_client_id"
client_secret = "your_spotify_client_secret"
`)

		conf, err := ResolveConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if conf.Credentials.Spotify.ClientID != "env-id" {
			t.Errorf("expected env-id, got %s", conf.Credentials.Spotify.ClientID)
		}
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		conf, err := ResolveConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if conf.Lookup.DelayMS != 100 {
			t.Errorf("expected delay_ms 100, got %d", conf.Lookup.DelayMS)
		}
	})
}

func TestValidateCredentials(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		conf := DefaultConfig()

		if err := conf.ValidateCredentials(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("placeholders", func(t *testing.T) {
		conf := DefaultConfig()
		conf.Credentials.Spotify.ClientID = "your_spotify_client_id"
		conf.Credentials.Spotify.ClientSecret = "your_spotify_client_secret"

		if err := conf.ValidateCredentials(); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		conf := DefaultConfig()
		conf.Credentials.Spotify.ClientID = "abc123"
		conf.Credentials.Spotify.ClientSecret = "shh"

		if err := conf.ValidateCredentials(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestLookupDurations(t *testing.T) {
	conf := LookupConfig{DelayMS: 100, TimeoutSeconds: 10, BackoffMS: 1000}

	if conf.Delay() != 100*time.Millisecond {
		t.Errorf("expected 100ms delay, got %v", conf.Delay())
	}

	if conf.Timeout() != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", conf.Timeout())
	}

	if conf.Backoff() != time.Second {
		t.Errorf("expected 1s backoff, got %v", conf.Backoff())
	}
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected generated file to parse, got %v", err)
	}

	if !isPlaceholder(conf.Credentials.Spotify.ClientID) {
		t.Errorf("expected placeholder client_id, got %s", conf.Credentials.Spotify.ClientID)
	}

	if err := CreateConfigFile(path); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument on second create, got %v", err)
	}
}
