// Package config loads application configuration from defaults and
// FIXDESK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Remote RemoteConfig
	Server ServerConfig
	User   UserConfig
	Log    LogConfig
}

type RemoteConfig struct {
	// BaseURL of the catalog service.
	BaseURL string
	// Timeout per remote request. Zero disables the deadline.
	Timeout time.Duration
}

type ServerConfig struct {
	// Port of the local development server (`fixdesk serve`).
	Port int
	// DataDir holds the development server's database.
	DataDir string
}

type UserConfig struct {
	// ID is the host-provided user identity; zero means no identity, in
	// which case ticket sync is skipped and submission is rejected.
	ID       int64
	Username string
}

type LogConfig struct {
	Level string // debug|info|warn|error
}

func defaults() Config {
	return Config{
		Remote: RemoteConfig{
			BaseURL: "http://127.0.0.1:8090",
			Timeout: 15 * time.Second,
		},
		Server: ServerConfig{
			Port:    8090,
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{Level: "info"},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fixdesk"
	}
	return filepath.Join(home, ".fixdesk")
}

// Load returns the configuration: defaults overridden by environment
// variables.
func Load() (Config, error) {
	cfg := defaults()

	if v := os.Getenv("FIXDESK_REMOTE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("FIXDESK_REMOTE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIXDESK_REMOTE_TIMEOUT %q: %w", v, err)
		}
		cfg.Remote.Timeout = d
	}
	if v := os.Getenv("FIXDESK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIXDESK_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("FIXDESK_DATA_DIR"); v != "" {
		cfg.Server.DataDir = v
	}
	if v := os.Getenv("FIXDESK_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIXDESK_USER_ID %q: %w", v, err)
		}
		cfg.User.ID = id
	}
	if v := os.Getenv("FIXDESK_USERNAME"); v != "" {
		cfg.User.Username = v
	}
	if v := os.Getenv("FIXDESK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}
