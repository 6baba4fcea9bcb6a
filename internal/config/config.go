package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// Favorites settings
	Favorites struct {
		Path string `yaml:"path"`
	} `yaml:"favorites"`

	// External player settings
	Player struct {
		Command string   `yaml:"command"`
		Args    []string `yaml:"args"`
	} `yaml:"player"`

	// Remote playlist settings
	Fetch struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"fetch"`

	// Playlist cache settings
	Cache struct {
		DBPath   string `yaml:"db_path"`
		Fallback bool   `yaml:"fallback"`
	} `yaml:"cache"`

	// Metrics settings
	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`

	// Logging settings
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

var (
	validLogLevels  = map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.Favorites.Path == "" {
		errors = append(errors, "Favorites path is required")
	}

	if c.Player.Command == "" {
		errors = append(errors, "Player command is required")
	}

	if c.Fetch.Timeout <= 0 {
		errors = append(errors, "Fetch timeout must be positive")
	}

	if c.Cache.DBPath == "" {
		errors = append(errors, "Cache database path is required")
	}

	if !validLogLevels[strings.ToUpper(c.Log.Level)] {
		errors = append(errors, "Log level must be one of: DEBUG, INFO, WARN, ERROR")
	}
	if !validLogFormats[strings.ToLower(c.Log.Format)] {
		errors = append(errors, "Log format must be one of: text, json")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	cfg.Favorites.Path = "favorites.json"

	cfg.Player.Command = "mpv"
	cfg.Player.Args = []string{"--force-window=immediate", "{url}"}

	cfg.Fetch.Timeout = 30 * time.Second

	cfg.Cache.DBPath = "m3u-player.db"
	cfg.Cache.Fallback = false

	cfg.Metrics.Textfile = "" // Disabled

	cfg.Log.Level = "INFO"
	cfg.Log.Format = "text"

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from a file (if present) and applies environment variable overrides
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		// File doesn't exist, use defaults
		cfg = Default()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("FAVORITES_PATH"); val != "" {
		cfg.Favorites.Path = val
	}

	// PLAYER_COMMAND holds the command followed by its arguments
	if val := os.Getenv("PLAYER_COMMAND"); val != "" {
		fields := strings.Fields(val)
		cfg.Player.Command = fields[0]
		cfg.Player.Args = fields[1:]
	}

	if val := os.Getenv("FETCH_TIMEOUT"); val != "" {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid FETCH_TIMEOUT format (expected duration like '30s', '1m'): %w", err)
		}
		if duration <= 0 {
			return fmt.Errorf("FETCH_TIMEOUT must be positive, got: %s", val)
		}
		cfg.Fetch.Timeout = duration
	}

	if val := os.Getenv("CACHE_DB_PATH"); val != "" {
		cfg.Cache.DBPath = val
	}
	if val := os.Getenv("CACHE_FALLBACK"); val != "" {
		cfg.Cache.Fallback = val == "true" || val == "1"
	}

	if val := os.Getenv("METRICS_TEXTFILE"); val != "" {
		cfg.Metrics.Textfile = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		level := strings.ToUpper(val)
		if !validLogLevels[level] {
			return fmt.Errorf("invalid LOG_LEVEL: %s (must be one of: DEBUG, INFO, WARN, ERROR)", val)
		}
		cfg.Log.Level = level
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		format := strings.ToLower(val)
		if !validLogFormats[format] {
			return fmt.Errorf("invalid LOG_FORMAT: %s (must be one of: text, json)", val)
		}
		cfg.Log.Format = format
	}

	return nil
}

// SlogLevel returns the configured log level as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
