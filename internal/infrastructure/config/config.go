package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable pointing at an optional config file.
const FileEnv = "MINEBOT_CONFIG"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Bridge    BridgeConfig    `yaml:"bridge" toml:"bridge"`
	Dispatch  DispatchConfig  `yaml:"dispatch" toml:"dispatch"`
	Chat      ChatConfig      `yaml:"chat" toml:"chat"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	RateLimit RateLimitConfig `yaml:"rateLimit" toml:"rateLimit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `envconfig:"HOST" yaml:"host" toml:"host"`
	Port string `envconfig:"PORT" yaml:"port" toml:"port"`
}

// BridgeConfig holds the inference service connection settings.
type BridgeConfig struct {
	URL            string   `envconfig:"BRIDGE_URL" yaml:"url" toml:"url"`
	ConnectTimeout Duration `envconfig:"BRIDGE_CONNECT_TIMEOUT" yaml:"connectTimeout" toml:"connectTimeout"`
	ChatTimeout    Duration `envconfig:"BRIDGE_CHAT_TIMEOUT" yaml:"chatTimeout" toml:"chatTimeout"`
	ResetTimeout   Duration `envconfig:"BRIDGE_RESET_TIMEOUT" yaml:"resetTimeout" toml:"resetTimeout"`
	// RequestsPerSecond caps outbound requests; 0 disables the limit.
	RequestsPerSecond float64 `envconfig:"BRIDGE_RPS" yaml:"requestsPerSecond" toml:"requestsPerSecond"`
}

// DispatchConfig holds command pacing and validation settings.
type DispatchConfig struct {
	CommandInterval Duration `envconfig:"COMMAND_INTERVAL" yaml:"commandInterval" toml:"commandInterval"`
	BuildInterval   Duration `envconfig:"BUILD_INTERVAL" yaml:"buildInterval" toml:"buildInterval"`
	ProgressEvery   int      `envconfig:"PROGRESS_EVERY" yaml:"progressEvery" toml:"progressEvery"`
	StrictSequences bool     `envconfig:"STRICT_SEQUENCES" yaml:"strictSequences" toml:"strictSequences"`
	WhitelistFile   string   `envconfig:"WHITELIST_FILE" yaml:"whitelistFile" toml:"whitelistFile"`
	BuildOffset     int      `envconfig:"BUILD_OFFSET" yaml:"buildOffset" toml:"buildOffset"`
}

// ChatConfig holds chat interception settings.
type ChatConfig struct {
	Prefix    string   `envconfig:"CHAT_PREFIX" yaml:"prefix" toml:"prefix"`
	MaxLength int      `envconfig:"CHAT_MAX_LENGTH" yaml:"maxLength" toml:"maxLength"`
	Cooldown  Duration `envconfig:"CHAT_COOLDOWN" yaml:"cooldown" toml:"cooldown"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration for the ops API.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requestsPerSecond" toml:"requestsPerSecond"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// Duration is a time.Duration that reads "150ms" style strings from env and files.
type Duration struct {
	time.Duration
}

// D wraps a time.Duration.
func D(d time.Duration) Duration {
	return Duration{Duration: d}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load builds configuration from defaults, the optional file named by
// MINEBOT_CONFIG and then environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or returns defaults on any error.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile reads a config file over the defaults. Environment is not consulted.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would make the bridge misbehave.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Bridge.URL) == "" {
		errs = append(errs, errors.New("bridge url must not be empty"))
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"bridge connect timeout", c.Bridge.ConnectTimeout.Duration},
		{"bridge chat timeout", c.Bridge.ChatTimeout.Duration},
		{"bridge reset timeout", c.Bridge.ResetTimeout.Duration},
		{"command interval", c.Dispatch.CommandInterval.Duration},
		{"build interval", c.Dispatch.BuildInterval.Duration},
	} {
		if d.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", d.name))
		}
	}
	if c.Bridge.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("bridge rps must not be negative"))
	}
	if c.Dispatch.ProgressEvery < 1 {
		errs = append(errs, errors.New("progress interval must be at least 1"))
	}
	if c.Chat.MaxLength < 1 {
		errs = append(errs, errors.New("chat max length must be at least 1"))
	}
	if c.Chat.Cooldown.Duration < 0 {
		errs = append(errs, errors.New("chat cooldown must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Bridge: BridgeConfig{
			URL:            "http://localhost:3000",
			ConnectTimeout: D(5 * time.Second),
			ChatTimeout:    D(45 * time.Second),
			ResetTimeout:   D(10 * time.Second),
		},
		Dispatch: DispatchConfig{
			CommandInterval: D(150 * time.Millisecond),
			BuildInterval:   D(100 * time.Millisecond),
			ProgressEvery:   10,
			BuildOffset:     2,
		},
		Chat: ChatConfig{
			Prefix:    "!ai",
			MaxLength: 500,
			Cooldown:  D(2 * time.Second),
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
