// Package config
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const (
	DefaultServerURL = "http://10.0.1.15:5000"
	DefaultTick      = 10 * time.Second
	DefaultInterface = "wlan0"
)

type Config struct {
	ServerURL       string   `yaml:"server_url" toml:"server_url" json:"server_url" validate:"required,url"`
	Tick            Duration `yaml:"tick" toml:"tick" json:"tick" validate:"gt=0"`
	DataDir         string   `yaml:"data_dir" toml:"data_dir" json:"data_dir" validate:"required"`
	IdentityBackend string   `yaml:"identity_backend" toml:"identity_backend" json:"identity_backend" validate:"oneof=file sqlite"`
	Interface       string   `yaml:"interface" toml:"interface" json:"interface" validate:"required"`
	AuthSecret      string   `yaml:"auth_secret,omitempty" toml:"auth_secret" json:"auth_secret,omitempty"`
	HTTPTimeout     Duration `yaml:"http_timeout" toml:"http_timeout" json:"http_timeout" validate:"gte=0"`
	CommandTimeout  Duration `yaml:"command_timeout" toml:"command_timeout" json:"command_timeout" validate:"gte=0"`
	LogLevel        string   `yaml:"log_level" toml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
	LogFormat       string   `yaml:"log_format" toml:"log_format" json:"log_format" validate:"oneof=text json"`
}

func Default() *Config {
	return &Config{
		ServerURL:       DefaultServerURL,
		Tick:            Duration(DefaultTick),
		IdentityBackend: BackendFile,
		Interface:       DefaultInterface,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load builds the configuration from defaults, the optional config file at
// path and the environment, in that order of precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		err = yaml.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) loadEnv() error {
	strs := map[string]*string{
		"HEARTBEAT_SERVER_URL":       &c.ServerURL,
		"HEARTBEAT_DATA_DIR":         &c.DataDir,
		"HEARTBEAT_IDENTITY_BACKEND": &c.IdentityBackend,
		"HEARTBEAT_INTERFACE":        &c.Interface,
		"HEARTBEAT_AUTH_SECRET":      &c.AuthSecret,
		"LOG_LEVEL":                  &c.LogLevel,
		"LOG_FORMAT":                 &c.LogFormat,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	durations := map[string]*Duration{
		"HEARTBEAT_TICK":            &c.Tick,
		"HEARTBEAT_HTTP_TIMEOUT":    &c.HTTPTimeout,
		"HEARTBEAT_COMMAND_TIMEOUT": &c.CommandTimeout,
	}
	for key, dst := range durations {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		d, err := ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = Duration(d)
	}

	return nil
}

func (c *Config) TickDuration() time.Duration {
	return time.Duration(c.Tick)
}

// Backoff is the extra delay applied after a failed iteration.
func (c *Config) Backoff() time.Duration {
	return 5 * c.TickDuration()
}
