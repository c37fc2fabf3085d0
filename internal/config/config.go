// Package config provides persistent configuration for the ramadan CLI.
//
// Configuration is stored as JSON at ~/.config/ramadan-companion/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment > config
// file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

const (
	appDirName     = "ramadan-companion"
	configFileName = "config.json"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"method", "school",
	"time_format",
	"data_dir",
	"store", "store_dsn", "redis_addr",
	"authority_url", "authority_file",
	"overrides_file",
	"log_level",
	"timezone",
	"api_url",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City          string  `json:"city,omitempty"`
	Country       string  `json:"country,omitempty"`
	Latitude      float64 `json:"latitude,omitempty"`
	Longitude     float64 `json:"longitude,omitempty"`
	Method        *int    `json:"method,omitempty"` // nil means "not set"; 0 is a real method
	School        *int    `json:"school,omitempty"`
	TimeFormat    string  `json:"time_format,omitempty"` // "12h" or "24h"
	DataDir       string  `json:"data_dir,omitempty"`
	Store         string  `json:"store,omitempty"`
	StoreDSN      string  `json:"store_dsn,omitempty"`
	RedisAddr     string  `json:"redis_addr,omitempty"`
	AuthorityURL  string  `json:"authority_url,omitempty"`
	AuthorityFile string  `json:"authority_file,omitempty"`
	OverridesFile string  `json:"overrides_file,omitempty"`
	LogLevel      string  `json:"log_level,omitempty"`
	Timezone      string  `json:"timezone,omitempty"` // IANA name; empty means local time
	APIURL        string  `json:"api_url,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := -1
	school := -1
	return Config{
		Method:     &method,
		School:     &school,
		TimeFormat: "24h",
		Store:      store.BackendSQLite,
	}
}

func xdgDir(envVar string, fallback ...string) (string, error) {
	dir := os.Getenv(envVar)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(append([]string{home}, fallback...)...)
	}
	return filepath.Join(dir, appDirName), nil
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns where the tracker database and logs live.
// It respects $XDG_DATA_HOME if set, otherwise uses ~/.local/share/.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.WrapErr(apperrors.ParseError, err, "invalid config file %s", path)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return apperrors.Wrap(apperrors.InvalidInput, format, args...)
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		c.City = value
	case "country":
		c.Country = value
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return invalid("invalid latitude %q: must be a number", value)
		}
		if v < -90 || v > 90 {
			return invalid("invalid latitude %q: must be between -90 and 90", value)
		}
		c.Latitude = v
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return invalid("invalid longitude %q: must be a number", value)
		}
		if v < -180 || v > 180 {
			return invalid("invalid longitude %q: must be between -180 and 180", value)
		}
		c.Longitude = v
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return invalid("invalid method %q: must be an integer", value)
		}
		if v < 0 || v > 23 {
			return invalid("invalid method %q: must be between 0 and 23", value)
		}
		c.Method = &v
	case "school":
		v, err := strconv.Atoi(value)
		if err != nil {
			return invalid("invalid school %q: must be an integer", value)
		}
		if v != 0 && v != 1 {
			return invalid("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", value)
		}
		c.School = &v
	case "time_format":
		if value != "12h" && value != "24h" {
			return invalid("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "data_dir":
		c.DataDir = value
	case "store":
		if !isBackend(value) {
			return invalid("invalid store %q: must be one of %s", value, strings.Join(store.Backends, ", "))
		}
		c.Store = value
	case "store_dsn":
		if value != "" {
			if err := store.ValidateConnString(value); err != nil {
				return apperrors.WrapErr(apperrors.InvalidInput, err, "invalid store_dsn")
			}
		}
		c.StoreDSN = value
	case "redis_addr":
		c.RedisAddr = value
	case "authority_url":
		if value != "" && !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return invalid("invalid authority_url %q: must start with http:// or https://", value)
		}
		c.AuthorityURL = value
	case "authority_file":
		c.AuthorityFile = value
	case "overrides_file":
		c.OverridesFile = value
	case "log_level":
		if _, err := log.ParseLevel(value); err != nil {
			return invalid("invalid log_level %q: must be debug, info, warn or error", value)
		}
		c.LogLevel = value
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return invalid("invalid timezone %q: must be an IANA name such as Asia/Singapore", value)
		}
		c.Timezone = value
	case "api_url":
		if value != "" && !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return invalid("invalid api_url %q: must start with http:// or https://", value)
		}
		c.APIURL = value
	default:
		return invalid("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "latitude":
		if c.Latitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Latitude, 'f', -1, 64), nil
	case "longitude":
		if c.Longitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Longitude, 'f', -1, 64), nil
	case "method":
		if c.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Method), nil
	case "school":
		if c.School == nil {
			return "", nil
		}
		return strconv.Itoa(*c.School), nil
	case "time_format":
		return c.TimeFormat, nil
	case "data_dir":
		return c.DataDir, nil
	case "store":
		return c.Store, nil
	case "store_dsn":
		return c.StoreDSN, nil
	case "redis_addr":
		return c.RedisAddr, nil
	case "authority_url":
		return c.AuthorityURL, nil
	case "authority_file":
		return c.AuthorityFile, nil
	case "overrides_file":
		return c.OverridesFile, nil
	case "log_level":
		return c.LogLevel, nil
	case "timezone":
		return c.Timezone, nil
	case "api_url":
		return c.APIURL, nil
	default:
		return "", invalid("unknown config key %q", key)
	}
}

func isBackend(name string) bool {
	for _, b := range store.Backends {
		if b == name {
			return true
		}
	}
	return false
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// SchoolOrDefault returns the school value, falling back to the given default.
func (c *Config) SchoolOrDefault(def int) int {
	if c.School != nil {
		return *c.School
	}
	return def
}

// TimeZone returns the configured zone, or local time.
func (c *Config) TimeZone() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	tz, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return tz
}

// DataDirOrDefault returns the configured data directory or the XDG default.
func (c *Config) DataDirOrDefault() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return DefaultDataDir()
}

// StoreOptions resolves the persistence backend. A postgres store with no
// configured DSN reads it from the OS keyring.
func (c *Config) StoreOptions() (store.Options, error) {
	dir, err := c.DataDirOrDefault()
	if err != nil {
		return store.Options{}, err
	}

	opts := store.Options{
		Backend: c.Store,
		Dir:     dir,
		DSN:     c.StoreDSN,
		Redis:   store.RedisOptions{Addr: c.RedisAddr},
	}

	if opts.Backend == store.BackendPostgres && opts.DSN == "" {
		dsn, err := KeyringDSN()
		if err != nil {
			return store.Options{}, fmt.Errorf("postgres store needs store_dsn or a keyring entry: %w", err)
		}
		opts.DSN = dsn
	}
	return opts, nil
}
