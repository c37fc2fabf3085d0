package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
)

// envOverrides mirrors ValidKeys as RAMADAN_* variables. Values stay strings
// so they pass through Set and get the same validation as `config set`.
type envOverrides struct {
	City          string `env:"RAMADAN_CITY"`
	Country       string `env:"RAMADAN_COUNTRY"`
	Latitude      string `env:"RAMADAN_LATITUDE"`
	Longitude     string `env:"RAMADAN_LONGITUDE"`
	Method        string `env:"RAMADAN_METHOD"`
	School        string `env:"RAMADAN_SCHOOL"`
	TimeFormat    string `env:"RAMADAN_TIME_FORMAT"`
	DataDir       string `env:"RAMADAN_DATA_DIR"`
	Store         string `env:"RAMADAN_STORE"`
	StoreDSN      string `env:"RAMADAN_STORE_DSN"`
	RedisAddr     string `env:"RAMADAN_REDIS_ADDR"`
	AuthorityURL  string `env:"RAMADAN_AUTHORITY_URL"`
	AuthorityFile string `env:"RAMADAN_AUTHORITY_FILE"`
	OverridesFile string `env:"RAMADAN_OVERRIDES_FILE"`
	LogLevel      string `env:"RAMADAN_LOG_LEVEL"`
	Timezone      string `env:"RAMADAN_TIMEZONE"`
	APIURL        string `env:"RAMADAN_API_URL"`
}

func (o envOverrides) pairs() [][2]string {
	return [][2]string{
		{"city", o.City},
		{"country", o.Country},
		{"latitude", o.Latitude},
		{"longitude", o.Longitude},
		{"method", o.Method},
		{"school", o.School},
		{"time_format", o.TimeFormat},
		{"data_dir", o.DataDir},
		{"store", o.Store},
		{"store_dsn", o.StoreDSN},
		{"redis_addr", o.RedisAddr},
		{"authority_url", o.AuthorityURL},
		{"authority_file", o.AuthorityFile},
		{"overrides_file", o.OverridesFile},
		{"log_level", o.LogLevel},
		{"timezone", o.Timezone},
		{"api_url", o.APIURL},
	}
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are named). Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
		logger.Debug("loaded env file", "path", f)
	}
	return nil
}

// ApplyEnv overlays RAMADAN_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	for _, kv := range o.pairs() {
		if kv[1] == "" {
			continue
		}
		if err := c.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("RAMADAN_%s: %w", strings.ToUpper(kv[0]), err)
		}
	}
	return nil
}
