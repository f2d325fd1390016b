// Package config loads record server settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/euforicio/scratchpad/internal/logging"
)

// EnvPrefix is the prefix of environment overrides, e.g. SCRATCHPAD_SERVER_JWT_SECRET
const EnvPrefix = "SCRATCHPAD_SERVER"

// minSecretLen is the shortest accepted HMAC secret
const minSecretLen = 16

// Config holds server settings.
type Config struct {
	Listen     string        `mapstructure:"listen"`
	DB         string        `mapstructure:"db"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	Log        LogConfig     `mapstructure:"log"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	RateWindow time.Duration `mapstructure:"rate_window"`
	RateLimit  int           `mapstructure:"rate_limit"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("db", "scratchpad-server.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", "720h")
	v.SetDefault("rate_limit", 600)
	v.SetDefault("rate_window", "1m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
}

// Load reads configuration into a Config. Flags must be bound to v before the call.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < minSecretLen {
		return fmt.Errorf("jwt_secret must be at least %d bytes", minSecretLen)
	}
	if c.DB == "" {
		return errors.New("db is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %d", c.RateLimit)
	}
	return nil
}

// LogOptions converts the log section for logging.New.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}
