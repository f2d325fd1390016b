// Package config loads client settings from defaults, a YAML file,
// SCRATCHPAD_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/euforicio/scratchpad/internal/client/storage/filestore"
	"github.com/euforicio/scratchpad/internal/logging"
)

// EnvPrefix is the prefix of environment overrides, e.g. SCRATCHPAD_SERVER_URL
const EnvPrefix = "SCRATCHPAD"

const dbFileName = "scratchpad.db"

// Config holds client settings.
type Config struct {
	DataDir   string     `mapstructure:"data_dir"`
	ServerURL string     `mapstructure:"server_url"`
	Token     string     `mapstructure:"token"`
	Zone      string     `mapstructure:"zone"`
	Log       LogConfig  `mapstructure:"log"`
	Sync      SyncConfig `mapstructure:"sync"`
}

// SyncConfig controls the sync coordinator.
type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Enabled  bool          `mapstructure:"enabled"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}

	v.SetDefault("data_dir", filepath.Join(dir, "scratchpad"))
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("token", "")
	v.SetDefault("zone", "ScratchpadData")
	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.interval", "120s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// Load reads configuration into a Config. Flags must be bound to v before the call.
// An explicit file must exist; otherwise config.yaml is looked up in data_dir.
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
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("data_dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
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

// Validate checks settings that would make the client misbehave.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	if c.Zone == "" {
		return errors.New("zone is required")
	}
	if c.Sync.Enabled {
		if c.ServerURL == "" {
			return errors.New("server_url is required when sync is enabled")
		}
		if c.Sync.Interval <= 0 {
			return fmt.Errorf("sync.interval must be positive, got %s", c.Sync.Interval)
		}
	}
	return nil
}

// DBPath is the local bbolt database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, dbFileName)
}

// MetadataPath is the record metadata cache file.
func (c *Config) MetadataPath() string {
	return filepath.Join(c.DataDir, filestore.MetadataFileName)
}

// StatePath is the sync cursor file.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, filestore.StateFileName)
}

// LogOptions converts the log section for logging.New.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}
