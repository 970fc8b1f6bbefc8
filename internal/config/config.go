// Package config loads the optional smolbox.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "smolbox.yaml"

// Store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config is the process-wide configuration, resolved once at startup.
type Config struct {
	// Root overrides environment detection when set.
	Root string `mapstructure:"root" yaml:"root"`
	// Marker is the sandbox marker directory checked by detection.
	Marker   string      `mapstructure:"marker" yaml:"marker"`
	Store    string      `mapstructure:"store" yaml:"store"`
	Redis    RedisConfig `mapstructure:"redis" yaml:"redis"`
	LogLevel string      `mapstructure:"log_level" yaml:"log_level"`
	// Listen is the address used by `smolbox serve`.
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// RedisConfig configures the redis store backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Store:  StoreFile,
		Listen: ":8080",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "smolbox:",
		},
	}
}

// Load reads path over the defaults. An empty path means DefaultFile, which
// may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode parses YAML into cfg, leaving unset fields untouched.
// Scalars are weakly typed so `db: "2"` and `db: 2` both work.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (expected %s, %s or %s)", c.Store, StoreFile, StoreRedis, StoreMemory)
	}
	if c.Store == StoreRedis && c.Redis.Addr == "" {
		return errors.New("redis store requires redis.addr")
	}
	return nil
}
