// Package config loads the TOML configuration shared by every command.
//
// A missing file is not an error: Load returns Default(). Flags override
// file values; see internal/cli.
//
//	cycle_length = 42
//	root_order   = "insertion"
//
//	[cache]
//	backend = "file"        # file, badger, redis or none
//	ttl     = "168h"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "info"
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cache"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
)

const appName = "cuckatoo"

// Cache backend names.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config is the full configuration file.
type Config struct {
	CycleLength int    `toml:"cycle_length"`
	RootOrder   string `toml:"root_order"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend string `toml:"backend"`

	// TTL is a Go duration string. Empty means cache.TTLSolutions.
	TTL string `toml:"ttl"`

	// Dir is the FileCache directory. Empty means the user cache dir.
	Dir string `toml:"dir"`

	// Namespace prefixes solution keys on every backend, so runs over
	// different edge generators can share one store.
	Namespace string `toml:"namespace"`

	BadgerPath string `toml:"badger_path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		CycleLength: cycle.DefaultLength,
		RootOrder:   string(cycle.OrderInsertion),
		Cache: CacheConfig{
			Backend:     BackendFile,
			TTL:         cache.TTLSolutions.String(),
			RedisAddr:   "localhost:6379",
			RedisPrefix: appName + ":",
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/cuckatoo/config.toml, falling back
// to the OS user config dir.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", appName+".toml")
	}
	return filepath.Join(dir, appName, "config.toml")
}

// Load reads the file at path over Default(). An empty path means
// DefaultPath(). A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := errors.ValidateCycleLength(c.CycleLength); err != nil {
		return err
	}
	if err := errors.ValidateRootOrder(c.RootOrder); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendBadger, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (want file, badger, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis backend needs cache.redis_addr")
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// TTLDuration parses TTL. Empty means cache.TTLSolutions.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return cache.TTLSolutions, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", c.TTL)
	}
	return d, nil
}

// CacheDir returns Dir, or the XDG cache directory (~/.cache/cuckatoo/).
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// BadgerDir returns BadgerPath, or a badger directory under CacheDir.
func (c CacheConfig) BadgerDir() (string, error) {
	if c.BadgerPath != "" {
		return c.BadgerPath, nil
	}
	dir, err := c.CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "badger"), nil
}

// Open creates the configured cache backend.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendBadger:
		path, err := c.BadgerDir()
		if err != nil {
			return nil, err
		}
		bc, err := cache.NewBadgerCache(path)
		if err != nil {
			return nil, err
		}
		return bc, nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := c.CacheDir()
		if err != nil {
			return nil, err
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// Keyer returns the solution keyer for the configured namespace.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Namespace+":")
}

// LogLevel returns the parsed log level, or info when it cannot be parsed.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
