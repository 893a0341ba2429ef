package server

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the API server configuration, loaded from a TOML file.
//
// Example:
//
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "bgpfig"
//
//	[share]
//	ttl = "720h"
type Config struct {
	Addr  string      `toml:"addr"`
	Cache CacheConfig `toml:"cache"`
	Mongo MongoConfig `toml:"mongo"`
	Share ShareConfig `toml:"share"`
}

// CacheConfig selects and configures the document cache backend.
type CacheConfig struct {
	// Backend is one of "none", "file", "redis".
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"` // file backend only
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures share persistence. An empty URI selects the
// in-memory share store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ShareConfig configures share lifetimes.
type ShareConfig struct {
	TTL duration `toml:"ttl"`
}

// duration wraps time.Duration for TOML decoding ("30s", "720h", ...).
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr: ":8080",
		Cache: CacheConfig{
			Backend: "none",
		},
		Mongo: MongoConfig{
			Database: "bgpfig",
		},
		Share: ShareConfig{
			TTL: duration{30 * 24 * time.Hour},
		},
	}
}

// LoadConfig reads a TOML config file, layering it over the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", "none", "file", "redis":
	default:
		return fmt.Errorf("invalid cache backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache backend %q requires cache.redis.addr", c.Cache.Backend)
	}
	if c.Share.TTL.Duration < 0 {
		return fmt.Errorf("share ttl must not be negative")
	}
	return nil
}
