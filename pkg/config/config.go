// Package config loads tonegraph settings from an optional TOML file.
//
// The file lives at $XDG_CONFIG_HOME/tonegraph/config.toml (falling back to
// ~/.config/tonegraph/config.toml) unless a path is given explicitly:
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[layout]
//	default = "tonnetz"
//	params = { scale = 2.0 }
//
//	[compare]
//	timeout = "5s"
//
// Every section is optional and missing values keep their defaults. Command
// line flags override whatever the file sets.
package config

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tonegraph/pkg/compare"
	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/pipeline"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// DefaultServerAddr is where `tonegraph serve` listens.
const DefaultServerAddr = ":8080"

// Config is the decoded configuration file.
type Config struct {
	Cache    Cache    `toml:"cache"`
	Store    Store    `toml:"store"`
	Layout   Layout   `toml:"layout"`
	Optimize Optimize `toml:"optimize"`
	Compare  Compare  `toml:"compare"`
	Server   Server   `toml:"server"`
}

// Cache selects the pipeline cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// Store selects where named graphs are persisted.
type Store struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Layout sets the layout used when a command names none.
type Layout struct {
	Default string         `toml:"default"`
	Params  map[string]any `toml:"params"`
}

// Optimize sets the strategies `optimize` runs without --strategy.
type Optimize struct {
	Strategies []string `toml:"strategies"`
}

// Compare bounds the edit-distance search.
type Compare struct {
	Timeout  time.Duration `toml:"timeout"`
	MaxSteps int           `toml:"max_steps"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache:   Cache{Backend: CacheFile},
		Store:   Store{Backend: StoreFile},
		Layout:  Layout{Default: pipeline.DefaultLayout},
		Compare: Compare{Timeout: compare.DefaultTimeout, MaxSteps: compare.DefaultMaxSteps},
		Server: Server{
			Addr:         DefaultServerAddr,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// Load reads path over the defaults. An empty path means DefaultPath, which
// may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if !slices.Contains([]string{StoreFile, StoreMongo}, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "store.backend must be file or mongo, got %q", c.Store.Backend)
	}
	if c.Store.Backend == StoreMongo && (c.Store.MongoURI == "" || c.Store.MongoDatabase == "") {
		return errors.New(errors.ErrCodeInvalidInput, "store.backend = mongo needs mongo_uri and mongo_database")
	}
	if c.Layout.Default != "" {
		if err := pipeline.ValidateLayout(c.Layout.Default); err != nil {
			return err
		}
	}
	if c.Compare.Timeout < 0 || c.Compare.MaxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "compare limits must not be negative")
	}
	return nil
}

// CompareOptions converts the compare section.
func (c Config) CompareOptions() compare.Options {
	return compare.Options{Timeout: c.Compare.Timeout, MaxSteps: c.Compare.MaxSteps}
}
