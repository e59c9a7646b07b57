// Package config loads engine configuration from a TOML file with
// environment-variable overrides.
//
// All settings have working defaults, so a missing config file is not an
// error: `versegraph view John.3.16 --source ...` works with no file at
// all, and `versegraph serve` only needs configuration when it should talk to
// Redis or MongoDB.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/model"
)

// Config is the full engine configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Source SourceConfig `toml:"source"`
	Cache  CacheConfig  `toml:"cache"`
	Layout LayoutConfig `toml:"layout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// SourceConfig selects and configures the payload backend.
type SourceConfig struct {
	// Backend is one of "http", "file", "mongo".
	Backend string `toml:"backend"`

	// URL is the annotation backend base URL for the http backend.
	URL string `toml:"url"`

	// Dir is the payload directory for the file backend.
	Dir string `toml:"dir"`

	// MongoURI, MongoDB, and MongoCollection configure the mongo backend.
	MongoURI        string `toml:"mongo_uri"`
	MongoDB         string `toml:"mongo_db"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig selects the payload cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "none".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory; empty means the user cache dir.
	Dir string `toml:"dir"`

	// RedisAddr, RedisPassword, and RedisDB configure the redis backend.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// LayoutConfig carries the canvas and seed defaults for the model builder.
type LayoutConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Seed   uint64  `toml:"seed"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Listen: ":8080"},
		Source: SourceConfig{
			Backend:         "http",
			MongoDB:         "versegraph",
			MongoCollection: "payloads",
		},
		Cache: CacheConfig{Backend: "file"},
		Layout: LayoutConfig{
			Width:  model.DefaultWidth,
			Height: model.DefaultHeight,
			Seed:   model.DefaultSeed,
		},
	}
}

// DefaultPath returns the conventional config file location,
// ~/.config/versegraph/config.toml. An empty string means no home directory
// could be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "versegraph", "config.toml")
}

// Load reads configuration from path, falling back to defaults when path is
// empty or the file does not exist. Environment variables override file
// values last. A file that exists but fails to parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file: defaults plus environment.
		case err != nil:
			return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays VERSEGRAPH_* environment variables.
func applyEnv(cfg *Config) {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr(&cfg.Server.Listen, "VERSEGRAPH_LISTEN")
	setStr(&cfg.Source.Backend, "VERSEGRAPH_SOURCE_BACKEND")
	setStr(&cfg.Source.URL, "VERSEGRAPH_SOURCE_URL")
	setStr(&cfg.Source.Dir, "VERSEGRAPH_SOURCE_DIR")
	setStr(&cfg.Source.MongoURI, "VERSEGRAPH_MONGO_URI")
	setStr(&cfg.Cache.Backend, "VERSEGRAPH_CACHE_BACKEND")
	setStr(&cfg.Cache.RedisAddr, "VERSEGRAPH_REDIS_ADDR")
	setStr(&cfg.Cache.RedisPassword, "VERSEGRAPH_REDIS_PASSWORD")

	if v := os.Getenv("VERSEGRAPH_LAYOUT_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Layout.Seed = seed
		}
	}
}
