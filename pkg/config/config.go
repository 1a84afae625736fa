// Package config loads flowlayout settings from a TOML file.
//
// The default location follows the XDG base directory convention:
// $XDG_CONFIG_HOME/flowlayout/config.toml, falling back to
// ~/.config/flowlayout/config.toml. A missing file is not an error; every
// setting has a default.
//
// Example:
//
//	[engine]
//	history_size = 50
//	default_algorithm = "tree"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl_seconds = 3600
//
//	[[templates]]
//	name = "wide-tree"
//	description = "Tree with generous spacing"
//	[templates.config]
//	algorithm = "tree"
//	levelSpacing = 120.0
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/engine"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/optimizer"
)

const (
	// AppName names the config and cache directories.
	AppName = "flowlayout"

	// FileName is the config file name inside the config directory.
	FileName = "config.toml"

	// DefaultServerAddr is where "flowlayout serve" listens.
	DefaultServerAddr = ":8080"
)

// =============================================================================
// Config
// =============================================================================

// Config is the decoded config file.
type Config struct {
	Engine    EngineConfig     `toml:"engine"`
	Cache     CacheConfig      `toml:"cache"`
	Server    ServerConfig     `toml:"server"`
	Templates []TemplateConfig `toml:"templates"`
}

// EngineConfig tunes the layout engine.
type EngineConfig struct {
	HistorySize        int    `toml:"history_size"`
	OptimizeIterations int    `toml:"optimize_iterations"`
	DefaultAlgorithm   string `toml:"default_algorithm"`
}

// CacheConfig selects a cache backend.
type CacheConfig struct {
	// Backend is "none", "file" or "redis".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Defaults to the XDG cache dir.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	// KeyScope prefixes every cache key so deployments can share a backend.
	KeyScope string `toml:"key_scope"`

	// TTLSeconds bounds entry lifetime. Zero keeps entries forever.
	TTLSeconds int `toml:"ttl_seconds"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// TemplateConfig is a user-defined layout template.
type TemplateConfig struct {
	Name        string        `toml:"name"`
	Description string        `toml:"description"`
	Config      layout.Config `toml:"config"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			HistorySize:        engine.DefaultHistorySize,
			OptimizeIterations: optimizer.DefaultIterations,
			DefaultAlgorithm:   string(layout.NameHierarchical),
		},
		Cache: CacheConfig{
			Backend:     cache.BackendFile,
			RedisAddr:   "localhost:6379",
			RedisPrefix: cache.DefaultRedisPrefix,
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the config file at path over [Default]. An empty path selects
// [Path]. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings that are not checked by the packages they
// configure.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q is not one of none, file, redis", c.Cache.Backend)
	}
	if c.Cache.TTLSeconds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl_seconds must not be negative")
	}
	if c.Engine.HistorySize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.history_size must not be negative")
	}
	for _, t := range c.Templates {
		if err := errors.ValidateTemplateName(t.Name); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Conversions
// =============================================================================

// EngineOptions returns engine options for these settings. store and keyer are
// passed through; either may be nil.
func (c Config) EngineOptions(store cache.Cache, keyer cache.Keyer) engine.Options {
	return engine.Options{
		Cache:              store,
		Keyer:              keyer,
		CacheTTL:           c.TTL(),
		HistorySize:        c.Engine.HistorySize,
		OptimizeIterations: c.Engine.OptimizeIterations,
		DefaultAlgorithm:   layout.AlgorithmName(c.Engine.DefaultAlgorithm),
	}
}

// CacheOptions returns the backend selection for [cache.Open]. The file
// backend falls back to [CacheDir] when no dir is set.
func (c Config) CacheOptions() cache.Options {
	dir := c.Cache.Dir
	if dir == "" && c.Cache.Backend == cache.BackendFile {
		dir, _ = CacheDir()
	}
	backend := c.Cache.Backend
	if backend == cache.BackendFile && dir == "" {
		backend = cache.BackendNone
	}
	return cache.Options{
		Backend: backend,
		Dir:     dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.RedisPrefix,
		},
	}
}

// Keyer returns the cache keyer, scoped by KeyScope when one is set.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.KeyScope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.KeyScope)
}

// TTL is the cache entry lifetime.
func (c Config) TTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// EngineTemplates converts the [[templates]] tables.
func (c Config) EngineTemplates() []engine.Template {
	out := make([]engine.Template, 0, len(c.Templates))
	for _, t := range c.Templates {
		out = append(out, engine.Template{Name: t.Name, Description: t.Description, Config: t.Config})
	}
	return out
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the config file location (~/.config/flowlayout/config.toml).
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/flowlayout/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
