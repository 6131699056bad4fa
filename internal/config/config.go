// Package config loads stackprint settings from .stackprint.yaml and
// STACKPRINT_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/stackprint/pkg/analyzer"
	"github.com/matzehuels/stackprint/pkg/cache"
)

// FileName is the config file looked up in the working directory when no
// explicit path is given.
const FileName = ".stackprint.yaml"

// EnvPrefix prefixes environment overrides, e.g. STACKPRINT_CACHE_BACKEND.
const EnvPrefix = "STACKPRINT"

// Cache backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Config holds all settings.
type Config struct {
	Analyze analyzer.Config
	Cache   CacheConfig
	Server  ServerConfig

	// File is the config file that was read, empty when none was found.
	File string
}

// CacheConfig selects and tunes the fingerprint cache backend.
type CacheConfig struct {
	Backend    string
	RedisURL   string
	TTL        time.Duration
	MemorySize int

	// Prefix scopes every cache key, so several deployments can share one
	// Redis without reading each other's entries.
	Prefix string
}

// ServerConfig configures the HTTP server started by serve.
type ServerConfig struct {
	Addr    string
	Root    string
	Timeout time.Duration
}

func setDefaults(v *viper.Viper) {
	d := analyzer.DefaultConfig()
	v.SetDefault("analyze.extensions", d.Extensions)
	v.SetDefault("analyze.exclude", d.ExcludeDirs)
	v.SetDefault("analyze.max_files", d.MaxFiles)
	v.SetDefault("analyze.workers", d.Workers)

	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.ttl", cache.TTLFingerprint)
	v.SetDefault("cache.memory_size", cache.DefaultMemorySize)
	v.SetDefault("cache.prefix", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.root", ".")
	v.SetDefault("server.timeout", 60*time.Second)
}

// Load reads configuration. An explicit path must exist; otherwise
// .stackprint.yaml in the working directory is used when present.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Analyze: analyzer.Config{
			Extensions:  v.GetStringSlice("analyze.extensions"),
			ExcludeDirs: v.GetStringSlice("analyze.exclude"),
			MaxFiles:    v.GetInt("analyze.max_files"),
			Workers:     v.GetInt("analyze.workers"),
		},
		Cache: CacheConfig{
			Backend:    strings.ToLower(v.GetString("cache.backend")),
			RedisURL:   v.GetString("cache.redis_url"),
			TTL:        v.GetDuration("cache.ttl"),
			MemorySize: v.GetInt("cache.memory_size"),
			Prefix:     v.GetString("cache.prefix"),
		},
		Server: ServerConfig{
			Addr:    v.GetString("server.addr"),
			Root:    v.GetString("server.root"),
			Timeout: v.GetDuration("server.timeout"),
		},
		File: v.ConfigFileUsed(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendMemory, BackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (want file, redis, memory or none)", c.Cache.Backend)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

// Keyer returns the key derivation for the configured prefix.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix)
}

// OpenCache opens the configured cache backend. fileDir is used by the
// file backend.
func (c CacheConfig) OpenCache(ctx context.Context, fileDir string) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(c.MemorySize)
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.RedisURL)
	default:
		if fileDir == "" {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(fileDir)
	}
}
