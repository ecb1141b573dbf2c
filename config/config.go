// Package config loads process configuration for the vnbgeo command from a
// YAML file, VNBGEO_* environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the complete process configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data" yaml:"data"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Fetch   FetchConfig   `mapstructure:"fetch" yaml:"fetch"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// DataConfig selects the data root.
type DataConfig struct {
	// Backend is one of http, local, s3, minio.
	Backend   string `mapstructure:"backend" yaml:"backend"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	Dir       string `mapstructure:"dir" yaml:"dir"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
	Region    string `mapstructure:"region" yaml:"region"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
}

// CacheConfig selects the byte cache in front of the data root.
type CacheConfig struct {
	// Backend is one of none, memory, redis.
	Backend     string        `mapstructure:"backend" yaml:"backend"`
	MemoryBytes int64         `mapstructure:"memory_bytes" yaml:"memory_bytes"`
	RedisURL    string        `mapstructure:"redis_url" yaml:"redis_url"`
	TTL         time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// FetchConfig limits requests to the data root.
type FetchConfig struct {
	MaxInFlight       int64         `mapstructure:"max_in_flight" yaml:"max_in_flight"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// EngineConfig tunes the browser.
type EngineConfig struct {
	BatchSize      int    `mapstructure:"batch_size" yaml:"batch_size"`
	CacheCapacity  int    `mapstructure:"cache_capacity" yaml:"cache_capacity"`
	Codec          string `mapstructure:"codec" yaml:"codec"`
	ViewportFilter bool   `mapstructure:"viewport_filter" yaml:"viewport_filter"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	Mode         string        `mapstructure:"mode" yaml:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	var errs []error

	switch c.Data.Backend {
	case "http":
		if c.Data.BaseURL == "" {
			errs = append(errs, errors.New("data.base_url is required for the http backend"))
		}
	case "local":
		if c.Data.Dir == "" {
			errs = append(errs, errors.New("data.dir is required for the local backend"))
		}
	case "s3":
		if c.Data.Bucket == "" {
			errs = append(errs, errors.New("data.bucket is required for the s3 backend"))
		}
	case "minio":
		if c.Data.Bucket == "" || c.Data.Endpoint == "" {
			errs = append(errs, errors.New("data.bucket and data.endpoint are required for the minio backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("data.backend %q is not one of http, local, s3, minio", c.Data.Backend))
	}

	switch c.Cache.Backend {
	case "none", "":
	case "memory":
		if c.Cache.MemoryBytes <= 0 {
			errs = append(errs, errors.New("cache.memory_bytes must be positive"))
		}
	case "redis":
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache.redis_url is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q is not one of none, memory, redis", c.Cache.Backend))
	}

	if c.Fetch.MaxInFlight < 0 || c.Fetch.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("fetch limits must not be negative"))
	}
	if c.Engine.BatchSize <= 0 {
		errs = append(errs, errors.New("engine.batch_size must be positive"))
	}
	if c.Engine.CacheCapacity <= 0 {
		errs = append(errs, errors.New("engine.cache_capacity must be positive"))
	}
	switch c.Engine.Codec {
	case "json", "go-json":
	default:
		errs = append(errs, fmt.Errorf("engine.codec %q is not one of json, go-json", c.Engine.Codec))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}
