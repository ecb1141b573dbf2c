package config

import (
	"time"

	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"data.backend":    "local",
	"data.dir":        "public/data",
	"data.base_url":   "",
	"data.bucket":     "",
	"data.prefix":     "",
	"data.region":     "",
	"data.endpoint":   "",
	"data.access_key": "",
	"data.secret_key": "",
	"data.use_ssl":    true,

	"cache.backend":      "none",
	"cache.memory_bytes": int64(256 << 20),
	"cache.redis_url":    "",
	"cache.ttl":          24 * time.Hour,

	"fetch.max_in_flight":       int64(20),
	"fetch.requests_per_second": 0.0,
	"fetch.timeout":             30 * time.Second,

	"engine.batch_size":      20,
	"engine.cache_capacity":  100,
	"engine.codec":           "json",
	"engine.viewport_filter": false,

	"server.addr":          ":8080",
	"server.mode":          "release",
	"server.read_timeout":  15 * time.Second,
	"server.write_timeout": 60 * time.Second,

	"log.level":  "info",
	"log.format": "text",

	"metrics.enabled": true,
}

func setDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Default returns the configuration with every default applied.
func Default() *Config {
	cfg, err := unmarshal(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}
