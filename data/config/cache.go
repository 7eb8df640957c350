package config

import (
	"time"

	"github.com/spf13/viper"
)

// Cache page cache config
type Cache struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
	Prefix  string        `yaml:"prefix" json:"prefix"`
}

// getCacheConfig reads the scan window cache config
func getCacheConfig(v *viper.Viper) *Cache {
	ttl := v.GetDuration("data.cache.ttl")
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Cache{
		Enabled: v.GetBool("data.cache.enabled"),
		TTL:     ttl,
		Prefix:  getStringOrDefault(v, "data.cache.prefix", "keyset:page"),
	}
}
