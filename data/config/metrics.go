package config

import "github.com/spf13/viper"

// Metrics data metrics config
type Metrics struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace"`
}

// getMetricsConfig returns metrics config
func getMetricsConfig(v *viper.Viper) *Metrics {
	return &Metrics{
		Enabled:   getBoolOrDefault(v, "data.metrics.enabled", true),
		Namespace: getStringOrDefault(v, "data.metrics.namespace", "keyset"),
	}
}

// getBoolOrDefault returns bool value or default
func getBoolOrDefault(v *viper.Viper, key string, defaultValue bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return defaultValue
}
