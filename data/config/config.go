package config

import (
	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	DriverMemory   = "memory"
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config data config struct
type Config struct {
	Driver     string   `yaml:"driver" json:"driver"`
	Collection string   `yaml:"collection" json:"collection"`
	IDField    string   `yaml:"id_field" json:"id_field"`
	Fields     []*Field `yaml:"fields" json:"fields"`
	*Database  `yaml:"database" json:"database"`
	*Redis     `yaml:"redis" json:"redis"`
	*MongoDB   `yaml:"mongodb" json:"mongodb"`
	*Cache     `yaml:"cache" json:"cache"`
	*Metrics   `yaml:"metrics" json:"metrics"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Driver:     getStringOrDefault(v, "data.driver", DriverMemory),
		Collection: getStringOrDefault(v, "data.collection", "records"),
		IDField:    getIDField(v),
		Fields:     getFieldConfigs(v),
		Database:   getDatabaseConfig(v),
		Redis:      getRedisConfigs(v),
		MongoDB:    getMongoDBConfigs(v),
		Cache:      getCacheConfig(v),
		Metrics:    getMetricsConfig(v),
	}
}

// getIDField falls back to the paging identity field so the store and the
// paginator agree on it.
func getIDField(v *viper.Viper) string {
	if s := v.GetString("data.id_field"); s != "" {
		return s
	}
	if s := v.GetString("paging.id_field"); s != "" {
		return s
	}
	return "_id"
}

// getStringOrDefault returns string value or default
func getStringOrDefault(v *viper.Viper, key, defaultValue string) string {
	if v.IsSet(key) && v.GetString(key) != "" {
		return v.GetString(key)
	}
	return defaultValue
}

// getIntOrDefault returns int value or default
func getIntOrDefault(v *viper.Viper, key string, defaultValue int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return defaultValue
}
