package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/ncobase/keyset/logging/logger"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "KEYSET"

// Config represents the configuration implementation.
type Config struct {
	AppName string
	RunMode string
	Server  *Server
	Logger  *Logger
	Data    *Data
	Paging  *Paging
	Viper   *viper.Viper
}

// LoadConfig reads the configuration file at configPath, or searches the
// default locations when configPath is empty.
func LoadConfig(configPath string) (*Config, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/keyset")
		v.AddConfigPath("$HOME/.keyset")
		v.AddConfigPath(".")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(v)
}

// Load builds the configuration from a populated viper instance.
func Load(v *viper.Viper) (*Config, error) {
	data := getDataConfig(v)
	pg, err := getPagingConfig(v, data.IDField)
	if err != nil {
		return nil, err
	}
	if pg.IDField != data.IDField {
		return nil, fmt.Errorf("paging.id_field %q does not match data.id_field %q", pg.IDField, data.IDField)
	}

	return &Config{
		AppName: getStringOrDefault(v, "app_name", "keyset"),
		RunMode: getStringOrDefault(v, "run_mode", "release"),
		Server:  getServerConfig(v),
		Logger:  getLoggerConfig(v),
		Data:    data,
		Paging:  pg,
		Viper:   v,
	}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Watch watches the configuration file of cfg and calls callback with the
// reloaded configuration. Invalid updates are logged and skipped.
func Watch(cfg *Config, callback func(*Config)) {
	v := cfg.Viper
	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := Load(v)
		if err != nil {
			logger.Errorf(context.Background(), "error reloading config %s: %v", e.Name, err)
			return
		}
		logger.Infof(context.Background(), "config reloaded from %s", e.Name)
		callback(next)
	})
	v.WatchConfig()
}
