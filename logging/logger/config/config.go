package config

import (
	"github.com/spf13/viper"
)

// Config configuration struct
type Config struct {
	Level      int      `json:"level" yaml:"level"`
	Format     string   `json:"format" yaml:"format"`
	Output     string   `json:"output" yaml:"output"`
	OutputFile string   `json:"output_file" yaml:"output_file"`
	Masked     []string `json:"masked_fields" yaml:"masked_fields"`
}

// Default sensitive field names masked in log entries
var defaultMaskedFields = []string{
	"password", "secret", "cursor_secret", "source", "uri", "token",
}

// DefaultConfig returns a text logger on stdout at info level.
func DefaultConfig() *Config {
	return &Config{
		Level:  4,
		Format: "text",
		Output: "stdout",
		Masked: defaultMaskedFields,
	}
}

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	if !v.IsSet("logger") {
		return DefaultConfig()
	}

	masked := v.GetStringSlice("logger.masked_fields")
	if len(masked) == 0 {
		masked = defaultMaskedFields
	}

	return &Config{
		Level:      v.GetInt("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
		Masked:     masked,
	}
}
