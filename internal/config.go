package internal

import (
	"fmt"

	"github.com/spf13/viper"
)

// SqlensConfig is the CLI configuration, loaded from an optional yaml
// file. Every field has a usable default so running without a config
// file is the normal case.
type SqlensConfig struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Output struct {
		JSON bool `mapstructure:"json"`
	} `mapstructure:"output"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *SqlensConfig {
	var cfg SqlensConfig
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return &cfg
}

func LoadConfig(path string) (*SqlensConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg SqlensConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
