// Package config loads cache configuration the way coremain/run.go
// loads mosdns's: github.com/spf13/viper reads the file, and
// github.com/go-viper/mapstructure/v2 decodes it with the same strict
// decoder options — ErrorUnused so a typo'd key fails at startup
// instead of being silently ignored, WeaklyTypedInput so YAML's usual
// looseness (numbers-as-strings, etc.) still works.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is everything the cache facade needs to start.
type Config struct {
	MaxCacheSize int    `yaml:"max_cache_size"`
	MinTTL       uint32 `yaml:"min_ttl"`
	MaxTTL       uint32 `yaml:"max_ttl"`

	// BypassFile, if set, names a file containing a single
	// pkg/policy admission-bypass expression, hot-reloaded by
	// pkg/config.WatchBypassFile (see reload.go).
	BypassFile string `yaml:"bypass_file"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Load reads and decodes a config file. If filePath is empty, viper
// searches the working directory for a file named "config.*", the
// same convention loadConfig uses.
func Load(filePath string) (*Config, string, error) {
	v := viper.New()
	if len(filePath) > 0 {
		v.SetConfigFile(filePath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, "", fmt.Errorf("config: read: %w", err)
	}

	decoderOpt := func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
		dc.TagName = "yaml"
		dc.WeaklyTypedInput = true
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg, decoderOpt); err != nil {
		return nil, "", fmt.Errorf("config: decode: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}
