// Package config loads runtime settings for the silt-rt tool.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/silt-lang/silt/pkg/core"
	"github.com/silt-lang/silt/pkg/heap"
)

const (
	configName = "silt"
	configType = "yaml"
	envPrefix  = "SILT"

	KeyChecks    = "checks"
	KeyHeapLimit = "heap_limit"
	KeyTrace     = "trace"
)

type Config struct {
	Checks    bool
	HeapLimit int64
	Trace     bool
}

// Load reads the configuration. With an empty path it looks for silt.yaml
// in dir, and a missing file is not an error. An explicit path must exist.
// Environment variables (SILT_CHECKS, SILT_HEAP_LIMIT, SILT_TRACE) take
// precedence over the file.
func Load(dir, path string) (Config, error) {
	v := viper.New()
	v.SetDefault(KeyChecks, false)
	v.SetDefault(KeyHeapLimit, 0)
	v.SetDefault(KeyTrace, false)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Checks:    v.GetBool(KeyChecks),
		HeapLimit: v.GetInt64(KeyHeapLimit),
		Trace:     v.GetBool(KeyTrace),
	}
	if cfg.HeapLimit < 0 {
		return Config{}, fmt.Errorf("config: %s must not be negative, got %d", KeyHeapLimit, cfg.HeapLimit)
	}
	return cfg, nil
}

// Apply installs the settings that live outside the caller's control:
// debug checks are process-wide, the limit applies to h.
func (c Config) Apply(h *heap.Heap) {
	core.EnableChecks(c.Checks)
	h.SetLimit(c.HeapLimit)
}
