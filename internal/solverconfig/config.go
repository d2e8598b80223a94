// Package solverconfig loads the tunable knobs around CBS's horizon
// policy from a YAML config file via viper, keeping the core's
// HorizonPolicy free of any file-format or flag-parsing concern.
package solverconfig

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/elektrokombinacija/mapf-cbs/internal/cbs"
)

// Config mirrors cbs.HorizonPolicy plus the driver-level knobs that don't
// belong in the core (log level, metrics).
type Config struct {
	HorizonBuffer  int    `mapstructure:"horizon_buffer"`
	DeepeningTries int    `mapstructure:"deepening_tries"`
	LogLevel       string `mapstructure:"log_level"`
	MetricsAddr    string `mapstructure:"metrics_addr"`
}

// Default returns the configuration matching the reference
// implementation's constants: a horizon buffer of 10, 3 low-level
// attempts per replan, info-level logging, metrics disabled.
func Default() Config {
	return Config{
		HorizonBuffer:  10,
		DeepeningTries: 3,
		LogLevel:       "info",
		MetricsAddr:    "",
	}
}

// FromYAML reads path via viper and overlays it onto Default(). Unset
// fields keep their default value, so a config file only needs to
// mention what it overrides.
func FromYAML(path string) (Config, error) {
	cfg := Default()

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	vp.SetDefault("horizon_buffer", cfg.HorizonBuffer)
	vp.SetDefault("deepening_tries", cfg.DeepeningTries)
	vp.SetDefault("log_level", cfg.LogLevel)
	vp.SetDefault("metrics_addr", cfg.MetricsAddr)

	if err := vp.ReadInConfig(); err != nil {
		return Config{}, err
	}
	if err := vp.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HorizonPolicy projects the solver-relevant fields into cbs.HorizonPolicy.
func (c Config) HorizonPolicy() cbs.HorizonPolicy {
	return cbs.HorizonPolicy{Buffer: c.HorizonBuffer, DeepeningTries: c.DeepeningTries}
}
