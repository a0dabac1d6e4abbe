// Package config provides configuration management for the backtest engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// Environment variable placeholders in the YAML file (${VAR_NAME}) are expanded.
// A missing file is not an error: defaults plus environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("STATMUSE_PICKS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			expanded := os.ExpandEnv(string(data))
			if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "statmuse-picks-backtest")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("backtest.initial_bankroll", 1000.0)
	v.SetDefault("backtest.output_dir", "./output")

	v.SetDefault("betting.min_confidence", 0.0)
	v.SetDefault("betting.default_decimal_odds", 2.0)
	v.SetDefault("betting.max_fraction_per_bet", 0.02)

	v.SetDefault("calibration.enabled", false)
	v.SetDefault("calibration.method", "isotonic")
	v.SetDefault("calibration.split", "train")
	v.SetDefault("calibration.kfold_folds", 5)
	v.SetDefault("calibration.train_fraction", 0.7)

	v.SetDefault("metrics.enabled", true)
}
