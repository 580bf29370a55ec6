// Package config loads command-line configuration via viper; internal/search
// and internal/domain never import it — every tunable they need arrives as
// an explicit argument (search.Options, domain.Profile).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete configuration for the cmd/seed and cmd/solve
// entry points.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Solver   SolverConfig   `mapstructure:"solver"`
}

// LogConfig controls solverlog.New.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SolverConfig holds the search.Options knobs that are reasonable to tune
// from outside the binary.
type SolverConfig struct {
	MaxAttempts               int     `mapstructure:"max_attempts"`
	EnableCarbDownscaling     bool    `mapstructure:"enable_carb_downscaling"`
	CarbDownscaleStepFraction float64 `mapstructure:"carb_downscale_step_fraction"`
	CarbDownscaleMaxVariants  int     `mapstructure:"carb_downscale_max_variants"`
}

// Load reads configuration from configPath if non-empty, otherwise from a
// config.yaml found in ./configs or the working directory; environment
// variables (MEALPLAN_DATABASE_URL etc.) override file values, and defaults
// apply to anything left unset.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("mealplan")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("solver.max_attempts", 100000)
	v.SetDefault("solver.enable_carb_downscaling", false)
	v.SetDefault("solver.carb_downscale_step_fraction", 0.15)
	v.SetDefault("solver.carb_downscale_max_variants", 3)
}

func validate(cfg *Config) error {
	if cfg.Solver.MaxAttempts <= 0 {
		return fmt.Errorf("solver.max_attempts must be positive")
	}
	if cfg.Solver.EnableCarbDownscaling {
		if cfg.Solver.CarbDownscaleStepFraction <= 0 || cfg.Solver.CarbDownscaleMaxVariants <= 0 {
			return fmt.Errorf("carb downscaling requires a positive step fraction and variant count")
		}
	}
	return nil
}
