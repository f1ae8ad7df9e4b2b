// Package config loads application settings for the CLI and the server.
// Precedence is environment over file over defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"coursetable/pkg/model"
)

// Config is the application wide configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Engine EngineConfig `mapstructure:"engine"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// EngineConfig mirrors model.Config in a file friendly shape.
type EngineConfig struct {
	MaxIterations  int     `mapstructure:"max_iterations"`
	SoftCostWeight float64 `mapstructure:"soft_cost_weight"`
	AllowPartial   bool    `mapstructure:"allow_partial"`
	Workers        int     `mapstructure:"workers"`
	CostThreshold  float64 `mapstructure:"cost_threshold"`
	ImprovePasses  int     `mapstructure:"improve_passes"`
	GapWeight      float64 `mapstructure:"gap_weight"`
	BalanceWeight  float64 `mapstructure:"balance_weight"`
	VenueWeight    float64 `mapstructure:"venue_weight"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file, or from coursetable.yaml on
// the search path when the path is empty. A missing file is only an error
// when it was named explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()

	engine := model.DefaultConfig()
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.path", "coursetable.db")
	v.SetDefault("engine.max_iterations", engine.MaxIterations)
	v.SetDefault("engine.soft_cost_weight", engine.SoftCostWeight)
	v.SetDefault("engine.allow_partial", false)
	v.SetDefault("engine.workers", engine.Workers)
	v.SetDefault("engine.cost_threshold", 0.0)
	v.SetDefault("engine.improve_passes", engine.ImprovePasses)
	v.SetDefault("engine.gap_weight", engine.Weights.Gap)
	v.SetDefault("engine.balance_weight", engine.Weights.Balance)
	v.SetDefault("engine.venue_weight", engine.Weights.Venue)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("coursetable")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("COURSETABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects configurations the application cannot start with.
func (config *Config) Validate() error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535, got %d", config.Server.Port)
	}
	if config.Engine.MaxIterations < 0 {
		return fmt.Errorf("invalid config: engine.max_iterations must not be negative, got %d", config.Engine.MaxIterations)
	}
	if config.Store.Path == "" {
		return errors.New("invalid config: store.path must not be empty")
	}
	return nil
}

// EngineOptions converts the engine section into the scheduler's run options.
func (config *Config) EngineOptions() model.Config {
	return model.Config{
		MaxIterations:  config.Engine.MaxIterations,
		SoftCostWeight: config.Engine.SoftCostWeight,
		AllowPartial:   config.Engine.AllowPartial,
		Workers:        config.Engine.Workers,
		CostThreshold:  config.Engine.CostThreshold,
		ImprovePasses:  config.Engine.ImprovePasses,
		Weights: model.CostWeights{
			Gap:     config.Engine.GapWeight,
			Balance: config.Engine.BalanceWeight,
			Venue:   config.Engine.VenueWeight,
		},
	}
}
