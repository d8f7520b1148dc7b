package config

import (
	"trading-journal/pkg/config"
)

// Config holds the full configuration for the journal service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	API      config.API      `mapstructure:"api"`
	Storage  config.Storage  `mapstructure:"storage"`
	Sweeper  config.Sweeper  `mapstructure:"sweeper"`
}

// Load loads the journal service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
