// Package config loads process configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config is the process configuration
type Config struct {
	// BotToken authenticates against the Telegram Bot API.
	// Required for serving; the stats command runs without it.
	BotToken string `envconfig:"BOT_TOKEN"`

	// Workers is the number of dispatch lanes
	Workers int `envconfig:"WORKERS" default:"4"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `envconfig:"STORAGE_TYPE" default:"memory"`

	// RedisURL is used when StorageType is "redis"
	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment. A missing .env file
// is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	switch cfg.StorageType {
	case StorageTypeMemory, StorageTypeRedis:
	default:
		return nil, errors.New("STORAGE_TYPE must be 'memory' or 'redis'")
	}
	if cfg.Workers < 1 {
		return nil, errors.New("WORKERS must be at least 1")
	}
	return &cfg, nil
}
