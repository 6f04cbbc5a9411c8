package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	HTTPAddr       string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel       slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	StorageBackend string     `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	DBPath         string     `env:"DB_PATH" envDefault:"data/villagequest.db"`
	RedisURL       string     `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// ResetPINHash is the bcrypt hash of the parent PIN guarding resets.
	ResetPINHash string `env:"RESET_PIN_HASH"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	switch cfg.StorageBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.ResetPINHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.ResetPINHash)); err != nil {
			return nil, fmt.Errorf("RESET_PIN_HASH is not a bcrypt hash: %w", err)
		}
	}
	return &cfg, nil
}
