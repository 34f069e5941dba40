package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr          string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath            string     `env:"DB_PATH" envDefault:"data/mahjong.db"`
	LogLevel          slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir            string     `env:"SPA_DIR" envDefault:""`
	SeedAdminEmail    string     `env:"SEED_ADMIN_EMAIL" envDefault:"admin@mahjong.local"`
	SeedAdminPassword string     `env:"SEED_ADMIN_PASSWORD" envDefault:"admin123"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
