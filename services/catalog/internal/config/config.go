package config

import (
	"github.com/Skotchmaster/shop_cart/pkg/config"
)

type ServiceConfig struct {
	config.Config

	SeedFile string
}

func Load() ServiceConfig {
	cfg := ServiceConfig{
		Config:   config.Load(),
		SeedFile: config.EnvDefault("SEED_FILE", ""),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "catalog"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustOneOf(cfg.DatabaseDriver, "DATABASE_DRIVER", "postgres", "sqlite")

	return cfg
}
