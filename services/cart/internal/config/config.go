package config

import (
	"time"

	"github.com/Skotchmaster/shop_cart/pkg/config"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQL    = "sql"
)

type ServiceConfig struct {
	config.Config

	Locale string

	CatalogURL     string
	CatalogTimeout time.Duration

	Store    string
	RedisURL string

	EventsTopic string

	MaxCarts int
}

func Load() ServiceConfig {
	cfg := ServiceConfig{
		Config: config.Load(),

		Locale: config.EnvDefault("LOCALE", "pt-BR"),

		CatalogURL:     config.EnvDefault("CATALOG_URL", ""),
		CatalogTimeout: config.EnvDurationDefault("CATALOG_TIMEOUT", 5*time.Second),

		Store:    config.EnvDefault("CART_STORE", StoreMemory),
		RedisURL: config.EnvDefault("REDIS_URL", ""),

		EventsTopic: config.EnvDefault("CART_EVENTS_TOPIC", "cart_events"),

		MaxCarts: config.EnvIntDefault("CART_CACHE_SIZE", 10000),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cart"
	}

	config.MustNonEmpty(cfg.CatalogURL, "CATALOG_URL")
	config.MustOneOf(cfg.Store, "CART_STORE", StoreMemory, StoreRedis, StoreSQL)
	switch cfg.Store {
	case StoreRedis:
		config.MustNonEmpty(cfg.RedisURL, "REDIS_URL")
	case StoreSQL:
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}

	return cfg
}
