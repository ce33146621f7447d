package config

import (
	"github.com/Skotchmaster/shop_cart/pkg/config"
)

type Config struct {
	ListenAddr string
	LogLevel   string
	LogFormat  string
	CatalogURL string
	CartURL    string
	// AllowOrigins lists the storefront origins allowed to send cookies.
	AllowOrigins []string
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:   config.EnvDefault("GATEWAY_ADDR", ":8080"),
		LogLevel:     config.EnvDefault("LOG_LEVEL", "info"),
		LogFormat:    config.EnvDefault("LOG_FORMAT", "json"),
		CatalogURL:   config.EnvDefault("CATALOG_URL", ""),
		CartURL:      config.EnvDefault("CART_URL", ""),
		AllowOrigins: config.CSV(config.EnvDefault("ALLOW_ORIGINS", "http://localhost:3000")),
	}
	config.MustNonEmpty(cfg.CatalogURL, "CATALOG_URL")
	config.MustNonEmpty(cfg.CartURL, "CART_URL")
	return cfg
}
