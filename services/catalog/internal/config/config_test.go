package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "catalog.db")
	t.Setenv("SEED_FILE", "services/catalog/seed.yaml")
	t.Setenv("SERVER_PORT", "3333")

	cfg := Load()

	assert.Equal(t, "catalog", cfg.ServiceName)
	assert.Equal(t, 3333, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "services/catalog/seed.yaml", cfg.SeedFile)
}
