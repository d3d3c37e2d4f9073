package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Default Values", func(t *testing.T) {
		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "local", cfg.AppEnv)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 7, cfg.SessionMaxAgeDays)
		assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
		assert.False(t, cfg.SeedDemoData)
	})

	t.Run("Environment Variables", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("SEED_DEMO_DATA", "true")
		t.Setenv("RATE_LIMIT_BURST", "3")

		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "9999", cfg.Port)
		assert.True(t, cfg.SeedDemoData)
		assert.Equal(t, 3, cfg.RateLimitBurst)
	})

	t.Run("Production Requires Long Secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("SESSION_SECRET", "short")

		_, err := LoadConfig()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_SECRET")
	})
}

func TestValidate(t *testing.T) {
	cfg := Config{AppEnv: "local", BcryptCost: 1}
	assert.Error(t, cfg.Validate())

	cfg.BcryptCost = bcrypt.MinCost
	assert.NoError(t, cfg.Validate())

	cfg.AppEnv = "production"
	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg.SessionSecret = defaultSessionSecret
	assert.Error(t, cfg.Validate())
}
