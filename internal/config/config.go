package config

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	AppEnv            string  `mapstructure:"APP_ENV"`
	Port              string  `mapstructure:"PORT"`
	DatabaseURL       string  `mapstructure:"DATABASE_URL"`
	MigrationsPath    string  `mapstructure:"MIGRATIONS_PATH"`
	SessionSecret     string  `mapstructure:"SESSION_SECRET"`
	SessionMaxAgeDays int     `mapstructure:"SESSION_MAX_AGE_DAYS"`
	RateLimitRPS      float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int     `mapstructure:"RATE_LIMIT_BURST"`
	BcryptCost        int     `mapstructure:"BCRYPT_COST"`
	SeedDemoData      bool    `mapstructure:"SEED_DEMO_DATA"`
}

const (
	minProductionSecretLen = 32
	defaultSessionSecret   = "dev-session-secret-change-me-please-0000"
)

func LoadConfig() (config Config, err error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "sqlite://classifieds.db")
	v.SetDefault("MIGRATIONS_PATH", "file://migration")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("SESSION_MAX_AGE_DAYS", 7)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("SEED_DEMO_DATA", false)

	v.AutomaticEnv()

	err = v.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	err = config.Validate()
	return
}

// Validate rejects settings that are only acceptable during development.
func (c Config) Validate() error {
	if c.IsProduction() {
		if len(c.SessionSecret) < minProductionSecretLen {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
		if c.SessionSecret == defaultSessionSecret {
			return errors.New("SESSION_SECRET must be set explicitly in production")
		}
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return errors.New("BCRYPT_COST out of range")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
