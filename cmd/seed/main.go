// Command seed loads the demo users, categories and listings into the
// configured database. Existing data is left untouched.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"classifieds/internal/config"
	"classifieds/internal/repository"
	"classifieds/internal/services"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := seed(context.Background(), logger); err != nil {
		logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Seeding completed")
}

func seed(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := repository.PrepareSchema(db, cfg); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return services.SeedDemoData(ctx, repository.NewRepositories(db), cfg.BcryptCost, logger)
}
