package main

import (
	"fmt"
	"gameshop/internal/client"
	"gameshop/internal/config"
	"gameshop/internal/logger"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// loadConfig reads .env into the environment and parses it. Only serve
// needs the full Validate pass.
func loadConfig() (*config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, logger.New(&cfg.Log, cfg.Environment.Name, os.Stdout), nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}
	db, err := client.InitDBClient(&cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := client.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
