package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/config"
	"github.com/pageza/recipe-genius/backend/internal/database"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

func main() {
	backend := flag.String("backend", "", "SQL backend to migrate (sqlite or postgres), defaults to STORAGE_BACKEND")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *backend != "" {
		cfg.StorageBackend = *backend
	}

	l, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, l); err != nil {
		l.Error("migration failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
	_ = l.Sync()
}

// run migrates the configured SQL backend and closes the connection before returning
func run(cfg *config.Config, l *zap.Logger) error {
	l = logger.OrNop(l)

	db, err := database.OpenGorm(cfg, l)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(db, l); err != nil {
		return err
	}

	l.Info("all migrations applied successfully", zap.String("backend", cfg.StorageBackend))
	return nil
}
