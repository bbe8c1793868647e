package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/config"
	"github.com/pageza/recipe-genius/backend/internal/database"
	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/internal/service"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

func main() {
	file := flag.String("file", "recipes.json", "JSON file holding an array of recipes")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(context.Background(), cfg, l, *file); err != nil {
		l.Error("seeding failed", zap.String("file", *file), zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
	_ = l.Sync()
}

// run seeds the configured store from file and closes the store before returning
func run(ctx context.Context, cfg *config.Config, l *zap.Logger, file string) error {
	l = logger.OrNop(l)

	recipes, err := readRecipes(file)
	if err != nil {
		return fmt.Errorf("failed to read recipes: %w", err)
	}

	store, closeStore, err := database.OpenStore(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to open saved-recipe store: %w", err)
	}
	defer closeStore()

	saved := service.NewSavedRecipes(ctx, store, l, nil)
	added, err := seed(ctx, saved, recipes)
	if err != nil {
		return fmt.Errorf("failed to seed recipes: %w", err)
	}

	l.Info("seeding complete",
		zap.Int("added", added),
		zap.Int("skipped", len(recipes)-added),
		zap.Int("total", len(saved.List())),
	)
	return nil
}

func readRecipes(path string) ([]model.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recipes []model.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// seed saves every named recipe not saved yet and returns how many were added
func seed(ctx context.Context, saved *service.SavedRecipes, recipes []model.Recipe) (int, error) {
	added := 0
	for _, r := range recipes {
		if r.RecipeName == "" || saved.IsSaved(r.RecipeName) {
			continue
		}
		if err := saved.Save(ctx, r); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
