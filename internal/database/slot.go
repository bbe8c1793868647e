package database

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/model"
)

// Store persists the saved-recipe collection as a single named slot.
// Load never fails on corrupt content; it only reports failures of the medium itself.
type Store interface {
	Load(ctx context.Context) ([]model.Recipe, error)
	Save(ctx context.Context, recipes []model.Recipe) error
	Clear(ctx context.Context) error
}

// HealthChecker is implemented by stores backed by a server connection.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Watcher is implemented by stores whose medium can be changed by other processes.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// decodeSlot parses the slot contents. Corrupt content yields an empty collection.
func decodeSlot(logger *zap.Logger, key string, raw []byte) []model.Recipe {
	if len(raw) == 0 {
		return []model.Recipe{}
	}

	var recipes []model.Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		logger.Warn("failed to parse saved recipes, treating slot as empty",
			zap.String("key", key),
			zap.Error(err),
		)
		return []model.Recipe{}
	}
	if recipes == nil {
		return []model.Recipe{}
	}
	return recipes
}

func encodeSlot(recipes []model.Recipe) ([]byte, error) {
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	data, err := json.Marshal(recipes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal saved recipes: %w", err)
	}
	return data, nil
}
