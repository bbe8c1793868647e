package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/database"
	"github.com/pageza/recipe-genius/backend/internal/metrics"
	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// SavedRecipes is the saved-recipe collection. Every mutation reads the store, applies the
// change, writes it back and refreshes the in-memory mirror used by IsSaved and List.
type SavedRecipes struct {
	mu       sync.RWMutex
	store    database.Store
	mirror   []model.Recipe
	logger   *zap.Logger
	metrics  *metrics.Metrics
	onChange func()
}

// NewSavedRecipes creates the collection and loads the mirror from store.
func NewSavedRecipes(ctx context.Context, store database.Store, l *zap.Logger, m *metrics.Metrics) *SavedRecipes {
	s := &SavedRecipes{
		store:   store,
		mirror:  []model.Recipe{},
		logger:  logger.OrNop(l).Named("saved"),
		metrics: m,
	}
	if err := s.Reload(ctx); err != nil {
		s.logger.Error("failed to load saved recipes", zap.Error(err))
	}
	return s
}

// OnChange registers fn to run after every mirror refresh. It replaces any previous callback.
func (s *SavedRecipes) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Save appends recipe unless one with the same name is already saved.
func (s *SavedRecipes) Save(ctx context.Context, recipe model.Recipe) error {
	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()

	recipes, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load saved recipes: %w", err)
	}

	if model.IndexByName(recipes, recipe.RecipeName) < 0 {
		recipes = append(recipes, recipe.Clone())
		if err := s.store.Save(ctx, recipes); err != nil {
			return fmt.Errorf("failed to save recipe: %w", err)
		}
		s.logger.Info("recipe saved", zap.String("recipe", recipe.RecipeName))
	}

	s.mirror = recipes
	s.metrics.SavedOp("save", len(recipes))
	return nil
}

// Unsave removes the recipe with the given name. An absent name leaves the contents unchanged.
func (s *SavedRecipes) Unsave(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()

	recipes, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load saved recipes: %w", err)
	}

	recipes = slices.DeleteFunc(recipes, func(r model.Recipe) bool { return r.RecipeName == name })
	if err := s.store.Save(ctx, recipes); err != nil {
		return fmt.Errorf("failed to unsave recipe: %w", err)
	}

	s.mirror = recipes
	s.metrics.SavedOp("unsave", len(recipes))
	return nil
}

// Clear removes the whole collection from the store.
func (s *SavedRecipes) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear saved recipes: %w", err)
	}

	s.mirror = []model.Recipe{}
	s.metrics.SavedOp("clear", 0)
	return nil
}

// Reload refreshes the mirror from the store. On failure the mirror is left empty.
func (s *SavedRecipes) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()

	recipes, err := s.store.Load(ctx)
	if err != nil {
		s.mirror = []model.Recipe{}
		return fmt.Errorf("failed to load saved recipes: %w", err)
	}
	s.mirror = recipes
	return nil
}

func (s *SavedRecipes) IsSaved(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.IndexByName(s.mirror, name) >= 0
}

func (s *SavedRecipes) List() []model.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneRecipes(s.mirror)
}

func (s *SavedRecipes) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
