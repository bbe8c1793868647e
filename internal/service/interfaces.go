package service

import (
	"context"

	"github.com/pageza/recipe-genius/backend/internal/model"
)

// RecipeProxy generates recipes and recipe images through the external proxy.
type RecipeProxy interface {
	GenerateRecipes(ctx context.Context, ingredients string) ([]model.Recipe, error)
	GenerateImage(ctx context.Context, recipeName, description string) (string, error)
}

// ISavedRecipes defines the saved-recipe operations used by the HTTP layer
type ISavedRecipes interface {
	Save(ctx context.Context, recipe model.Recipe) error
	Unsave(ctx context.Context, name string) error
	Clear(ctx context.Context) error
	Reload(ctx context.Context) error
	IsSaved(name string) bool
	List() []model.Recipe
}

var (
	_ RecipeProxy   = (*ProxyClient)(nil)
	_ ISavedRecipes = (*SavedRecipes)(nil)
)
