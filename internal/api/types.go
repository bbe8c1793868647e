package api

import (
	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/internal/service"
)

// AddIngredientRequest is the body of POST /inventory
type AddIngredientRequest struct {
	Name string `json:"name" binding:"required"`
}

// InventoryResponse lists the kitchen stock and the current selection
type InventoryResponse struct {
	Inventory []string `json:"inventory"`
	Selected  []string `json:"selected"`
}

// ToggleResponse reports the selection after a toggle
type ToggleResponse struct {
	Name       string   `json:"name"`
	IsSelected bool     `json:"isSelected"`
	Selected   []string `json:"selected"`
}

// FilterRequest is the body of PUT /recipes/filter
type FilterRequest struct {
	Query string `json:"query"`
}

// RecipesResponse lists the visible recipes for the active filter
type RecipesResponse struct {
	Recipes []service.RecipeCard `json:"recipes"`
	Filter  string               `json:"filter"`
	Loading bool                 `json:"loading"`
	Error   string               `json:"error,omitempty"`
}

// SavedResponse lists the saved collection
type SavedResponse struct {
	Recipes []model.Recipe `json:"recipes"`
}

// ConflictResponse is returned when a generation request is ignored
type ConflictResponse struct {
	Error string           `json:"error"`
	State service.Snapshot `json:"state"`
}
