package model

import (
	"time"
)

// Recipe is a generated recipe as exchanged with the proxy and stored in the saved slot.
// RecipeName is the identity key; two recipes are the same iff their names match exactly.
type Recipe struct {
	RecipeName   string   `json:"recipeName" validate:"required"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// Clone returns a deep copy so callers can hand recipes across goroutines.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = append([]string(nil), r.Ingredients...)
	}
	if r.Instructions != nil {
		out.Instructions = append([]string(nil), r.Instructions...)
	}
	return out
}

// HasImage reports whether image enrichment has completed for the recipe.
func (r Recipe) HasImage() bool {
	return r.ImageURL != ""
}

// CloneRecipes deep-copies a recipe list. A nil input yields an empty, non-nil slice.
func CloneRecipes(recipes []Recipe) []Recipe {
	out := make([]Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.Clone()
	}
	return out
}

// IndexByName returns the position of the first recipe named name, or -1.
func IndexByName(recipes []Recipe, name string) int {
	for i, r := range recipes {
		if r.RecipeName == name {
			return i
		}
	}
	return -1
}

// StorageSlot is a single named key/value row backing the saved-recipe slot in SQL databases.
type StorageSlot struct {
	Key       string    `gorm:"column:slot_key;primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StorageSlot) TableName() string {
	return "storage_slots"
}
