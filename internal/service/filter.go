package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/recipe-genius/backend/internal/model"
)

// FilterRecipes returns copies of the recipes whose name or description contains query,
// ignoring case. An empty query matches every recipe.
func FilterRecipes(recipes []model.Recipe, query string) []model.Recipe {
	if query == "" {
		return model.CloneRecipes(recipes)
	}

	lower := cases.Lower(language.Und)
	q := lower.String(query)

	out := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if strings.Contains(lower.String(r.RecipeName), q) || strings.Contains(lower.String(r.Description), q) {
			out = append(out, r.Clone())
		}
	}
	return out
}
