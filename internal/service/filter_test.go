package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipe-genius/backend/internal/model"
)

func TestFilterRecipes(t *testing.T) {
	recipes := []model.Recipe{
		{RecipeName: "Tomato Soup", Description: "Warm and simple"},
		{RecipeName: "Garlic Pasta", Description: "With roasted TOMATOES"},
		{RecipeName: "Fried Rice", Description: "Leftover friendly"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query", query: "", want: []string{"Tomato Soup", "Garlic Pasta", "Fried Rice"}},
		{name: "name and description", query: "toma", want: []string{"Tomato Soup", "Garlic Pasta"}},
		{name: "case insensitive", query: "FRIED", want: []string{"Fried Rice"}},
		{name: "no match", query: "zz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRecipes(recipes, tt.query)
			names := make([]string, 0, len(got))
			for _, r := range got {
				names = append(names, r.RecipeName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFilterRecipes_ReturnsCopies(t *testing.T) {
	recipes := []model.Recipe{{RecipeName: "Soup", Ingredients: []string{"water"}}}

	got := FilterRecipes(recipes, "")
	got[0].Ingredients[0] = "stock"

	assert.Equal(t, "water", recipes[0].Ingredients[0])
}
