package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-genius/backend/internal/database"
	"github.com/pageza/recipe-genius/backend/internal/model"
)

func newTestSession(t *testing.T, proxy RecipeProxy) *Session {
	t.Helper()
	saved := NewSavedRecipes(context.Background(), database.NewMemorySlot("saved", nil), nil, nil)
	s := NewSession(NewInventory(SeedIngredients), NewGenerator(proxy, nil, nil), saved)
	t.Cleanup(s.Close)
	return s
}

func TestSession_SubmitUsesSelectionOrder(t *testing.T) {
	proxy := &fakeProxy{
		recipes: func(string) ([]model.Recipe, error) { return []model.Recipe{}, nil },
	}
	s := newTestSession(t, proxy)

	assert.False(t, s.Submit(context.Background()))
	assert.Empty(t, proxy.recipeRequests())

	s.Inventory.ToggleSelection("rice")
	s.Inventory.ToggleSelection("eggs")
	s.Inventory.ToggleSelection("garlic")
	require.True(t, s.Submit(context.Background()))
	s.Generator.WaitEnrichment()

	assert.Equal(t, []string{"rice, eggs, garlic"}, proxy.recipeRequests())
}

func TestSession_Snapshot(t *testing.T) {
	proxy := &fakeProxy{
		recipes: func(string) ([]model.Recipe, error) { return namedRecipes("Pasta", "Soup"), nil },
		image: func(name string) (string, error) {
			if name == "Pasta" {
				return "img", nil
			}
			return "", &ImageGenerationError{RecipeName: name}
		},
	}
	s := newTestSession(t, proxy)
	ctx := context.Background()

	s.Inventory.ToggleSelection("pasta")
	require.True(t, s.Submit(ctx))
	s.Generator.WaitEnrichment()

	pasta, ok := s.Generator.Recipe("Pasta")
	require.True(t, ok)
	require.NoError(t, s.Saved.Save(ctx, pasta))

	snap := s.Snapshot()
	assert.Equal(t, []string{"pasta"}, snap.Selected)
	assert.Len(t, snap.Inventory, len(SeedIngredients))
	require.Len(t, snap.Recipes, 2)
	assert.True(t, snap.Recipes[0].Saved)
	assert.False(t, snap.Recipes[0].ImagePending)
	assert.False(t, snap.Recipes[1].Saved)
	assert.True(t, snap.Recipes[1].ImagePending)
	require.Len(t, snap.SavedRecipes, 1)
	assert.Equal(t, "img", snap.SavedRecipes[0].ImageURL)

	s.Generator.SetFilter("sou")
	snap = s.Snapshot()
	require.Len(t, snap.Recipes, 1)
	assert.Equal(t, "Soup", snap.Recipes[0].RecipeName)
	assert.Equal(t, "sou", snap.Filter)

	cards := s.Cards("PAS")
	require.Len(t, cards, 1)
	assert.True(t, cards[0].Saved)
	assert.Equal(t, "sou", s.Generator.Filter())
}

func TestSession_Subscribe(t *testing.T) {
	s := newTestSession(t, &fakeProxy{})

	var mu sync.Mutex
	var snaps []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		snaps = append(snaps, snap)
	})

	require.NoError(t, s.Saved.Save(context.Background(), model.Recipe{RecipeName: "Curry"}))
	s.Generator.SetFilter("cur")

	mu.Lock()
	require.Len(t, snaps, 2)
	assert.Len(t, snaps[0].SavedRecipes, 1)
	assert.Equal(t, "cur", snaps[1].Filter)
	mu.Unlock()

	unsubscribe()
	s.Notify()

	mu.Lock()
	assert.Len(t, snaps, 2)
	mu.Unlock()
}
