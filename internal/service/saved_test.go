package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-genius/backend/internal/database"
	"github.com/pageza/recipe-genius/backend/internal/metrics"
	"github.com/pageza/recipe-genius/backend/internal/mocks"
	"github.com/pageza/recipe-genius/backend/internal/model"
)

func TestSavedRecipes_Save(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemorySlot("saved", nil)
	saved := NewSavedRecipes(ctx, store, nil, metrics.New())

	pasta := model.Recipe{RecipeName: "Pasta", Description: "First"}
	require.NoError(t, saved.Save(ctx, pasta))
	require.NoError(t, saved.Save(ctx, model.Recipe{RecipeName: "Pasta", Description: "Second"}))

	list := saved.List()
	require.Len(t, list, 1)
	assert.Equal(t, "First", list[0].Description)
	assert.True(t, saved.IsSaved("Pasta"))
	assert.False(t, saved.IsSaved("pasta"))

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSavedRecipes_Unsave(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemorySlot("saved", nil)
	saved := NewSavedRecipes(ctx, store, nil, nil)

	require.NoError(t, saved.Save(ctx, model.Recipe{RecipeName: "Pasta"}))
	require.NoError(t, saved.Save(ctx, model.Recipe{RecipeName: "Soup"}))

	require.NoError(t, saved.Unsave(ctx, "Curry"))
	assert.Len(t, saved.List(), 2)

	require.NoError(t, saved.Unsave(ctx, "Pasta"))
	list := saved.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Soup", list[0].RecipeName)
	assert.False(t, saved.IsSaved("Pasta"))
}

func TestSavedRecipes_Clear(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemorySlot("saved", nil)
	saved := NewSavedRecipes(ctx, store, nil, nil)

	require.NoError(t, saved.Save(ctx, model.Recipe{RecipeName: "Pasta"}))
	require.NoError(t, saved.Clear(ctx))

	assert.Empty(t, saved.List())
	assert.Nil(t, store.Raw())
}

func TestSavedRecipes_CorruptSlotIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemorySlot("saved", nil)
	store.SetRaw([]byte("{not json"))

	saved := NewSavedRecipes(ctx, store, nil, nil)
	assert.Empty(t, saved.List())

	require.NoError(t, saved.Save(ctx, model.Recipe{RecipeName: "Pasta"}))
	assert.Len(t, saved.List(), 1)
}

func TestSavedRecipes_Reload(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemorySlot("saved", nil)
	saved := NewSavedRecipes(ctx, store, nil, nil)

	changes := 0
	saved.OnChange(func() { changes++ })

	require.NoError(t, store.Save(ctx, []model.Recipe{{RecipeName: "Curry"}}))
	assert.False(t, saved.IsSaved("Curry"))

	require.NoError(t, saved.Reload(ctx))
	assert.True(t, saved.IsSaved("Curry"))
	assert.Equal(t, 1, changes)
}

func TestSavedRecipes_StoreFailures(t *testing.T) {
	ctx := context.Background()
	errDown := errors.New("medium unavailable")

	t.Run("load failure on startup leaves the mirror empty", func(t *testing.T) {
		store := &mocks.MockStore{}
		store.On("Load", mock.Anything).Return(nil, errDown)

		saved := NewSavedRecipes(ctx, store, nil, nil)
		assert.Empty(t, saved.List())
	})

	t.Run("save failure is wrapped", func(t *testing.T) {
		store := &mocks.MockStore{}
		store.On("Load", mock.Anything).Return([]model.Recipe{}, nil)
		store.On("Save", mock.Anything, mock.Anything).Return(errDown)

		saved := NewSavedRecipes(ctx, store, nil, nil)
		err := saved.Save(ctx, model.Recipe{RecipeName: "Pasta"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errDown)
		assert.False(t, saved.IsSaved("Pasta"))
	})

	t.Run("clear failure keeps the mirror", func(t *testing.T) {
		store := &mocks.MockStore{}
		store.On("Load", mock.Anything).Return([]model.Recipe{{RecipeName: "Pasta"}}, nil)
		store.On("Clear", mock.Anything).Return(errDown)

		saved := NewSavedRecipes(ctx, store, nil, nil)
		assert.ErrorIs(t, saved.Clear(ctx), errDown)
		assert.True(t, saved.IsSaved("Pasta"))
		store.AssertExpectations(t)
	})
}
