package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-genius/backend/internal/model"
)

// MockRecipeProxy is a mock implementation of the generation proxy client
type MockRecipeProxy struct {
	mock.Mock
}

// GenerateRecipes mocks the GenerateRecipes method
func (m *MockRecipeProxy) GenerateRecipes(ctx context.Context, ingredients string) ([]model.Recipe, error) {
	args := m.Called(ctx, ingredients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// GenerateImage mocks the GenerateImage method
func (m *MockRecipeProxy) GenerateImage(ctx context.Context, recipeName, description string) (string, error) {
	args := m.Called(ctx, recipeName, description)
	return args.String(0), args.Error(1)
}
