package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-genius/backend/internal/model"
)

// MockStore is a mock implementation of the saved-recipe slot
type MockStore struct {
	mock.Mock
}

// Load mocks the Load method
func (m *MockStore) Load(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// Save mocks the Save method
func (m *MockStore) Save(ctx context.Context, recipes []model.Recipe) error {
	args := m.Called(ctx, recipes)
	return args.Error(0)
}

// Clear mocks the Clear method
func (m *MockStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
