package mocks

import (
	"context"

	"github.com/pageza/recipe-finder/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of the recipe backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Search(ctx context.Context, query string) ([]types.Recipe, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

func (m *MockBackend) ToggleSave(ctx context.Context, recipeID, username string) (types.StatusResponse, error) {
	args := m.Called(ctx, recipeID, username)
	return args.Get(0).(types.StatusResponse), args.Error(1)
}

func (m *MockBackend) SavedRecipes(ctx context.Context, username string) ([]string, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, req types.LoginRequest) (types.AuthResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.AuthResponse), args.Error(1)
}

func (m *MockBackend) Signup(ctx context.Context, req types.SignupRequest) (types.AuthResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.AuthResponse), args.Error(1)
}

func (m *MockBackend) Logout(ctx context.Context, username string) (types.StatusResponse, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(types.StatusResponse), args.Error(1)
}
