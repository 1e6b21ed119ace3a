package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go-url-shortener/types"
)

// MockURLService is a mock URLService interface
type MockURLService struct {
	mock.Mock
}

func (m *MockURLService) Create(ctx context.Context, longURL string) (string, error) {
	args := m.Called(ctx, longURL)
	return args.String(0), args.Error(1)
}

func (m *MockURLService) Resolve(ctx context.Context, shortCode string) (string, error) {
	args := m.Called(ctx, shortCode)
	return args.String(0), args.Error(1)
}

func (m *MockURLService) Describe(ctx context.Context, shortCode string) (types.URLMapping, error) {
	args := m.Called(ctx, shortCode)
	return args.Get(0).(types.URLMapping), args.Error(1)
}
