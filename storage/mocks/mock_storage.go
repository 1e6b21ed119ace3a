package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go-url-shortener/types"
)

// MockStorage is a mock Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) PutIfAbsent(ctx context.Context, mapping types.URLMapping) (bool, error) {
	args := m.Called(ctx, mapping)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, shortCode string) (types.URLMapping, bool, error) {
	args := m.Called(ctx, shortCode)
	return args.Get(0).(types.URLMapping), args.Bool(1), args.Error(2)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}
