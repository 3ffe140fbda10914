package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"inkwell/internal/port"
)

// MockCompletionFetcher is a mock implementation of port.CompletionFetcher.
type MockCompletionFetcher struct {
	mock.Mock
}

func (m *MockCompletionFetcher) Complete(ctx context.Context, input port.CompletionInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionFetcher) Model() string {
	args := m.Called()
	return args.String(0)
}
