package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"inkwell/internal/domain"
)

// MockPresetService is a mock implementation of service.PresetService.
type MockPresetService struct {
	mock.Mock
}

func (m *MockPresetService) Get(ctx context.Context, name string) (*domain.Preset, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Preset), args.Error(1)
}

func (m *MockPresetService) List(ctx context.Context) ([]domain.Preset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Preset), args.Error(1)
}

func (m *MockPresetService) Save(ctx context.Context, p *domain.Preset) (*domain.Preset, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Preset), args.Error(1)
}

func (m *MockPresetService) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
