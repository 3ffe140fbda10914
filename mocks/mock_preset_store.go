package mocks

import (
	"github.com/stretchr/testify/mock"

	"inkwell/internal/domain"
)

// MockPresetStore is a mock implementation of port.PresetStore.
type MockPresetStore struct {
	mock.Mock
}

func (m *MockPresetStore) Get(name string) (*domain.Preset, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Preset), args.Error(1)
}

func (m *MockPresetStore) List() ([]domain.Preset, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Preset), args.Error(1)
}

func (m *MockPresetStore) Save(p *domain.Preset) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockPresetStore) Delete(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
