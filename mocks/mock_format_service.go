package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"inkwell/internal/domain"
	"inkwell/internal/service"
)

// MockFormatService is a mock implementation of service.FormatService.
type MockFormatService struct {
	mock.Mock
}

func (m *MockFormatService) Format(ctx context.Context, input service.FormatInput) (*domain.FormatResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormatResult), args.Error(1)
}

func (m *MockFormatService) Enqueue(ctx context.Context, input service.EnqueueInput) (*domain.FormatJob, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormatJob), args.Error(1)
}

func (m *MockFormatService) ProcessJob(ctx context.Context, job *domain.FormatJob, maxRetries int) {
	m.Called(ctx, job, maxRetries)
}

func (m *MockFormatService) GetJob(ctx context.Context, id uuid.UUID) (*domain.FormatJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormatJob), args.Error(1)
}

func (m *MockFormatService) ListJobs(ctx context.Context, offset, limit int) ([]domain.FormatJob, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FormatJob), args.Int(1), args.Error(2)
}

func (m *MockFormatService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
