package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"inkwell/internal/domain"
)

// MockFormatJobRepo is a mock implementation of port.FormatJobRepository.
type MockFormatJobRepo struct {
	mock.Mock
}

func (m *MockFormatJobRepo) Create(ctx context.Context, job *domain.FormatJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockFormatJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FormatJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormatJob), args.Error(1)
}

func (m *MockFormatJobRepo) List(ctx context.Context, offset, limit int) ([]domain.FormatJob, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FormatJob), args.Int(1), args.Error(2)
}

func (m *MockFormatJobRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.FormatJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FormatJob), args.Error(1)
}

func (m *MockFormatJobRepo) UpdateResult(ctx context.Context, job *domain.FormatJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockFormatJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, errText string, requeue bool) error {
	args := m.Called(ctx, id, errText, requeue)
	return args.Error(0)
}

func (m *MockFormatJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
