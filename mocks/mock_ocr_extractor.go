package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"inkwell/internal/port"
)

// MockOCRExtractor is a mock implementation of port.OCRExtractor.
type MockOCRExtractor struct {
	mock.Mock
}

func (m *MockOCRExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.OCRResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.OCRResult), args.Error(1)
}
