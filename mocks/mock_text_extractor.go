package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"privasee/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Analyze(ctx context.Context, imageBytes []byte) (*port.OCRResult, error) {
	args := m.Called(ctx, imageBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.OCRResult), args.Error(1)
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	args := m.Called(ctx, imageBytes)
	return args.String(0), args.Error(1)
}
