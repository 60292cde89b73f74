package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"privasee/internal/domain"
	"privasee/internal/port"
)

// MockEntityDetector is a mock implementation of port.EntityDetector.
type MockEntityDetector struct {
	mock.Mock
}

func (m *MockEntityDetector) Detect(ctx context.Context, input port.DetectInput) ([]domain.EntityCandidate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntityCandidate), args.Error(1)
}
