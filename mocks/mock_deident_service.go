package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"privasee/internal/domain"
	"privasee/internal/service"
	"privasee/internal/verify"
)

// MockDeidentService is a mock implementation of service.DeidentService.
type MockDeidentService struct {
	mock.Mock
}

func (m *MockDeidentService) Upload(ctx context.Context, input *service.UploadDocumentInput) (*domain.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockDeidentService) Process(ctx context.Context, sessionID uuid.UUID, fields []domain.FieldDefinition) (*domain.Session, error) {
	args := m.Called(ctx, sessionID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockDeidentService) ApproveAndMask(ctx context.Context, input *service.ApproveMaskInput) (*service.MaskOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MaskOutput), args.Error(1)
}

func (m *MockDeidentService) Verify(ctx context.Context, sessionID uuid.UUID) (*verify.Result, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verify.Result), args.Error(1)
}

func (m *MockDeidentService) GetSession(sessionID uuid.UUID) (*domain.Session, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockDeidentService) DownloadArchive(ctx context.Context, sessionID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockDeidentService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
