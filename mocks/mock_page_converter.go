package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPageConverter is a mock implementation of port.PageConverter.
type MockPageConverter struct {
	mock.Mock
}

func (m *MockPageConverter) PDFToImages(ctx context.Context, pdfPath, outDir, stem string) ([]string, error) {
	args := m.Called(ctx, pdfPath, outDir, stem)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPageConverter) ImagesToPDF(ctx context.Context, imagePaths []string, pdfPath string) error {
	args := m.Called(ctx, imagePaths, pdfPath)
	return args.Error(0)
}
