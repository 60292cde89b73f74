package port

import (
	"context"

	"privasee/internal/domain"
)

// DetectInput carries one page image plus context for entity detection.
type DetectInput struct {
	ImageBytes []byte
	MediaType  string
	OCR        *OCRResult
	Fields     []domain.FieldDefinition
	PageNumber int
}

// EntityDetector finds sensitive spans on a page image. Implementations
// validate each returned candidate (required fields, bounding-box arity)
// and drop malformed ones individually rather than failing the call.
type EntityDetector interface {
	Detect(ctx context.Context, input DetectInput) ([]domain.EntityCandidate, error)
}
