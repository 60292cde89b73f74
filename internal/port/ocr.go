package port

import (
	"context"

	"privasee/internal/domain"
)

// OCRWord is a recognized word with its normalized location.
type OCRWord struct {
	Text        string             `json:"text"`
	BoundingBox domain.BoundingBox `json:"bounding_box"`
	Confidence  float64            `json:"confidence"`
	PageNumber  int                `json:"page_number"`
}

// OCRLine is a recognized line of text with its normalized location.
type OCRLine struct {
	Text        string             `json:"text"`
	BoundingBox domain.BoundingBox `json:"bounding_box"`
	PageNumber  int                `json:"page_number"`
}

// OCRPage carries page-level geometry as reported by the provider.
type OCRPage struct {
	PageNumber int     `json:"page_number"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Unit       string  `json:"unit"`
	Angle      float64 `json:"angle"`
}

// OCRResult is the provider-independent output of one page analysis.
type OCRResult struct {
	Text  string    `json:"text"`
	Words []OCRWord `json:"words"`
	Lines []OCRLine `json:"lines"`
	Pages []OCRPage `json:"pages"`
}

// TextExtractor abstracts the OCR collaborator. Analyze returns full
// structure for detection context; ExtractText is the cheap call used by
// redaction verification.
type TextExtractor interface {
	Analyze(ctx context.Context, imageBytes []byte) (*OCRResult, error)
	ExtractText(ctx context.Context, imageBytes []byte) (string, error)
}
