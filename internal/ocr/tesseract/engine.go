// Package tesseract implements local text extraction with the tesseract
// engine via gosseract.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"privasee/internal/config"
	"privasee/internal/domain"
	"privasee/internal/port"
)

// Engine runs tesseract over page images. A fresh gosseract client is
// created per call; the client is not safe for concurrent reuse.
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a tesseract-backed TextExtractor.
func NewEngine(cfg *config.OCRConfig) *Engine {
	return &Engine{
		languages:     cfg.Languages,
		clientFactory: gosseract.NewClient,
	}
}

// Analyze recognizes one page image and returns text plus word boxes
// normalized against the image's pixel dimensions.
func (e *Engine) Analyze(ctx context.Context, imageBytes []byte) (*port.OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dims, _, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding image dimensions: %w", err)
	}

	c := e.clientFactory()
	defer func() { _ = c.Close() }()

	if err := c.SetImageFromBytes(imageBytes); err != nil {
		return nil, fmt.Errorf("setting image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("setting languages: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognizing text: %w", err)
	}

	result := &port.OCRResult{
		Text: strings.TrimSpace(text),
		Pages: []port.OCRPage{{
			PageNumber: 1,
			Width:      float64(dims.Width),
			Height:     float64(dims.Height),
			Unit:       "pixel",
		}},
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Word geometry is best-effort; plain text is still usable
		return result, nil
	}
	for _, b := range boxes {
		result.Words = append(result.Words, port.OCRWord{
			Text: b.Word,
			BoundingBox: domain.BoundingBox{
				float64(b.Box.Min.X) / float64(dims.Width),
				float64(b.Box.Min.Y) / float64(dims.Height),
				float64(b.Box.Dx()) / float64(dims.Width),
				float64(b.Box.Dy()) / float64(dims.Height),
			},
			Confidence: b.Confidence / 100.0,
			PageNumber: 1,
		})
	}
	return result, nil
}

// ExtractText returns only the recognized plain text of one page image.
func (e *Engine) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer func() { _ = c.Close() }()

	if err := c.SetImageFromBytes(imageBytes); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("setting languages: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

var _ port.TextExtractor = (*Engine)(nil)
