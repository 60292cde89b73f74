// Package verify re-reads masked page images with OCR and confirms the
// original entity text is no longer recoverable.
package verify

import (
	"context"
	"log"
	"math"
	"os"
	"strings"

	"privasee/internal/domain"
	"privasee/internal/mapping"
	"privasee/internal/port"
)

// Result summarizes one document's redaction check.
type Result struct {
	EntitiesChecked int              `json:"entities_checked"`
	EntitiesMasked  int              `json:"entities_masked"`
	Score           float64          `json:"score"`
	Failed          []ResidualEntity `json:"failed,omitempty"`
}

// ResidualEntity names an entity whose original text survived masking.
type ResidualEntity struct {
	Category     string `json:"entity_type"`
	OriginalText string `json:"original_text"`
}

// Verifier checks masked output against an OCR extractor.
type Verifier struct {
	extractor port.TextExtractor
}

// New creates a verifier backed by the given text extractor.
func New(extractor port.TextExtractor) *Verifier {
	return &Verifier{extractor: extractor}
}

// Verify OCRs each masked page image and scores how many entities left
// no trace. A page that fails to OCR contributes no text; the check
// then errs toward reporting those entities as masked, matching the
// substring test. A document with no entities scores 100.
func (v *Verifier) Verify(ctx context.Context, maskedImagePaths []string, entities []domain.Entity) (*Result, error) {
	texts := make([]string, 0, len(maskedImagePaths))
	for _, path := range maskedImagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("verifier.Verify: reading %s: %v", path, err)
			continue
		}
		text, err := v.extractor.ExtractText(ctx, data)
		if err != nil {
			log.Printf("verifier.Verify: OCR failed for %s: %v", path, err)
			continue
		}
		texts = append(texts, strings.ToLower(text))
	}
	corpus := strings.Join(texts, " ")

	result := &Result{EntitiesChecked: len(entities)}
	for i := range entities {
		normalized := mapping.Normalize(entities[i].OriginalText)
		if normalized == "" || !strings.Contains(corpus, normalized) {
			result.EntitiesMasked++
			continue
		}
		result.Failed = append(result.Failed, ResidualEntity{
			Category:     entities[i].Category,
			OriginalText: entities[i].OriginalText,
		})
	}

	result.Score = Score(result.EntitiesMasked, result.EntitiesChecked)
	return result, nil
}

// Score returns the percentage of masked entities rounded to one
// decimal place. Zero entities means nothing could leak, scoring 100.
func Score(masked, total int) float64 {
	if total == 0 {
		return 100.0
	}
	return math.Round(float64(masked)/float64(total)*100*10) / 10
}
