package port

import "privasee/internal/domain"

// GenderDetector infers a likely gender from the first token of a name.
// Implementations are best-effort; a neutral implementation that always
// returns GenderUnknown is a valid detector.
type GenderDetector interface {
	Classify(name string) domain.Gender
}
