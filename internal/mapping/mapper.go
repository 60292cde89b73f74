package mapping

import (
	"log"
	"strconv"
	"strings"
	"sync"

	"privasee/internal/domain"
)

// Mapper owns one mapping scope: the memoization map from normalized
// original text to replacement, plus per-category label counters. A scope
// lives for exactly one document (or one interactive session) and is never
// shared across batch documents.
//
// Lookup-or-create is serialized so that pages of the same document may be
// processed concurrently without racing the first sighting of a text.
type Mapper struct {
	mu       sync.Mutex
	mappings map[string]string
	counters map[string]int
	gen      *Generator
}

// NewMapper creates an empty mapping scope backed by gen.
func NewMapper(gen *Generator) *Mapper {
	return &Mapper{
		mappings: make(map[string]string),
		counters: make(map[string]int),
		gen:      gen,
	}
}

// GetReplacement returns the replacement for originalText, generating and
// memoizing one on first sight. Identical normalized text always yields
// the identical replacement within this scope.
func (m *Mapper) GetReplacement(category, originalText string, strategy domain.ReplacementStrategy) string {
	normalized := Normalize(originalText)

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.mappings[normalized]; ok {
		return existing
	}

	var replacement string
	switch strategy {
	case domain.StrategyFakeData:
		replacement = m.gen.Generate(category, originalText)
	case domain.StrategyBlackOut:
		replacement = domain.BlackOutSentinel
	case domain.StrategyEntityLabel:
		replacement = m.nextLabel(category)
	default:
		log.Printf("mapper.GetReplacement: unknown strategy %q, using entity label", strategy)
		replacement = m.nextLabel(category)
	}

	m.mappings[normalized] = replacement
	return replacement
}

// SetMapping inserts or overwrites a mapping directly, bypassing
// generation. Supports user edits of replacement values.
func (m *Mapper) SetMapping(originalText, replacement string) {
	normalized := Normalize(originalText)
	m.mu.Lock()
	m.mappings[normalized] = replacement
	m.mu.Unlock()
}

// Mappings returns a copy of the current scope's map.
func (m *Mapper) Mappings() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.mappings))
	for k, v := range m.mappings {
		out[k] = v
	}
	return out
}

// Clear empties the map and counters, starting a fresh scope in place.
func (m *Mapper) Clear() {
	m.mu.Lock()
	m.mappings = make(map[string]string)
	m.counters = make(map[string]int)
	m.mu.Unlock()
}

// nextLabel produces the sequential label for a category: prefix_A..Z for
// the first 26 sightings, then prefix_27, prefix_28, ... Counters are
// strictly monotonic and never reused. Caller holds m.mu.
func (m *Mapper) nextLabel(category string) string {
	m.counters[category]++
	count := m.counters[category]

	prefix := strings.NewReplacer(" ", "_", "-", "_").Replace(category)

	if count <= 26 {
		return prefix + "_" + string(rune('A'+count-1))
	}
	return prefix + "_" + strconv.Itoa(count)
}
