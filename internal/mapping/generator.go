package mapping

import (
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"privasee/internal/port"
)

// Generator produces substitute values for the FakeData strategy. It is
// safe for use by a single Mapper; the Mapper serializes calls.
type Generator struct {
	faker  *gofakeit.Faker
	gender port.GenderDetector
	rand   *rand.Rand
}

// NewGenerator creates a Generator. A zero seed picks a random one.
func NewGenerator(gd port.GenderDetector, seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		faker:  gofakeit.New(seed),
		gender: gd,
		rand:   rand.New(rand.NewSource(int64(seed))),
	}
}

// Generate returns a fake value for a category. Categories are matched by
// the ordered rule table; unmatched categories fall through to the shape
// of the original text.
func (g *Generator) Generate(category, originalText string) string {
	lower := strings.ToLower(category)
	for _, r := range fakeDataRules {
		if r.match(lower) {
			return r.generate(g, lower, originalText)
		}
	}
	return g.defaultValue(originalText)
}

func (g *Generator) defaultValue(originalText string) string {
	switch {
	case isAllDigits(originalText):
		return g.faker.Numerify(strings.Repeat("#", len(originalText)))
	case strings.Contains(originalText, "@"):
		return g.faker.Email()
	default:
		return g.faker.Name()
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
