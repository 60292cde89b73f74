package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"privasee/internal/mapping"
)

func TestNormalize_Lowercases(t *testing.T) {
	assert.Equal(t, "john smith", mapping.Normalize("John SMITH"))
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "john smith", mapping.Normalize("  John \t Smith \n"))
}

func TestNormalize_StripsPunctuation(t *testing.T) {
	assert.Equal(t, "dr smith jr", mapping.Normalize(`Dr. Smith, "Jr."!`))
	assert.Equal(t, "smith", mapping.Normalize("(Smith)"))
}

func TestNormalize_KeepsHyphens(t *testing.T) {
	assert.Equal(t, "mary-jane obrien", mapping.Normalize("Mary-Jane O'Brien"))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", mapping.Normalize(""))
	assert.Equal(t, "", mapping.Normalize("  .,! "))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"John Smith", "  A.  B.  ", "claim #12345", "Mary-Jane"}
	for _, in := range inputs {
		once := mapping.Normalize(in)
		assert.Equal(t, once, mapping.Normalize(once), "input %q", in)
	}
}
