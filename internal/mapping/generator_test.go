package mapping_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"privasee/internal/mapping"
	"privasee/internal/mapping/gender"
)

func newTestGenerator() *mapping.Generator {
	return mapping.NewGenerator(gender.Neutral{}, 7)
}

func TestGenerator_Email(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("Email Address", "john.smith@example.com")
	assert.Contains(t, got, "@")
}

func TestGenerator_Phone(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("phone number", "(555) 123-4567")
	assert.Regexp(t, regexp.MustCompile(`\d`), got)
}

func TestGenerator_SSN(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("social security number", "123-45-6789")
	assert.NotEqual(t, "123-45-6789", got)
	assert.NotEmpty(t, got)
}

func TestGenerator_FullName(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("patient name", "John Smith")
	assert.NotEqual(t, "John Smith", got)
	assert.Contains(t, got, " ", "full name should have first and last parts")
}

func TestGenerator_LastName(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("last name", "Smith")
	assert.NotEmpty(t, got)
	assert.NotContains(t, got, " ")
}

func TestGenerator_AddressKeepsSingleLine(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("home address", "123 Main St\nSpringfield, IL 62701")
	assert.NotContains(t, got, "\n")
}

func TestGenerator_License(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("driver license", "ABC1234")
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{3}\d{4}$`), got)
}

func TestGenerator_DefaultAllDigitsKeepsLength(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("member id", "123456")
	assert.Len(t, got, 6)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), got)
}

func TestGenerator_DefaultEmailShape(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("contact", "someone@example.org")
	assert.Contains(t, got, "@")
}

func TestGenerator_DefaultFallsBackToName(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("unclassified thing", "whatever text")
	assert.NotEmpty(t, got)
}

func TestGenerator_DateKeepsYearISO(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("date of birth", "1987-06-15")
	assert.True(t, strings.HasPrefix(got, "1987-"), "got %q", got)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), got)
}

func TestGenerator_DateKeepsYearSlash(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("dob", "06/15/1987")
	assert.Regexp(t, regexp.MustCompile(`^\d{2}/\d{2}/1987$`), got)
}

func TestGenerator_DateKeepsYearLongForm(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("birth date", "March 5, 1990")
	assert.True(t, strings.HasSuffix(got, " 1990"), "got %q", got)
}

func TestGenerator_DateBareYear(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("date", "born in 1975")
	assert.Regexp(t, regexp.MustCompile(`^\d{2}/\d{2}/1975$`), got)
}

func TestGenerator_DateNoYearRandomBirthdate(t *testing.T) {
	g := newTestGenerator()
	got := g.Generate("date of birth", "unknown")
	assert.Regexp(t, regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), got)
}
