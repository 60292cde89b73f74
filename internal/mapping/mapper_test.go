package mapping_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"privasee/internal/domain"
	"privasee/internal/mapping"
	"privasee/internal/mapping/gender"
)

func newTestMapper() *mapping.Mapper {
	return mapping.NewMapper(mapping.NewGenerator(gender.Neutral{}, 42))
}

func TestMapper_FakeDataConsistency(t *testing.T) {
	m := newTestMapper()

	first := m.GetReplacement("patient name", "John Smith", domain.StrategyFakeData)
	second := m.GetReplacement("patient name", "John Smith", domain.StrategyFakeData)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestMapper_NormalizedVariantsShareReplacement(t *testing.T) {
	m := newTestMapper()

	a := m.GetReplacement("patient name", "John Smith", domain.StrategyFakeData)
	b := m.GetReplacement("patient name", "  john   smith. ", domain.StrategyFakeData)

	assert.Equal(t, a, b)
}

func TestMapper_BlackOut(t *testing.T) {
	m := newTestMapper()

	got := m.GetReplacement("ssn", "123-45-6789", domain.StrategyBlackOut)
	assert.Equal(t, "[REDACTED]", got)
}

func TestMapper_EntityLabelSequence(t *testing.T) {
	m := newTestMapper()

	assert.Equal(t, "Patient_Name_A", m.GetReplacement("Patient Name", "Alice One", domain.StrategyEntityLabel))
	assert.Equal(t, "Patient_Name_B", m.GetReplacement("Patient Name", "Bob Two", domain.StrategyEntityLabel))

	// Same person again reuses the memoized label, not a new counter.
	assert.Equal(t, "Patient_Name_A", m.GetReplacement("Patient Name", "alice one", domain.StrategyEntityLabel))
}

func TestMapper_EntityLabelBeyondZ(t *testing.T) {
	m := newTestMapper()

	var last string
	for i := 0; i < 27; i++ {
		last = m.GetReplacement("MRN", fmt.Sprintf("record-%d", i), domain.StrategyEntityLabel)
	}
	assert.Equal(t, "MRN_27", last)
}

func TestMapper_EntityLabelPrefixSanitized(t *testing.T) {
	m := newTestMapper()

	got := m.GetReplacement("date-of birth", "1990-01-01", domain.StrategyEntityLabel)
	assert.Equal(t, "date_of_birth_A", got)
}

func TestMapper_CountersPerCategory(t *testing.T) {
	m := newTestMapper()

	assert.Equal(t, "Name_A", m.GetReplacement("Name", "Alice", domain.StrategyEntityLabel))
	assert.Equal(t, "SSN_A", m.GetReplacement("SSN", "123-45-6789", domain.StrategyEntityLabel))
	assert.Equal(t, "Name_B", m.GetReplacement("Name", "Bob", domain.StrategyEntityLabel))
}

func TestMapper_UnknownStrategyFallsBackToLabel(t *testing.T) {
	m := newTestMapper()

	got := m.GetReplacement("Name", "Alice", domain.ReplacementStrategy("Rot13"))
	assert.Equal(t, "Name_A", got)
}

func TestMapper_SetMappingOverride(t *testing.T) {
	m := newTestMapper()

	m.SetMapping("John Smith", "Jane Roe")
	got := m.GetReplacement("name", "john smith", domain.StrategyFakeData)
	assert.Equal(t, "Jane Roe", got)
}

func TestMapper_Clear(t *testing.T) {
	m := newTestMapper()

	m.GetReplacement("Name", "Alice", domain.StrategyEntityLabel)
	m.Clear()

	assert.Empty(t, m.Mappings())
	assert.Equal(t, "Name_A", m.GetReplacement("Name", "Bob", domain.StrategyEntityLabel))
}

func TestMapper_MappingsReturnsCopy(t *testing.T) {
	m := newTestMapper()

	m.GetReplacement("Name", "Alice", domain.StrategyEntityLabel)
	snapshot := m.Mappings()
	snapshot["alice"] = "mutated"

	assert.Equal(t, "Name_A", m.Mappings()["alice"])
}
