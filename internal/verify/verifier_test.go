package verify_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"privasee/internal/domain"
	"privasee/internal/verify"
	"privasee/mocks"
)

func TestScore(t *testing.T) {
	assert.Equal(t, 100.0, verify.Score(0, 0))
	assert.Equal(t, 100.0, verify.Score(5, 5))
	assert.Equal(t, 0.0, verify.Score(0, 5))
	assert.Equal(t, 50.0, verify.Score(1, 2))
	assert.Equal(t, 66.7, verify.Score(2, 3))
	assert.Equal(t, 33.3, verify.Score(1, 3))
}

func writeTempPage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fake png bytes"), 0o644))
	return path
}

func TestVerify_AllMasked(t *testing.T) {
	dir := t.TempDir()
	page := writeTempPage(t, dir, "masked_page1.png")

	extractor := new(mocks.MockTextExtractor)
	extractor.On("ExtractText", mock.Anything, mock.Anything).Return("Name_A visited on Date_A", nil)

	v := verify.New(extractor)
	result, err := v.Verify(context.Background(), []string{page}, []domain.Entity{
		{Category: "name", OriginalText: "John Smith"},
		{Category: "dob", OriginalText: "1987-06-15"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.EntitiesChecked)
	assert.Equal(t, 2, result.EntitiesMasked)
	assert.Equal(t, 100.0, result.Score)
	assert.Empty(t, result.Failed)
}

func TestVerify_ResidualEntityDetected(t *testing.T) {
	dir := t.TempDir()
	page := writeTempPage(t, dir, "masked_page1.png")

	extractor := new(mocks.MockTextExtractor)
	extractor.On("ExtractText", mock.Anything, mock.Anything).Return("patient JOHN SMITH was seen", nil)

	v := verify.New(extractor)
	result, err := v.Verify(context.Background(), []string{page}, []domain.Entity{
		{Category: "name", OriginalText: "John Smith"},
		{Category: "ssn", OriginalText: "123-45-6789"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.EntitiesMasked)
	assert.Equal(t, 50.0, result.Score)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "John Smith", result.Failed[0].OriginalText)
}

func TestVerify_EmptyNormalizedCountsAsMasked(t *testing.T) {
	dir := t.TempDir()
	page := writeTempPage(t, dir, "masked_page1.png")

	extractor := new(mocks.MockTextExtractor)
	extractor.On("ExtractText", mock.Anything, mock.Anything).Return("anything", nil)

	v := verify.New(extractor)
	result, err := v.Verify(context.Background(), []string{page}, []domain.Entity{
		{Category: "noise", OriginalText: "..!,"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.EntitiesMasked)
	assert.Equal(t, 100.0, result.Score)
}

func TestVerify_NoEntitiesScores100(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)

	v := verify.New(extractor)
	result, err := v.Verify(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
}

func TestVerify_OCRFailureDegradesToEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	page := writeTempPage(t, dir, "masked_page1.png")

	extractor := new(mocks.MockTextExtractor)
	extractor.On("ExtractText", mock.Anything, mock.Anything).Return("", errors.New("ocr offline"))

	v := verify.New(extractor)
	result, err := v.Verify(context.Background(), []string{page}, []domain.Entity{
		{Category: "name", OriginalText: "John Smith"},
	})

	// A page that cannot be read contributes no text; the entity is
	// absent from the corpus and counts as masked.
	require.NoError(t, err)
	assert.Equal(t, 1, result.EntitiesMasked)
	assert.Equal(t, 100.0, result.Score)
}

func TestVerify_MissingFileSkipped(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)

	v := verify.New(extractor)
	result, err := v.Verify(context.Background(), []string{"/nonexistent/masked.png"}, []domain.Entity{
		{Category: "name", OriginalText: "John Smith"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.EntitiesMasked)
	extractor.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}
