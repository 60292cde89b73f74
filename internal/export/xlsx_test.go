package export_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privasee/internal/domain"
	"privasee/internal/export"
)

func TestBatchRunXLSX(t *testing.T) {
	run := &domain.BatchRun{
		ID:                  uuid.New(),
		FolderPath:          "/data/inbox",
		TotalDocuments:      2,
		SuccessfulDocuments: 1,
		BatchScore:          75.0,
		CreatedAt:           time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Results: []domain.DocumentResult{
			{Filename: "a.pdf", MaskedFilename: "masked_a.pdf", Status: domain.DocumentStatusSuccess, EntitiesToMask: 4, EntitiesMasked: 3, Score: 75.0},
			{Filename: "b.pdf", Status: domain.DocumentStatusError, Error: "rendering pages: exit status 1"},
		},
	}

	f, err := export.BatchRunXLSX(run)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.Equal(t, []string{"Batch Report"}, sheets)

	id, err := f.GetCellValue("Batch Report", "B1")
	require.NoError(t, err)
	assert.Equal(t, run.ID.String(), id)

	folder, _ := f.GetCellValue("Batch Report", "B2")
	assert.Equal(t, "/data/inbox", folder)

	score, _ := f.GetCellValue("Batch Report", "B6")
	assert.Equal(t, "75", score)

	header, _ := f.GetCellValue("Batch Report", "A8")
	assert.Equal(t, "Filename", header)

	first, _ := f.GetCellValue("Batch Report", "A9")
	assert.Equal(t, "a.pdf", first)
	status, _ := f.GetCellValue("Batch Report", "C10")
	assert.Equal(t, "error", status)
	errMsg, _ := f.GetCellValue("Batch Report", "G10")
	assert.Equal(t, "rendering pages: exit status 1", errMsg)
}

func TestBatchRunXLSX_NoResults(t *testing.T) {
	run := &domain.BatchRun{ID: uuid.New(), CreatedAt: time.Now()}

	f, err := export.BatchRunXLSX(run)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	header, err := f.GetCellValue("Batch Report", "A8")
	require.NoError(t, err)
	assert.Equal(t, "Filename", header)
}
