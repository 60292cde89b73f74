// Package export renders batch run reports to spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"privasee/internal/domain"
)

const sheetName = "Batch Report"

var headers = []string{
	"Filename", "Masked Filename", "Status", "Entities To Mask", "Entities Masked", "Score", "Error",
}

// BatchRunXLSX renders one batch run as an xlsx workbook: a summary block
// followed by one row per document.
func BatchRunXLSX(run *domain.BatchRun) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Batch Run", run.ID.String()},
		{"Folder", run.FolderPath},
		{"Created", run.CreatedAt.Format("2006-01-02 15:04:05 MST")},
		{"Documents", run.TotalDocuments},
		{"Successful", run.SuccessfulDocuments},
		{"Batch Score", run.BatchScore},
	}
	row := 1
	for _, pair := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &pair); err != nil {
			return nil, fmt.Errorf("writing summary row %d: %w", row, err)
		}
		row++
	}

	row++ // blank spacer row
	headerCell, _ := excelize.CoordinatesToCellName(1, row)
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, headerCell, &headerRow); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}

	for i := range run.Results {
		res := &run.Results[i]
		row++
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{
			res.Filename,
			res.MaskedFilename,
			string(res.Status),
			res.EntitiesToMask,
			res.EntitiesMasked,
			res.Score,
			res.Error,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("writing result row %d: %w", i+1, err)
		}
	}

	return f, nil
}
