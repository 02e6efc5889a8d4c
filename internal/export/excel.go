package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ecruzj/ga-web-scrap/internal/report"
)

const sheetName = "Data"

// WriteXLSX writes the dataset to a single-sheet workbook, one header
// row plus one row per captured PageRow in dataset order.
func WriteXLSX(path string, ds *report.RunDataset) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	ranged := isRanged(ds)

	// StreamWriter keeps memory flat on month-long per-day runs.
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	head := make([]any, 0, 7)
	for _, c := range header(ranged) {
		head = append(head, c)
	}
	if err := sw.SetRow("A1", head); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range ds.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, record(r, ranged)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
