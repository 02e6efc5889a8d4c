// Package export serializes a run's dataset. The format is inferred from
// the output file extension; the dataset itself is written as-is, in
// capture order, with no further transformation.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// Write serializes the dataset to path, picking the writer from the file
// extension (.xlsx, .csv or .json).
func Write(path string, ds *report.RunDataset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return WriteXLSX(path, ds)
	case ".csv":
		return WriteCSV(path, ds)
	case ".json":
		return WriteJSON(path, ds)
	default:
		return fmt.Errorf("unsupported output extension %q (want .xlsx, .csv or .json)", filepath.Ext(path))
	}
}

// header returns the column set. Range datasets carry the window bounds
// as two extra columns so a row's period stays recoverable.
func header(ranged bool) []string {
	cols := []string{"date", "language", "rank", "page", "views"}
	if ranged {
		cols = append(cols, "range_start", "range_end")
	}
	return cols
}

// isRanged reports whether any row spans more than one day.
func isRanged(ds *report.RunDataset) bool {
	for _, r := range ds.Rows {
		if !r.Window.Single() {
			return true
		}
	}
	return false
}

// record renders one row into column order matching header().
func record(r report.PageRow, ranged bool) []any {
	out := []any{
		r.Window.Label(),
		string(r.Language),
		r.Rank,
		r.PagePath,
		r.Views,
	}
	if ranged {
		out = append(out,
			r.Window.Start.Format("2006-01-02"),
			r.Window.End.Format("2006-01-02"))
	}
	return out
}
