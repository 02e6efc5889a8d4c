package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// WriteCSV writes the dataset as a header row plus one record per row.
func WriteCSV(path string, ds *report.RunDataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	ranged := isRanged(ds)
	w := csv.NewWriter(f)
	if err := w.Write(header(ranged)); err != nil {
		return err
	}
	for _, r := range ds.Rows {
		fields := record(r, ranged)
		strs := make([]string, len(fields))
		for i, v := range fields {
			strs[i] = fmt.Sprint(v)
		}
		if err := w.Write(strs); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type jsonRow struct {
	Date       string `json:"date"`
	Language   string `json:"language"`
	Rank       int    `json:"rank"`
	Page       string `json:"page"`
	Views      int    `json:"views"`
	RangeStart string `json:"range_start,omitempty"`
	RangeEnd   string `json:"range_end,omitempty"`
	Source     string `json:"source,omitempty"`
}

// WriteJSON writes the dataset as a JSON array of row objects.
func WriteJSON(path string, ds *report.RunDataset) error {
	rows := make([]jsonRow, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		jr := jsonRow{
			Date:     r.Window.Label(),
			Language: string(r.Language),
			Rank:     r.Rank,
			Page:     r.PagePath,
			Views:    r.Views,
			Source:   r.Source,
		}
		if !r.Window.Single() {
			jr.RangeStart = r.Window.Start.Format("2006-01-02")
			jr.RangeEnd = r.Window.End.Format("2006-01-02")
		}
		rows = append(rows, jr)
	}

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Preview renders the first n rows of the dataset as a terminal table,
// followed by a one-line summary.
func Preview(w io.Writer, ds *report.RunDataset, n int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Date", "Lang", "Rank", "Page", "Views"})

	for i, r := range ds.Rows {
		if i >= n {
			break
		}
		t.AppendRow(table.Row{r.Window.Label(), string(r.Language), r.Rank, r.PagePath, r.Views})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprintf(w, "%d rows total, %d windows, %d failures\n",
		len(ds.Rows), len(ds.Windows()), len(ds.Failures))
}
