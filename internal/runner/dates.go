package runner

import (
	"time"

	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// windows produces the DateWindow sequence for a run: one per calendar
// day in [start, end] ascending for per_day, a single spanning window
// for range. Callers validate start <= end first.
func windows(start, end time.Time, mode report.Mode) []report.DateWindow {
	start, end = report.Midnight(start), report.Midnight(end)
	if mode == report.ModeRange {
		return []report.DateWindow{{Start: start, End: end}}
	}
	var out []report.DateWindow
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, report.Day(d))
	}
	return out
}
