// Package report holds the data model shared by every extraction
// component: date windows, captured rows and the run-level dataset.
package report

import (
	"fmt"
	"time"
)

// Language tags a captured row with the table it came from.
type Language string

const (
	LanguageEnglish Language = "EN"
	LanguageFrench  Language = "FR"
)

// Mode selects how the orchestrator walks the requested period.
type Mode string

const (
	ModePerDay Mode = "per_day"
	ModeRange  Mode = "range"
)

// ParseMode validates a mode string from the CLI.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePerDay, ModeRange:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want per_day or range)", s)
}

// DateWindow is the single- or multi-day period one extraction pass covers.
// Start and End are inclusive calendar days; Start == End means a single day.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Day returns a window covering exactly one calendar day.
func Day(d time.Time) DateWindow {
	d = Midnight(d)
	return DateWindow{Start: d, End: d}
}

// Range returns a window covering [start, end]. It fails with
// ErrInvalidRange when start is after end.
func Range(start, end time.Time) (DateWindow, error) {
	start, end = Midnight(start), Midnight(end)
	if start.After(end) {
		return DateWindow{}, ErrInvalidRange
	}
	return DateWindow{Start: start, End: end}, nil
}

// Single reports whether the window covers one day.
func (w DateWindow) Single() bool {
	return w.Start.Equal(w.End)
}

// Label renders the window for logs and exports: "2025-11-01" for a single
// day, "2025-10-01..2025-10-31" otherwise.
func (w DateWindow) Label() string {
	if w.Single() {
		return w.Start.Format("2006-01-02")
	}
	return w.Start.Format("2006-01-02") + ".." + w.End.Format("2006-01-02")
}

// Days returns the inclusive day count of the window.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Midnight truncates a time to its calendar day in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PageRow is one captured table row. Immutable once created; within one
// (window, language) extraction the PagePath is unique.
type PageRow struct {
	PagePath string
	Rank     int
	Views    int
	Language Language
	Window   DateWindow
	Source   string
}

// WindowFailure records a window (or one language of a window) that
// produced no rows. Language is empty when the whole window failed.
type WindowFailure struct {
	Window   DateWindow
	Language Language
	Err      error
}

// ExtractionResult is the outcome of one window: both language row sets
// plus any per-language failures. A failed language never discards the
// rows the other language captured.
type ExtractionResult struct {
	Window   DateWindow
	English  []PageRow
	French   []PageRow
	Failures []WindowFailure
}

// Rows returns the combined row sequence, English first.
func (r ExtractionResult) Rows() []PageRow {
	out := make([]PageRow, 0, len(r.English)+len(r.French))
	out = append(out, r.English...)
	out = append(out, r.French...)
	return out
}

// Partial reports whether at least one language failed.
func (r ExtractionResult) Partial() bool {
	return len(r.Failures) > 0
}

// RunDataset is the append-only row sequence spanning every window of a
// run. It is handed to the export writer untouched.
type RunDataset struct {
	Rows     []PageRow
	Failures []WindowFailure
}

// Append merges one window's result into the dataset.
func (d *RunDataset) Append(res ExtractionResult) {
	d.Rows = append(d.Rows, res.Rows()...)
	d.Failures = append(d.Failures, res.Failures...)
}

// RecordFailure marks a window (or one language of it) as skipped.
func (d *RunDataset) RecordFailure(w DateWindow, lang Language, err error) {
	d.Failures = append(d.Failures, WindowFailure{Window: w, Language: lang, Err: err})
}

// Windows returns the distinct window labels present in the dataset's
// rows, in first-seen order.
func (d *RunDataset) Windows() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.Rows {
		label := r.Window.Label()
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}
