// Package runner owns a whole extraction run: it walks the requested
// period window by window, drives navigation and extraction for each,
// and accumulates everything into one dataset. Partial success beats
// all-or-nothing: re-scraping is expensive in wall-clock time, so a
// failed window is recorded and skipped rather than sinking the run.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// Navigator sets the dashboard's reporting window.
type Navigator interface {
	SetWindow(p page.Handle, w report.DateWindow) error
}

// WindowExtractor captures both languages for the current window.
type WindowExtractor interface {
	ExtractWindow(p page.Handle, w report.DateWindow) (report.ExtractionResult, error)
}

// Runner iterates the requested mode over one page handle.
type Runner struct {
	nav    Navigator
	ext    WindowExtractor
	logger *log.Logger
}

// New creates a Runner. logger may be nil.
func New(nav Navigator, ext WindowExtractor, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{nav: nav, ext: ext, logger: logger}
}

// Run executes the whole period. per_day isolates failures per window;
// range has a single window whose failure is the run's failure.
// InvalidRange is rejected before the page handle is touched. The
// context cancels cooperatively between windows, returning the dataset
// accumulated so far alongside the context's error.
func (r *Runner) Run(ctx context.Context, p page.Handle, start, end time.Time, mode report.Mode) (*report.RunDataset, error) {
	if report.Midnight(start).After(report.Midnight(end)) {
		return nil, fmt.Errorf("%w: %s > %s", report.ErrInvalidRange,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	dataset := &report.RunDataset{}
	wins := windows(start, end, mode)
	r.logger.Info("run starting", "mode", string(mode), "windows", len(wins))

	for i, w := range wins {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run cancelled, returning rows captured so far",
				"completed", i, "remaining", len(wins)-i)
			return dataset, err
		}

		if err := r.runWindow(p, w, dataset); err != nil {
			if mode == report.ModeRange {
				return nil, fmt.Errorf("window %s failed: %w", w.Label(), err)
			}
			// Recorded and skipped; the remaining days still run.
			r.logger.Error("window skipped", "window", w.Label(), "error", err)
			dataset.RecordFailure(w, "", err)
		}
	}

	r.logger.Info("run complete", "rows", len(dataset.Rows), "failures", len(dataset.Failures))
	return dataset, nil
}

func (r *Runner) runWindow(p page.Handle, w report.DateWindow, dataset *report.RunDataset) error {
	r.logger.Info("processing window", "window", w.Label())

	if err := r.nav.SetWindow(p, w); err != nil {
		return err
	}

	res, err := r.ext.ExtractWindow(p, w)
	if err != nil {
		return err
	}
	if res.Partial() {
		r.logger.Warn("window extracted partially",
			"window", w.Label(), "rows", len(res.Rows()), "failed_languages", len(res.Failures))
	}
	dataset.Append(res)
	return nil
}
