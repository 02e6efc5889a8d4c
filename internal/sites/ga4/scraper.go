// Package ga4 drives the Google Analytics 4 "Pages and screens" report
// directly, as an alternative source to the published dashboard. GA4
// types dates instead of walking a calendar and serves one mixed-language
// table, so it brings its own navigator and extractor and shares only
// the run loop.
package ga4

import (
	"context"
	"fmt"

	"github.com/ecruzj/ga-web-scrap/internal/browser"
	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
	"github.com/ecruzj/ga-web-scrap/internal/runner"
	"github.com/ecruzj/ga-web-scrap/internal/scraper"
)

const (
	datePickerTrigger = "reach-date-picker button.date-picker-trigger"
	dateRangeInputs   = "reach-calendar-range-input input"
	applyButton       = "button.apply-button"

	pageSizeSelect = "mat-select.page-size-select"
	pageSizeOption = "mat-option"

	rowSelector    = "tbody tr.mat-mdc-row"
	pagePathCell   = "td[class*='unifiedPagePathScreen']"
	viewsCellSel   = "td[class*='screenPageViews']"
	nextPageButton = "button.page-increment"
)

func init() {
	scraper.Register(&Scraper{})
}

type Scraper struct{}

func (s *Scraper) Name() string { return "ga4" }

// Run opens the GA4 report and extracts every requested window. GA4 has
// no anonymous access, so the browser profile must already hold a logged
// in Google session.
func (s *Scraper) Run(ctx context.Context, opts scraper.Options) (*report.RunDataset, error) {
	opts = opts.WithDefaults()
	logger := opts.Logger.With("site", s.Name())

	if opts.ReportURL == "" {
		return nil, fmt.Errorf("ga4 needs --url pointing at the property's Pages and screens report")
	}

	b, err := browser.New(browser.Config{
		BinPath:     opts.BinPath,
		UserDataDir: opts.UserDataDir,
		ProfileDir:  opts.ProfileDir,
		ProxyURL:    opts.ProxyURL,
		Headless:    !opts.ShowUI,
	})
	if err != nil {
		return nil, err
	}
	defer b.Close()

	logger.Info("opening report", "url", opts.ReportURL)
	rp, err := b.NewPage(opts.ReportURL, opts.Timeout)
	if err != nil {
		return nil, err
	}
	p := page.NewRodPage(rp, opts.Timeout)

	if _, err := p.WaitFor(rowSelector, opts.Timeout); err != nil {
		return nil, fmt.Errorf("report did not render (not signed in?): %w", err)
	}

	maxPages := opts.MaxTablePages
	if maxPages <= 0 {
		maxPages = 10
	}
	nav := &dateNavigator{timeout: opts.Timeout, logger: logger}
	ext := &tableExtractor{maxPages: maxPages, timeout: opts.Timeout, logger: logger}

	return runner.New(nav, ext, logger).Run(ctx, p, opts.Start, opts.End, opts.Mode)
}
