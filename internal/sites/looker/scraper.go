// Package looker drives the Looker Studio web-traffic dashboard: one
// date picker, two virtualized tables (English and French page views).
package looker

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ecruzj/ga-web-scrap/internal/browser"
	"github.com/ecruzj/ga-web-scrap/internal/datenav"
	"github.com/ecruzj/ga-web-scrap/internal/diag"
	"github.com/ecruzj/ga-web-scrap/internal/extract"
	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
	"github.com/ecruzj/ga-web-scrap/internal/runner"
	"github.com/ecruzj/ga-web-scrap/internal/scraper"
	"github.com/ecruzj/ga-web-scrap/internal/scroller"
)

func init() {
	scraper.Register(&Scraper{})
}

type Scraper struct{}

func (s *Scraper) Name() string { return "looker" }

// Run opens the dashboard and extracts every requested window.
func (s *Scraper) Run(ctx context.Context, opts scraper.Options) (*report.RunDataset, error) {
	opts = opts.WithDefaults()
	logger := opts.Logger.With("site", s.Name())

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

	url := opts.ReportURL
	if url == "" {
		url = defaultReportURL
	}
	logger.Info("opening report", "url", url)

	rp, err := b.NewPage(url, opts.Timeout)
	if err != nil {
		return nil, err
	}
	p := page.NewRodPage(rp, opts.Timeout)

	snap := diag.New(opts.SnapshotDir, logger)

	// The report renders long after load: wait for the first table row
	// before touching any widget.
	if _, err := p.WaitFor(firstRowSelector, opts.Timeout); err != nil {
		capturePage(snap, p, "report-never-rendered")
		return nil, fmt.Errorf("report did not render: %w", err)
	}

	navCfg, scrollCfg := engineConfigs(opts, logger)
	nav := datenav.New(navCfg)
	sc := scroller.New(scrollCfg)
	ext := extract.New(tableResolver{}, sc, logger)

	ds, err := runner.New(nav, ext, logger).Run(ctx, p, opts.Start, opts.End, opts.Mode)
	if err != nil || (ds != nil && len(ds.Failures) > 0) {
		capturePage(snap, p, "run-finished-with-failures")
	}
	return ds, err
}

// engineConfigs builds the navigator and scroller configs, carrying the
// caller's tuning knobs through to the components that honor them.
func engineConfigs(opts scraper.Options, logger *log.Logger) (datenav.Config, scroller.Config) {
	nav := datenav.Config{
		Selectors:     dateSelectors,
		MaxMonthSteps: opts.MaxMonthSteps,
		SettleTimeout: opts.SettleTimeout,
		Logger:        logger,
	}
	scroll := scroller.Config{
		Selectors:       tableSelectors,
		StableThreshold: opts.StableThreshold,
		MaxSteps:        opts.MaxScrollSteps,
		MaxPages:        opts.MaxTablePages,
		ScrollStep:      opts.ScrollStep,
		SettleTimeout:   opts.SettleTimeout,
		Source:          "looker",
		Logger:          logger,
	}
	return nav, scroll
}

// capturePage snapshots the live DOM for selector-drift diagnosis.
func capturePage(snap *diag.Snapshotter, p page.Handle, stage string) {
	root, err := p.Find("body")
	if err != nil {
		return
	}
	html, err := root.HTML()
	if err != nil {
		return
	}
	snap.Capture(stage, html)
}
