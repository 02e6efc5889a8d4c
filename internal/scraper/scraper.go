// Package scraper defines the contract a dashboard integration has to
// fulfil and a registry the CLI resolves integrations from by name.
package scraper

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// Site is one dashboard integration. Run drives a live browser session
// end to end and returns the merged dataset for the requested period.
type Site interface {
	Name() string
	Run(ctx context.Context, opts Options) (*report.RunDataset, error)
}

// Options carries everything a Site needs for one run.
type Options struct {
	// ReportURL overrides the site's built-in dashboard URL.
	ReportURL string

	Start time.Time
	End   time.Time
	Mode  report.Mode

	// Browser session knobs.
	BinPath     string
	UserDataDir string
	ProfileDir  string
	ProxyURL    string
	ShowUI      bool
	Timeout     time.Duration

	// SnapshotDir, when set, receives markdown snapshots of the page on
	// navigation or extraction failures.
	SnapshotDir string

	// Capture tuning. Zero values fall back to each component's
	// defaults.
	StableThreshold int           // consecutive no-new-row reads ending a page
	MaxScrollSteps  int           // scroll plus pagination actions per table
	MaxTablePages   int           // table pages visited per extraction
	ScrollStep      float64       // pixels per scroll, 0 means one viewport
	MaxMonthSteps   int           // calendar walk bound per window
	SettleTimeout   time.Duration // render-settle wait after each action

	Logger *log.Logger
}

// WithDefaults fills the zero-valued knobs every site relies on.
func (o Options) WithDefaults() Options {
	if o.Timeout == 0 {
		o.Timeout = 60 * time.Second
	}
	if o.Mode == "" {
		o.Mode = report.ModePerDay
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}
