// Package scroller captures every row of a virtualized table. The table
// renders only the rows near its viewport and discards them as the view
// moves, so capture is an explicit state machine over scroll and
// pagination steps, terminating on thresholded stability: N consecutive
// reads with no new rows, not a single empty read, so transient render
// lag never false-terminates the walk.
package scroller

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// Selectors locates the moving parts of one table.
type Selectors struct {
	Body          string // scrollable row container inside the table root
	Row           string // one rendered row
	Cell          string // one cell within a row
	Link          string // anchor inside the page-path cell, optional
	Pager         string // pagination control container
	NextPage      string // next-page control inside the pager
	DisabledClass string // class marking the next-page control disabled
}

// Config tunes the capture walk. The stability threshold and scroll step
// are deliberately explicit: they are behavior, not magic.
type Config struct {
	Selectors Selectors

	// StableThreshold is how many consecutive reads must yield no new
	// rows before the current page is considered fully captured.
	StableThreshold int
	// MaxSteps caps total scroll plus pagination actions per extraction;
	// hitting it surfaces a ScrollTimeoutError.
	MaxSteps int
	// MaxPages caps how many table pages one extraction may visit.
	MaxPages int
	// ScrollStep is the per-step scroll distance in pixels. Zero means
	// one viewport height.
	ScrollStep float64
	// SettleTimeout bounds the render-settle wait after each action.
	SettleTimeout time.Duration
	// Source is the provenance tag stamped on every captured row.
	Source string

	Logger *log.Logger
}

func (c *Config) defaults() {
	if c.StableThreshold <= 0 {
		c.StableThreshold = 2
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = 400
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 10
	}
	if c.SettleTimeout <= 0 {
		c.SettleTimeout = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}

// Scroller walks one table region until every row has been captured once.
type Scroller struct {
	cfg Config
}

// New creates a Scroller.
func New(cfg Config) *Scroller {
	cfg.defaults()
	return &Scroller{cfg: cfg}
}

type state int

const (
	stateReading state = iota
	stateScrolling
	statePaginating
	stateDone
)

// cursor tracks capture progress across scroll and pagination steps.
// Known keys survive pagination: a page path may never be emitted twice
// within one extraction.
type cursor struct {
	known  map[string]struct{}
	stable int
	steps  int
	pages  int
}

// ExtractAll captures every row of the table under tableRoot, in render
// order, deduplicated by page path. On a step-cap hit it returns the rows
// captured so far together with a *report.ScrollTimeoutError.
func (s *Scroller) ExtractAll(p page.Handle, tableRoot page.Element, lang report.Language, w report.DateWindow) ([]report.PageRow, error) {
	sel := s.cfg.Selectors
	logger := s.cfg.Logger.With("lang", string(lang), "window", w.Label())

	body, err := tableRoot.Find(sel.Body)
	if err != nil {
		return nil, fmt.Errorf("table body not found: %w", err)
	}
	_ = body.ScrollToTop()

	cur := &cursor{known: make(map[string]struct{})}
	var rows []report.PageRow

	for st := stateReading; st != stateDone; {
		if cur.steps >= s.cfg.MaxSteps {
			return rows, &report.ScrollTimeoutError{Language: lang, Steps: cur.steps}
		}

		switch st {
		case stateReading:
			fresh := s.readVisible(body, lang, w, cur, logger)
			rows = append(rows, fresh...)
			if len(fresh) > 0 {
				cur.stable = 0
				st = stateScrolling
				break
			}
			cur.stable++
			if cur.stable < s.cfg.StableThreshold {
				st = stateScrolling
				break
			}
			if s.nextPageReady(tableRoot, cur) {
				st = statePaginating
			} else {
				st = stateDone
			}

		case stateScrolling:
			cur.steps++
			if err := body.ScrollBy(s.scrollDelta(body)); err != nil {
				logger.Debug("scroll step failed", "error", err)
			}
			s.settle(p, logger)
			st = stateReading

		case statePaginating:
			cur.steps++
			cur.pages++
			cur.stable = 0
			logger.Info("advancing to next table page", "page", cur.pages+1, "captured", len(rows))
			if err := s.clickNextPage(tableRoot); err != nil {
				logger.Warn("next page click failed", "error", err)
				st = stateDone
				break
			}
			s.settle(p, logger)
			// Pagination refreshes the table DOM; re-acquire the body and
			// start the new page from its top. The walk re-enters Reading
			// directly: scrolling first could shove the fresh page's first
			// viewport out of a virtualized window before it was read.
			if nb, err := tableRoot.Find(sel.Body); err == nil {
				body = nb
			}
			_ = body.ScrollToTop()
			st = stateReading
		}
	}

	logger.Info("table capture complete", "rows", len(rows), "steps", cur.steps, "pages", cur.pages+1)
	return rows, nil
}

// readVisible parses every currently rendered row and returns the ones
// not seen before. Malformed rows are skipped and logged, never fatal.
func (s *Scroller) readVisible(body page.Element, lang report.Language, w report.DateWindow, cur *cursor, logger *log.Logger) []report.PageRow {
	els, err := body.FindAll(s.cfg.Selectors.Row)
	if err != nil {
		logger.Debug("row query failed", "error", err)
		return nil
	}

	var out []report.PageRow
	for _, el := range els {
		parsed, err := s.parseRow(el)
		if err != nil {
			var rpe *report.RowParseError
			if errors.As(err, &rpe) {
				logger.Debug("skipping row", "reason", rpe.Reason)
				continue
			}
			logger.Debug("row read failed", "error", err)
			continue
		}
		if _, seen := cur.known[parsed.path]; seen {
			continue
		}
		cur.known[parsed.path] = struct{}{}
		out = append(out, report.PageRow{
			PagePath: parsed.path,
			Rank:     parsed.rank,
			Views:    parsed.views,
			Language: lang,
			Window:   w,
			Source:   s.cfg.Source,
		})
	}
	return out
}

func (s *Scroller) scrollDelta(body page.Element) float64 {
	if s.cfg.ScrollStep > 0 {
		return s.cfg.ScrollStep
	}
	if h, err := body.Height(); err == nil && h > 0 {
		return h
	}
	return 600
}

func (s *Scroller) settle(p page.Handle, logger *log.Logger) {
	if err := p.WaitStable(s.cfg.SettleTimeout); err != nil {
		logger.Debug("render did not settle in time", "error", err)
	}
}

// nextPageReady reports whether an enabled next-page control exists and
// the page cap still allows visiting it.
func (s *Scroller) nextPageReady(tableRoot page.Element, cur *cursor) bool {
	if cur.pages+1 >= s.cfg.MaxPages {
		s.cfg.Logger.Warn("page cap reached, stopping pagination", "pages", cur.pages+1)
		return false
	}
	next, err := s.findNextPage(tableRoot)
	if err != nil {
		return false
	}
	if disabled, err := next.HasClass(s.cfg.Selectors.DisabledClass); err == nil && disabled {
		return false
	}
	if v, err := next.Attribute("disabled"); err == nil && v != "" {
		return false
	}
	return true
}

func (s *Scroller) clickNextPage(tableRoot page.Element) error {
	next, err := s.findNextPage(tableRoot)
	if err != nil {
		return err
	}
	return next.Click()
}

func (s *Scroller) findNextPage(tableRoot page.Element) (page.Element, error) {
	pager, err := tableRoot.Find(s.cfg.Selectors.Pager)
	if err != nil {
		return nil, err
	}
	return pager.Find(s.cfg.Selectors.NextPage)
}
