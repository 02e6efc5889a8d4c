// Package datenav drives the dashboard's date-picker widget. The widget
// renders asynchronously and silently ignores clicks in some states, so
// every interaction is performed as act-then-verify: click, then re-read
// the widget state before trusting the click took effect.
package datenav

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// Selectors locates the pieces of the date-picker widget.
type Selectors struct {
	OpenButton   string // button showing the current range, opens the dialog
	Dialog       string // the picker dialog root
	ModeButton   string // comparison-mode dropdown ("Auto" / "Fixed")
	FixedOption  string // menu item selector matched by text "Fixed"
	Calendar     string // one calendar root; the dialog holds two
	PeriodButton string // calendar header label, toggles zoom level
	PrevButton   string // previous month control
	NextButton   string // next month control
	DayCell      string // enabled day cell content, matched by day number
	MonthCell    string // month cell content in the month-selection view
	YearCell     string // year cell content in the year-range view
	ApplyButton  string // confirms the picked range
}

// Config tunes the navigator. Zero values fall back to defaults.
type Config struct {
	Selectors Selectors

	// MaxMonthSteps bounds the month walk per calendar; a stuck widget
	// surfaces as an unreachable-month error instead of looping forever.
	MaxMonthSteps int
	// Attempts is how many times SetWindow retries with a fresh dialog.
	Attempts int
	// DialogTimeout bounds waits on the dialog opening and closing.
	DialogTimeout time.Duration
	// SettleTimeout bounds the render-settle wait after applying.
	SettleTimeout time.Duration
	// VerifyLabel decides whether the widget's displayed range label
	// matches the requested window. Defaults to matching the formatted
	// start and end dates as substrings.
	VerifyLabel func(label string, w report.DateWindow) bool

	Logger *log.Logger
}

func (c *Config) defaults() {
	if c.MaxMonthSteps <= 0 {
		c.MaxMonthSteps = 48
	}
	if c.Attempts <= 0 {
		c.Attempts = 3
	}
	if c.DialogTimeout <= 0 {
		c.DialogTimeout = 10 * time.Second
	}
	if c.SettleTimeout <= 0 {
		c.SettleTimeout = 5 * time.Second
	}
	if c.VerifyLabel == nil {
		c.VerifyLabel = LabelContainsDates
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}

// Navigator sets the dashboard's reporting window through the calendar
// widget.
type Navigator struct {
	cfg Config
}

// New creates a Navigator.
func New(cfg Config) *Navigator {
	cfg.defaults()
	return &Navigator{cfg: cfg}
}

// SetWindow drives the widget to the requested window. It retries with a
// full dialog re-open between attempts; the returned error is always a
// *report.NavigationError once retries are exhausted.
func (n *Navigator) SetWindow(p page.Handle, w report.DateWindow) error {
	var lastErr error
	for attempt := 1; attempt <= n.cfg.Attempts; attempt++ {
		err := n.setWindowOnce(p, w)
		if err == nil {
			return nil
		}
		lastErr = err
		n.cfg.Logger.Warn("date navigation attempt failed",
			"attempt", attempt, "window", w.Label(), "error", err)
		n.dismissDialog(p)
	}
	return lastErr
}

func (n *Navigator) setWindowOnce(p page.Handle, w report.DateWindow) error {
	sel := n.cfg.Selectors

	open, err := p.Find(sel.OpenButton)
	if err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}
	if err := open.Click(); err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}

	dialog, err := p.WaitFor(sel.Dialog, n.cfg.DialogTimeout)
	if err != nil {
		return navErr(report.NavWidgetUnavailable, fmt.Errorf("picker dialog did not open: %w", err))
	}

	if err := n.ensureFixedMode(p, dialog); err != nil {
		return err
	}

	// The dialog holds a start calendar and an end calendar. Both get a
	// day click even for a single-day window: the widget needs its range
	// closed on both ends.
	calendars, err := dialog.FindAll(sel.Calendar)
	if err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}
	if len(calendars) < 2 {
		return navErr(report.NavWidgetUnavailable, fmt.Errorf("expected 2 calendars, found %d", len(calendars)))
	}

	if err := n.selectDay(calendars[0], w.Start); err != nil {
		return err
	}
	if err := n.selectDay(calendars[1], w.End); err != nil {
		return err
	}

	apply, err := dialog.Find(sel.ApplyButton)
	if err != nil {
		return navErr(report.NavWidgetUnavailable, fmt.Errorf("apply button not found: %w", err))
	}
	if err := apply.Click(); err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}
	if err := p.WaitGone(sel.Dialog, n.cfg.DialogTimeout); err != nil {
		return navErr(report.NavWidgetUnavailable, fmt.Errorf("picker dialog did not close: %w", err))
	}
	if err := p.WaitStable(n.cfg.SettleTimeout); err != nil {
		n.cfg.Logger.Debug("page did not settle after applying range", "error", err)
	}

	// The widget may silently clamp to a different range, e.g. when the
	// requested window lies past the available data. Verification against
	// the displayed label is therefore mandatory, not best-effort.
	shown, err := p.Find(sel.OpenButton)
	if err != nil {
		return navErr(report.NavVerificationFailed, err)
	}
	label, err := shown.Text()
	if err != nil {
		return navErr(report.NavVerificationFailed, err)
	}
	if !n.cfg.VerifyLabel(label, w) {
		return navErr(report.NavVerificationFailed,
			fmt.Errorf("widget shows %q, want %s", strings.TrimSpace(label), w.Label()))
	}

	n.cfg.Logger.Info("date window set", "window", w.Label())
	return nil
}

// ensureFixedMode switches the picker from a relative ("auto") comparison
// mode into fixed mode. Many widget states ignore calendar clicks until
// this happens, so the switch is confirmed by re-reading the mode button
// rather than trusting the click.
func (n *Navigator) ensureFixedMode(p page.Handle, dialog page.Element) error {
	sel := n.cfg.Selectors

	mode, err := dialog.Find(sel.ModeButton)
	if err != nil {
		// Widget variant without a mode dropdown: calendars are already live.
		n.cfg.Logger.Debug("no mode button on picker dialog")
		return nil
	}
	txt, err := mode.Text()
	if err == nil && strings.Contains(strings.ToLower(txt), "fixed") {
		return nil
	}

	n.cfg.Logger.Debug("switching picker to fixed mode", "current", strings.TrimSpace(txt))
	if err := mode.Click(); err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}
	item, err := p.FindByText(sel.FixedOption, "Fixed")
	if err != nil {
		return navErr(report.NavWidgetUnavailable, fmt.Errorf("fixed mode option not found: %w", err))
	}
	if err := item.Click(); err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}

	deadline := time.Now().Add(n.cfg.DialogTimeout)
	for {
		txt, err := mode.Text()
		if err == nil && strings.Contains(strings.ToLower(txt), "fixed") {
			return nil
		}
		if time.Now().After(deadline) {
			return navErr(report.NavWidgetUnavailable, fmt.Errorf("mode switch to fixed not confirmed"))
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// selectDay walks one calendar to the target month and clicks the day
// cell. The calendar has three zoom levels (days, months, year range);
// the walk handles all of them because a disabled prev/next control
// forces a zoom-out through the header.
func (n *Navigator) selectDay(cal page.Element, target time.Time) error {
	sel := n.cfg.Selectors

	for step := 0; step < n.cfg.MaxMonthSteps; step++ {
		period, err := cal.Find(sel.PeriodButton)
		if err != nil {
			return navErr(report.NavWidgetUnavailable, fmt.Errorf("calendar header not found: %w", err))
		}
		label, err := period.Text()
		if err != nil {
			return navErr(report.NavWidgetUnavailable, err)
		}

		view, year, month := parsePeriodLabel(label)
		switch view {
		case viewYears:
			cell, err := cal.FindByText(sel.YearCell, strconv.Itoa(target.Year()))
			if err != nil {
				return navErr(report.NavUnreachableMonth,
					fmt.Errorf("year %d not offered in view %q", target.Year(), strings.TrimSpace(label)))
			}
			if err := cell.Click(); err != nil {
				return navErr(report.NavWidgetUnavailable, err)
			}

		case viewMonths:
			if !n.clickMonthCell(cal, target.Month()) {
				// Wrong year displayed or cell missing: zoom out.
				if err := period.Click(); err != nil {
					return navErr(report.NavWidgetUnavailable, err)
				}
			}

		case viewDays:
			if year == target.Year() && month == target.Month() {
				return n.clickDayCell(cal, target)
			}
			diff := (target.Year()-year)*12 + int(target.Month()) - int(month)
			navSel := sel.NextButton
			if diff < 0 {
				navSel = sel.PrevButton
			}
			arrow, err := cal.Find(navSel)
			if err != nil {
				if err := period.Click(); err != nil {
					return navErr(report.NavWidgetUnavailable, err)
				}
				continue
			}
			if n.arrowDisabled(arrow) {
				// Month-by-month navigation blocked; jump via year view.
				n.cfg.Logger.Debug("month navigation blocked, zooming out", "at", strings.TrimSpace(label))
				if err := period.Click(); err != nil {
					return navErr(report.NavWidgetUnavailable, err)
				}
				continue
			}
			if err := arrow.Click(); err != nil {
				return navErr(report.NavWidgetUnavailable, err)
			}

		default:
			// Unrecognized header: toggle the zoom level and re-read.
			if err := period.Click(); err != nil {
				return navErr(report.NavWidgetUnavailable, err)
			}
		}
	}

	return navErr(report.NavUnreachableMonth,
		fmt.Errorf("month %s not reached within %d steps", target.Format("2006-01"), n.cfg.MaxMonthSteps))
}

func (n *Navigator) clickMonthCell(cal page.Element, m time.Month) bool {
	for _, label := range monthLabels(m) {
		cell, err := cal.FindByText(n.cfg.Selectors.MonthCell, label)
		if err != nil {
			continue
		}
		if cell.Click() == nil {
			return true
		}
	}
	return false
}

func (n *Navigator) clickDayCell(cal page.Element, target time.Time) error {
	cell, err := cal.FindByText(n.cfg.Selectors.DayCell, strconv.Itoa(target.Day()))
	if err != nil {
		return navErr(report.NavUnreachableMonth,
			fmt.Errorf("day %d not clickable in %s", target.Day(), target.Format("2006-01")))
	}
	if err := cell.Click(); err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}
	return nil
}

// arrowDisabled mirrors the widget's two ways of disabling a nav control.
func (n *Navigator) arrowDisabled(arrow page.Element) bool {
	if v, err := arrow.Attribute("disabled"); err == nil && v != "" {
		return true
	}
	ok, err := arrow.HasClass("mat-calendar-body-disabled")
	if err == nil && ok {
		return true
	}
	classes, err := arrow.Attribute("class")
	return err == nil && strings.Contains(classes, "disabled")
}

// dismissDialog closes a half-open picker before a retry re-opens it.
// Best effort: an Escape keypress is all the widget needs.
func (n *Navigator) dismissDialog(p page.Handle) {
	if _, err := p.Find(n.cfg.Selectors.Dialog); err != nil {
		return
	}
	_ = p.Eval(`() => {
		document.body.dispatchEvent(new KeyboardEvent('keydown', {key: 'Escape', bubbles: true}));
	}`, nil)
	_ = p.WaitGone(n.cfg.Selectors.Dialog, 2*time.Second)
}

// LabelContainsDates is the default window verification: the widget label
// must contain the formatted start date, and the end date for ranges
// (e.g. "Nov 1, 2025 - Nov 3, 2025").
func LabelContainsDates(label string, w report.DateWindow) bool {
	if !strings.Contains(label, w.Start.Format("Jan 2, 2006")) {
		return false
	}
	if w.Single() {
		return true
	}
	return strings.Contains(label, w.End.Format("Jan 2, 2006"))
}

func navErr(reason report.NavigationReason, err error) error {
	return &report.NavigationError{Reason: reason, Err: err}
}
