package ga4

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// dateFormat is what the GA4 range inputs accept, e.g. "Nov 3, 2025".
const dateFormat = "Jan 2, 2006"

// dateNavigator sets the reporting window by typing into GA4's two range
// inputs. Unlike the Looker calendar there is no month walk; the risk
// here is the input silently rejecting the text, so the applied range is
// still verified against the collapsed picker label.
type dateNavigator struct {
	timeout time.Duration
	logger  *log.Logger
}

func (n *dateNavigator) SetWindow(p page.Handle, w report.DateWindow) error {
	trigger, err := p.Find(datePickerTrigger)
	if err != nil {
		return navErr(report.NavWidgetUnavailable, fmt.Errorf("date picker not found: %w", err))
	}
	if err := trigger.Click(); err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}
	if _, err := p.WaitFor(dateRangeInputs, n.timeout); err != nil {
		return navErr(report.NavWidgetUnavailable, fmt.Errorf("range inputs did not appear: %w", err))
	}

	inputs, err := p.FindAll(dateRangeInputs)
	if err != nil || len(inputs) < 2 {
		return navErr(report.NavWidgetUnavailable, fmt.Errorf("expected 2 range inputs, found %d", len(inputs)))
	}

	if err := inputs[0].Type(w.Start.Format(dateFormat)); err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}
	if err := inputs[1].Type(w.End.Format(dateFormat)); err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}

	apply, err := p.Find(applyButton)
	if err != nil {
		return navErr(report.NavWidgetUnavailable, fmt.Errorf("apply button not found: %w", err))
	}
	if err := apply.Click(); err != nil {
		return navErr(report.NavWidgetUnavailable, err)
	}
	if err := p.WaitStable(n.timeout); err != nil {
		n.logger.Debug("report did not settle after applying range", "error", err)
	}

	shown, err := p.Find(datePickerTrigger)
	if err != nil {
		return navErr(report.NavVerificationFailed, err)
	}
	label, err := shown.Text()
	if err != nil {
		return navErr(report.NavVerificationFailed, err)
	}
	if !labelMatches(label, w) {
		return navErr(report.NavVerificationFailed,
			fmt.Errorf("picker shows %q, want %s", strings.TrimSpace(label), w.Label()))
	}

	n.logger.Info("date window set", "window", w.Label())
	return nil
}

// labelMatches accepts the collapsed label with or without the year on
// the start date; GA4 drops it when both ends share a year.
func labelMatches(label string, w report.DateWindow) bool {
	if !strings.Contains(label, w.End.Format(dateFormat)) {
		return false
	}
	if w.Single() {
		return true
	}
	return strings.Contains(label, w.Start.Format(dateFormat)) ||
		strings.Contains(label, w.Start.Format("Jan 2"))
}

func navErr(reason report.NavigationReason, err error) error {
	return &report.NavigationError{Reason: reason, Err: err}
}
