package datenav

import (
	"strconv"
	"strings"
	"time"
)

// monthAbbrev maps the calendar header's month abbreviation to a month.
// English and Spanish are both accepted because the dashboard renders the
// widget in the browser locale.
var monthAbbrev = map[string]time.Month{
	"JAN": time.January, "ENE": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April, "ABR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AUG": time.August, "AGO": time.August,
	"SEP": time.September, "SET": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DEC": time.December, "DIC": time.December,
}

// monthLabels lists the abbreviations a month-selection cell may carry,
// English first.
func monthLabels(m time.Month) []string {
	en := strings.ToUpper(m.String()[:3])
	switch m {
	case time.January:
		return []string{en, "ENE"}
	case time.April:
		return []string{en, "ABR"}
	case time.August:
		return []string{en, "AGO"}
	case time.September:
		return []string{en, "SET"}
	case time.December:
		return []string{en, "DIC"}
	}
	return []string{en}
}

// calendarView identifies the widget's zoom level from its header label.
type calendarView int

const (
	viewUnknown calendarView = iota
	viewDays                 // "NOV 2025"
	viewMonths               // "2025"
	viewYears                // "2016 – 2039"
)

// parsePeriodLabel decodes the calendar header. Year and month are only
// meaningful for the view that carries them.
func parsePeriodLabel(label string) (view calendarView, year int, month time.Month) {
	label = strings.TrimSpace(label)
	if label == "" {
		return viewUnknown, 0, 0
	}

	// Year-range view renders two years joined by a dash.
	if strings.ContainsRune(label, '–') || strings.Contains(label, " - ") {
		return viewYears, 0, 0
	}

	parts := strings.Fields(label)
	if len(parts) == 1 {
		if y, err := strconv.Atoi(parts[0]); err == nil {
			return viewMonths, y, 0
		}
		return viewUnknown, 0, 0
	}

	// Day view: month abbreviation plus year, e.g. "NOV 2025".
	abbrev := strings.ToUpper(parts[0])
	if len(abbrev) > 3 {
		abbrev = abbrev[:3]
	}
	m, ok := monthAbbrev[abbrev]
	if !ok {
		return viewUnknown, 0, 0
	}
	y, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return viewUnknown, 0, 0
	}
	return viewDays, y, m
}
