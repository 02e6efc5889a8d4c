package datenav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriodLabel(t *testing.T) {
	tests := []struct {
		label string
		view  calendarView
		year  int
		month time.Month
	}{
		{"NOV 2025", viewDays, 2025, time.November},
		{"  nov 2025 ", viewDays, 2025, time.November},
		{"NOVEMBER 2025", viewDays, 2025, time.November},
		{"ENE 2026", viewDays, 2026, time.January},
		{"AGO 2024", viewDays, 2024, time.August},
		{"SET 2024", viewDays, 2024, time.September},
		{"2025", viewMonths, 2025, 0},
		{"2016 – 2039", viewYears, 0, 0},
		{"2016 - 2039", viewYears, 0, 0},
		{"", viewUnknown, 0, 0},
		{"whatever", viewUnknown, 0, 0},
		{"XYZ 2025", viewUnknown, 0, 0},
	}
	for _, tt := range tests {
		view, year, month := parsePeriodLabel(tt.label)
		assert.Equal(t, tt.view, view, "label %q", tt.label)
		if tt.view == viewDays {
			assert.Equal(t, tt.year, year, "label %q", tt.label)
			assert.Equal(t, tt.month, month, "label %q", tt.label)
		}
		if tt.view == viewMonths {
			assert.Equal(t, tt.year, year, "label %q", tt.label)
		}
	}
}

func TestMonthLabels(t *testing.T) {
	assert.Equal(t, []string{"SEP", "SET"}, monthLabels(time.September))
	assert.Equal(t, []string{"JAN", "ENE"}, monthLabels(time.January))
	assert.Equal(t, []string{"MAY"}, monthLabels(time.May))
	assert.Equal(t, []string{"OCT"}, monthLabels(time.October))
}
