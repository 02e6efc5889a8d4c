package looker

import (
	"github.com/ecruzj/ga-web-scrap/internal/datenav"
	"github.com/ecruzj/ga-web-scrap/internal/scroller"
)

// The dashboard is an Angular app; its table and calendar internals are
// Angular Material. These selectors track the rendered structure, not
// any stable API, so they live in one place.
const (
	// defaultReportURL is the published dashboard this tool was built for.
	defaultReportURL = "https://lookerstudio.google.com/reporting/6eb435f0-e545-4a2f-b5d8-ab05a5b8b96a"

	// firstRowSelector marks the report as rendered: the first data row
	// of the first table block.
	firstRowSelector = "div.row.block-0.index-0"

	tableSelector  = "div.table"
	headerSelector = ".headerRow .colName"
)

var dateSelectors = datenav.Selectors{
	OpenButton:   "canvas-date-input",
	Dialog:       "ng2-date-picker-dialog",
	ModeButton:   "date-range-options button",
	FixedOption:  "mat-option",
	Calendar:     "mat-calendar",
	PeriodButton: "button.mat-calendar-period-button",
	PrevButton:   "button.mat-calendar-previous-button",
	NextButton:   "button.mat-calendar-next-button",
	DayCell:      ".mat-calendar-body-cell-content",
	MonthCell:    ".mat-calendar-body-cell-content",
	YearCell:     ".mat-calendar-body-cell-content",
	ApplyButton:  "button.apply-button",
}

var tableSelectors = scroller.Selectors{
	Body:          "div.tableBody div.centerColsContainer",
	Row:           "div.row",
	Cell:          "div.cell",
	Link:          "a",
	Pager:         "div.pageControl",
	NextPage:      "div.pageForward",
	DisabledClass: "disabled",
}
