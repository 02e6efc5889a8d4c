// Package extract coordinates the per-language table captures for one
// date window. The two tables share one page and one DOM, so the
// languages run strictly sequentially over the same handle.
package extract

import (
	"github.com/charmbracelet/log"

	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// RegionResolver finds the English and French table roots on the current
// page. It is called again before each language: applying a date window
// or paginating can rebuild the table DOM.
type RegionResolver interface {
	Resolve(p page.Handle) (english, french page.Element, err error)
}

// TableScroller captures every row of one table region.
type TableScroller interface {
	ExtractAll(p page.Handle, tableRoot page.Element, lang report.Language, w report.DateWindow) ([]report.PageRow, error)
}

// Extractor runs the scroller against both language tables of an
// already-navigated window.
type Extractor struct {
	resolver RegionResolver
	scroller TableScroller
	logger   *log.Logger
}

// New creates an Extractor. logger may be nil.
func New(resolver RegionResolver, scroller TableScroller, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{resolver: resolver, scroller: scroller, logger: logger}
}

// ExtractWindow captures both languages for the window the page is
// currently showing. A failure on one language never discards what the
// other captured: the failed side is recorded as a per-language failure
// marker and the result keeps the successful rows.
func (e *Extractor) ExtractWindow(p page.Handle, w report.DateWindow) (report.ExtractionResult, error) {
	res := report.ExtractionResult{Window: w}

	res.English = e.extractLanguage(p, w, report.LanguageEnglish, &res)
	res.French = e.extractLanguage(p, w, report.LanguageFrench, &res)

	return res, nil
}

func (e *Extractor) extractLanguage(p page.Handle, w report.DateWindow, lang report.Language, res *report.ExtractionResult) []report.PageRow {
	english, french, err := e.resolver.Resolve(p)
	if err != nil {
		e.logger.Error("table regions not found", "window", w.Label(), "lang", string(lang), "error", err)
		res.Failures = append(res.Failures, report.WindowFailure{Window: w, Language: lang, Err: err})
		return nil
	}

	region := english
	if lang == report.LanguageFrench {
		region = french
	}

	// A scroll timeout still hands back everything captured before the
	// cap; those rows are kept alongside the failure marker.
	rows, err := e.scroller.ExtractAll(p, region, lang, w)
	if err != nil {
		e.logger.Error("table capture failed",
			"window", w.Label(), "lang", string(lang), "rows_kept", len(rows), "error", err)
		res.Failures = append(res.Failures, report.WindowFailure{Window: w, Language: lang, Err: err})
	}
	return rows
}
