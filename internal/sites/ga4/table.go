package ga4

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
)

// tableExtractor reads GA4's "Pages and screens" table. GA4 renders one
// mixed table, so language is derived from the page path and the rows
// are split afterwards; ranks are reassigned per language to keep them
// contiguous.
type tableExtractor struct {
	maxPages int
	timeout  time.Duration
	logger   *log.Logger

	pageSizeSet bool
}

func (e *tableExtractor) ExtractWindow(p page.Handle, w report.DateWindow) (report.ExtractionResult, error) {
	res := report.ExtractionResult{Window: w}
	logger := e.logger.With("window", w.Label())

	e.ensurePageSize(p, logger)

	rows, err := e.readAllPages(p, logger)
	if err != nil {
		logger.Error("table capture failed", "error", err)
		res.Failures = append(res.Failures,
			report.WindowFailure{Window: w, Language: report.LanguageEnglish, Err: err},
			report.WindowFailure{Window: w, Language: report.LanguageFrench, Err: err})
		return res, nil
	}

	enRank, frRank := 0, 0
	for _, r := range rows {
		pr := report.PageRow{
			PagePath: r.path,
			Views:    r.views,
			Window:   w,
			Source:   "ga4",
		}
		// The site serves French at the root and English under /en/, so
		// anything without the /en/ segment is French.
		if strings.Contains(strings.ToLower(r.path), "/en/") {
			enRank++
			pr.Rank = enRank
			pr.Language = report.LanguageEnglish
			res.English = append(res.English, pr)
		} else {
			frRank++
			pr.Rank = frRank
			pr.Language = report.LanguageFrench
			res.French = append(res.French, pr)
		}
	}
	logger.Info("table capture complete", "en", len(res.English), "fr", len(res.French))
	return res, nil
}

// ensurePageSize bumps the table to 250 rows per page once per session.
// Best effort: failing just means more pagination clicks later.
func (e *tableExtractor) ensurePageSize(p page.Handle, logger *log.Logger) {
	if e.pageSizeSet {
		return
	}
	sel, err := p.Find(pageSizeSelect)
	if err != nil {
		logger.Debug("page size control not found", "error", err)
		return
	}
	if err := sel.Click(); err != nil {
		return
	}
	opt, err := p.FindByText(pageSizeOption, "250")
	if err != nil {
		logger.Debug("250 rows option not offered")
		return
	}
	if opt.Click() == nil {
		e.pageSizeSet = true
		_ = p.WaitStable(e.timeout)
	}
}

type rawRow struct {
	path  string
	views int
}

func (e *tableExtractor) readAllPages(p page.Handle, logger *log.Logger) ([]rawRow, error) {
	seen := make(map[string]struct{})
	var out []rawRow

	for pageNo := 1; pageNo <= e.maxPages; pageNo++ {
		if _, err := p.WaitFor(rowSelector, e.timeout); err != nil {
			if pageNo == 1 {
				return nil, fmt.Errorf("report table never rendered: %w", err)
			}
			break
		}
		els, err := p.FindAll(rowSelector)
		if err != nil {
			return out, fmt.Errorf("row query failed: %w", err)
		}

		fresh := 0
		for _, el := range els {
			r, ok := parseRow(el, logger)
			if !ok {
				continue
			}
			if _, dup := seen[r.path]; dup {
				continue
			}
			seen[r.path] = struct{}{}
			out = append(out, r)
			fresh++
		}
		logger.Debug("table page read", "page", pageNo, "rows", fresh)

		if !e.advancePage(p) {
			break
		}
	}
	return out, nil
}

func (e *tableExtractor) advancePage(p page.Handle) bool {
	next, err := p.Find(nextPageButton)
	if err != nil {
		return false
	}
	if v, err := next.Attribute("disabled"); err == nil && v != "" {
		return false
	}
	if v, err := next.Attribute("aria-disabled"); err == nil && v == "true" {
		return false
	}
	if next.Click() != nil {
		return false
	}
	_ = p.WaitStable(e.timeout)
	return true
}

// parseRow reads one GA4 table row. "(not set)" paths are placeholder
// entries GA4 emits for untagged hits and carry no page identity.
func parseRow(el page.Element, logger *log.Logger) (rawRow, bool) {
	pathCell, err := el.Find(pagePathCell)
	if err != nil {
		return rawRow{}, false
	}
	path, err := pathCell.Text()
	if err != nil {
		return rawRow{}, false
	}
	path = strings.TrimSpace(path)
	if path == "" || path == "(not set)" {
		return rawRow{}, false
	}

	viewsCell, err := el.Find(viewsCellSel)
	if err != nil {
		return rawRow{}, false
	}
	raw, err := viewsCell.Text()
	if err != nil {
		return rawRow{}, false
	}
	views, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
	if err != nil || views < 0 {
		logger.Debug("skipping row with unparseable views", "path", path, "views", raw)
		return rawRow{}, false
	}
	return rawRow{path: path, views: views}, true
}
