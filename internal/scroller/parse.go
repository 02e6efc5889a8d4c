package scroller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
)

type parsedRow struct {
	rank  int
	path  string
	views int
}

// parseRow reads one rendered row: rank cell, page-path cell (anchor text
// preferred over raw cell text), metric cell. A row missing its page
// identifier or a parseable non-negative metric is rejected with a
// RowParseError; aggregate rows like "Grand total" carry no numeric rank
// and are rejected the same way.
func (s *Scroller) parseRow(el page.Element) (parsedRow, error) {
	cells, err := el.FindAll(s.cfg.Selectors.Cell)
	if err != nil {
		return parsedRow{}, err
	}
	if len(cells) < 3 {
		return parsedRow{}, &report.RowParseError{Reason: fmt.Sprintf("want 3 cells, got %d", len(cells))}
	}

	rankText, err := cells[0].Text()
	if err != nil {
		return parsedRow{}, err
	}
	rankText = strings.TrimSpace(strings.ReplaceAll(rankText, ".", ""))
	rank, err := strconv.Atoi(rankText)
	if err != nil {
		return parsedRow{}, &report.RowParseError{Reason: "non-numeric rank " + strconv.Quote(rankText)}
	}

	path, err := s.pagePath(cells[1])
	if err != nil {
		return parsedRow{}, err
	}
	if path == "" {
		return parsedRow{}, &report.RowParseError{Reason: "empty page path"}
	}

	viewsText, err := cells[2].Text()
	if err != nil {
		return parsedRow{}, err
	}
	viewsText = strings.TrimSpace(strings.ReplaceAll(viewsText, ",", ""))
	views, err := strconv.Atoi(viewsText)
	if err != nil || views < 0 {
		return parsedRow{}, &report.RowParseError{Reason: "bad metric " + strconv.Quote(viewsText)}
	}

	return parsedRow{rank: rank, path: path, views: views}, nil
}

// pagePath prefers the anchor's text: the cell may decorate the path with
// tooltips or truncation markers the anchor does not carry.
func (s *Scroller) pagePath(cell page.Element) (string, error) {
	if s.cfg.Selectors.Link != "" {
		if link, err := cell.Find(s.cfg.Selectors.Link); err == nil {
			text, err := link.Text()
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(text), nil
		}
	}
	text, err := cell.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
