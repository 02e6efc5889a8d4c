package ga4

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
)

func ga4Row(path, views string) page.Element {
	return &page.FakeElement{
		FindFn: func(selector string) (page.Element, error) {
			switch selector {
			case pagePathCell:
				return &page.FakeElement{TextValue: path}, nil
			case viewsCellSel:
				return &page.FakeElement{TextValue: views}, nil
			}
			return nil, page.ErrNotFound
		},
	}
}

func ga4Page(rows []page.Element) *page.FakePage {
	return &page.FakePage{
		FindAllFn: func(selector string) ([]page.Element, error) {
			if selector == rowSelector {
				return rows, nil
			}
			return nil, nil
		},
		WaitForFn: func(selector string, _ time.Duration) (page.Element, error) {
			if selector == rowSelector && len(rows) > 0 {
				return rows[0], nil
			}
			return nil, page.ErrNotFound
		},
	}
}

func quietExtractor() *tableExtractor {
	return &tableExtractor{maxPages: 5, timeout: time.Second, logger: log.New(io.Discard)}
}

func TestExtractWindowSplitsLanguages(t *testing.T) {
	rows := []page.Element{
		ga4Row("/en/home", "5,200"),
		ga4Row("/accueil", "2,100"),
		ga4Row("/EN/services", "900"),
		ga4Row("(not set)", "44"),
		ga4Row("/services-fr", "350"),
	}
	e := quietExtractor()

	w := report.Day(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC))
	res, err := e.ExtractWindow(ga4Page(rows), w)
	require.NoError(t, err)

	require.Len(t, res.English, 2)
	require.Len(t, res.French, 2)
	assert.Empty(t, res.Failures)

	assert.Equal(t, "/en/home", res.English[0].PagePath)
	assert.Equal(t, 5200, res.English[0].Views)
	assert.Equal(t, 1, res.English[0].Rank)
	assert.Equal(t, "/EN/services", res.English[1].PagePath, "the /en/ check is case-insensitive")
	assert.Equal(t, 2, res.English[1].Rank, "ranks stay contiguous per language")

	assert.Equal(t, report.LanguageFrench, res.French[0].Language)
	assert.Equal(t, 1, res.French[0].Rank)
	assert.Equal(t, 2, res.French[1].Rank)
}

func TestExtractWindowUnprefixedPathsAreFrench(t *testing.T) {
	// French pages live at the root without a language segment; only
	// /en/ paths are English.
	rows := []page.Element{
		ga4Row("/about-us", "120"),
		ga4Row("/nouvelles/budget-2026", "80"),
	}
	e := quietExtractor()

	res, err := e.ExtractWindow(ga4Page(rows), report.DateWindow{})
	require.NoError(t, err)
	assert.Empty(t, res.English)
	require.Len(t, res.French, 2)
	assert.Equal(t, report.LanguageFrench, res.French[0].Language)
	assert.Equal(t, "/about-us", res.French[0].PagePath)
}

func TestExtractWindowEmptyTableFails(t *testing.T) {
	e := quietExtractor()
	res, err := e.ExtractWindow(ga4Page(nil), report.DateWindow{})
	require.NoError(t, err)

	assert.Empty(t, res.Rows())
	assert.Len(t, res.Failures, 2, "both languages marked failed when the table never renders")
}

func TestExtractWindowSkipsBadRows(t *testing.T) {
	rows := []page.Element{
		ga4Row("/en/home", "1,000"),
		ga4Row("", "50"),
		ga4Row("/en/broken", "n/a"),
		&page.FakeElement{},
	}
	e := quietExtractor()

	res, err := e.ExtractWindow(ga4Page(rows), report.DateWindow{})
	require.NoError(t, err)
	require.Len(t, res.English, 1)
	assert.Equal(t, "/en/home", res.English[0].PagePath)
}

func TestLabelMatches(t *testing.T) {
	day := report.Day(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC))
	assert.True(t, labelMatches("Nov 3, 2025", day))
	assert.False(t, labelMatches("Oct 27, 2025", day))

	rng, err := report.Range(
		time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, labelMatches("Nov 1 - Nov 30, 2025", rng), "GA4 drops the year on the start date")
	assert.True(t, labelMatches("Nov 1, 2025 - Nov 30, 2025", rng))
	assert.False(t, labelMatches("Nov 30, 2025", rng))
}
