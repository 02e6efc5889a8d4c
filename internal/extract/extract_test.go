package extract

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecruzj/ga-web-scrap/internal/page"
	"github.com/ecruzj/ga-web-scrap/internal/report"
)

type stubResolver struct {
	english page.Element
	french  page.Element
	err     error
	calls   int
}

func (r *stubResolver) Resolve(page.Handle) (page.Element, page.Element, error) {
	r.calls++
	return r.english, r.french, r.err
}

type stubScroller struct {
	rows map[report.Language][]report.PageRow
	errs map[report.Language]error
}

func (s *stubScroller) ExtractAll(_ page.Handle, _ page.Element, lang report.Language, _ report.DateWindow) ([]report.PageRow, error) {
	return s.rows[lang], s.errs[lang]
}

func TestExtractWindowBothLanguages(t *testing.T) {
	resolver := &stubResolver{english: &page.FakeElement{}, french: &page.FakeElement{}}
	scroller := &stubScroller{rows: map[report.Language][]report.PageRow{
		report.LanguageEnglish: {{PagePath: "/en/a"}, {PagePath: "/en/b"}},
		report.LanguageFrench:  {{PagePath: "/fr/a"}},
	}}
	e := New(resolver, scroller, log.New(io.Discard))

	res, err := e.ExtractWindow(&page.FakePage{}, report.DateWindow{})
	require.NoError(t, err)
	assert.Len(t, res.English, 2)
	assert.Len(t, res.French, 1)
	assert.False(t, res.Partial())
	assert.Equal(t, 2, resolver.calls, "regions must be re-resolved per language")
}

func TestExtractWindowKeepsSurvivingLanguage(t *testing.T) {
	// The scroller's step cap returns the rows captured so far together
	// with the error; both the partial French rows and the full English
	// set must survive.
	resolver := &stubResolver{english: &page.FakeElement{}, french: &page.FakeElement{}}
	scroller := &stubScroller{
		rows: map[report.Language][]report.PageRow{
			report.LanguageEnglish: {{PagePath: "/en/a"}, {PagePath: "/en/b"}},
			report.LanguageFrench:  {{PagePath: "/fr/a"}},
		},
		errs: map[report.Language]error{
			report.LanguageFrench: &report.ScrollTimeoutError{Language: report.LanguageFrench, Steps: 400},
		},
	}
	e := New(resolver, scroller, log.New(io.Discard))

	res, err := e.ExtractWindow(&page.FakePage{}, report.DateWindow{})
	require.NoError(t, err)

	assert.Len(t, res.English, 2, "English rows survive the French failure")
	assert.Len(t, res.French, 1, "rows captured before the scroll timeout are kept")
	require.Len(t, res.Failures, 1)
	assert.Equal(t, report.LanguageFrench, res.Failures[0].Language)
	assert.True(t, res.Partial())
}

func TestExtractWindowResolverFailure(t *testing.T) {
	resolver := &stubResolver{err: errors.New("tables missing")}
	e := New(resolver, &stubScroller{}, log.New(io.Discard))

	res, err := e.ExtractWindow(&page.FakePage{}, report.DateWindow{})
	require.NoError(t, err)
	assert.Empty(t, res.Rows())
	assert.Len(t, res.Failures, 2, "both languages recorded as failed")
}
