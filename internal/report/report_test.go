package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateWindowLabel(t *testing.T) {
	assert.Equal(t, "2025-11-03", Day(date(2025, 11, 3)).Label())

	w, err := Range(date(2025, 10, 1), date(2025, 10, 31))
	require.NoError(t, err)
	assert.Equal(t, "2025-10-01..2025-10-31", w.Label())
	assert.False(t, w.Single())
	assert.Equal(t, 31, w.Days())
}

func TestDaySingle(t *testing.T) {
	w := Day(time.Date(2025, 11, 3, 17, 42, 9, 0, time.Local))
	assert.True(t, w.Single())
	assert.Equal(t, 1, w.Days())
	assert.Equal(t, date(2025, 11, 3), w.Start)
}

func TestRangeRejectsReversedBounds(t *testing.T) {
	_, err := Range(date(2025, 11, 3), date(2025, 11, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("per_day")
	require.NoError(t, err)
	assert.Equal(t, ModePerDay, m)

	m, err = ParseMode("range")
	require.NoError(t, err)
	assert.Equal(t, ModeRange, m)

	_, err = ParseMode("weekly")
	assert.Error(t, err)
	_, err = ParseMode("")
	assert.Error(t, err)
}

func TestExtractionResultRowsKeepsEnglishFirst(t *testing.T) {
	w := Day(date(2025, 11, 3))
	res := ExtractionResult{
		Window:  w,
		English: []PageRow{{PagePath: "/en/a", Rank: 1, Language: LanguageEnglish}},
		French:  []PageRow{{PagePath: "/fr/a", Rank: 1, Language: LanguageFrench}},
	}
	rows := res.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, LanguageEnglish, rows[0].Language)
	assert.Equal(t, LanguageFrench, rows[1].Language)
	assert.False(t, res.Partial())

	res.Failures = append(res.Failures, WindowFailure{Window: w, Language: LanguageFrench, Err: errors.New("boom")})
	assert.True(t, res.Partial())
}

func TestRunDatasetAccumulates(t *testing.T) {
	var ds RunDataset
	d1, d2 := Day(date(2025, 11, 1)), Day(date(2025, 11, 2))

	ds.Append(ExtractionResult{
		Window:  d1,
		English: []PageRow{{PagePath: "/en/a", Window: d1, Language: LanguageEnglish}},
	})
	ds.Append(ExtractionResult{
		Window: d2,
		French: []PageRow{{PagePath: "/fr/b", Window: d2, Language: LanguageFrench}},
	})
	ds.RecordFailure(Day(date(2025, 11, 3)), "", errors.New("widget gone"))

	assert.Len(t, ds.Rows, 2)
	assert.Len(t, ds.Failures, 1)
	assert.Equal(t, []string{"2025-11-01", "2025-11-02"}, ds.Windows())
}
