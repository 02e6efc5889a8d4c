package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecruzj/ga-web-scrap/internal/report"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndListRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	d1 := report.Day(time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC))
	ds := &report.RunDataset{Rows: []report.PageRow{
		{PagePath: "/en/home", Rank: 1, Views: 5200, Language: report.LanguageEnglish, Window: d1, Source: "looker"},
		{PagePath: "/fr/accueil", Rank: 1, Views: 2100, Language: report.LanguageFrench, Window: d1, Source: "looker"},
	}}

	id, err := db.RecordRun(ctx, "looker", report.ModePerDay,
		time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), ds)
	require.NoError(t, err)
	assert.NotZero(t, id)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "looker", runs[0].Site)
	assert.Equal(t, "per_day", runs[0].Mode)
	assert.Equal(t, 2, runs[0].RowCount)
	assert.Equal(t, 0, runs[0].Failures)
}

func TestRowsForRunRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	w, err := report.Range(
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	ds := &report.RunDataset{Rows: []report.PageRow{
		{PagePath: "/en/home", Rank: 1, Views: 120000, Language: report.LanguageEnglish, Window: w, Source: "looker"},
		{PagePath: "/en/services", Rank: 2, Views: 88000, Language: report.LanguageEnglish, Window: w, Source: "looker"},
	}}

	id, err := db.RecordRun(ctx, "looker", report.ModeRange, w.Start, w.End, ds)
	require.NoError(t, err)

	got, err := db.RowsForRun(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ds.Rows[0], got[0])
	assert.Equal(t, ds.Rows[1], got[1])
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	day := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	for _, site := range []string{"looker", "ga4"} {
		_, err := db.RecordRun(ctx, site, report.ModePerDay, day, day, &report.RunDataset{})
		require.NoError(t, err)
	}

	runs, err := db.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "ga4", runs[0].Site)
}

func TestParseWindowLabel(t *testing.T) {
	w, err := parseWindowLabel("2025-11-03")
	require.NoError(t, err)
	assert.True(t, w.Single())
	assert.Equal(t, "2025-11-03", w.Label())

	w, err = parseWindowLabel("2025-10-01..2025-10-31")
	require.NoError(t, err)
	assert.Equal(t, 31, w.Days())

	_, err = parseWindowLabel("yesterday")
	assert.Error(t, err)
}
