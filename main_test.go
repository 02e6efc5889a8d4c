package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecruzj/ga-web-scrap/internal/report"
	"github.com/ecruzj/ga-web-scrap/internal/store"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := store.Open(path)
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	ds := &report.RunDataset{Rows: []report.PageRow{
		{PagePath: "/en/home", Rank: 1, Views: 5200, Language: report.LanguageEnglish, Window: report.Day(day), Source: "looker"},
	}}
	_, err = db.RecordRun(context.Background(), "looker", report.ModePerDay, day, day, ds)
	require.NoError(t, err)
	return path
}

func TestShowHistoryListsRuns(t *testing.T) {
	path := seedHistory(t)

	var buf bytes.Buffer
	require.NoError(t, showHistory(&buf, path, 20, 0))

	out := buf.String()
	assert.Contains(t, out, "looker")
	assert.Contains(t, out, "per_day")
	assert.Contains(t, out, "2025-11-03")
}

func TestShowHistoryDumpsRunRows(t *testing.T) {
	path := seedHistory(t)

	var buf bytes.Buffer
	require.NoError(t, showHistory(&buf, path, 20, 1))
	assert.Contains(t, buf.String(), "/en/home")
}

func TestShowHistoryUnknownRun(t *testing.T) {
	path := seedHistory(t)

	var buf bytes.Buffer
	assert.Error(t, showHistory(&buf, path, 20, 99))
}

func TestShowHistoryEmptyDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")

	var buf bytes.Buffer
	require.NoError(t, showHistory(&buf, path, 20, 0))
	assert.Contains(t, buf.String(), "no runs recorded")
}
