package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ecruzj/ga-web-scrap/internal/report"
)

func sampleDataset(t *testing.T) *report.RunDataset {
	t.Helper()
	d1 := report.Day(time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC))
	d2 := report.Day(time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC))
	return &report.RunDataset{Rows: []report.PageRow{
		{PagePath: "/en/home", Rank: 1, Views: 5200, Language: report.LanguageEnglish, Window: d1, Source: "looker"},
		{PagePath: "/fr/accueil", Rank: 1, Views: 2100, Language: report.LanguageFrench, Window: d1, Source: "looker"},
		{PagePath: "/en/home", Rank: 1, Views: 4800, Language: report.LanguageEnglish, Window: d2, Source: "looker"},
	}}
}

func rangedDataset(t *testing.T) *report.RunDataset {
	t.Helper()
	w, err := report.Range(
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return &report.RunDataset{Rows: []report.PageRow{
		{PagePath: "/en/home", Rank: 1, Views: 120000, Language: report.LanguageEnglish, Window: w},
	}}
}

func TestWriteUnknownExtension(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "out.parquet"), sampleDataset(t))
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(path, sampleDataset(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"date", "language", "rank", "page", "views"}, records[0])
	assert.Equal(t, []string{"2025-11-01", "EN", "1", "/en/home", "5200"}, records[1])
	assert.Equal(t, []string{"2025-11-02", "EN", "1", "/en/home", "4800"}, records[3])
}

func TestWriteCSVRangedCarriesBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(path, rangedDataset(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "language", "rank", "page", "views", "range_start", "range_end"}, records[0])
	assert.Equal(t, "2025-10-01", records[1][5])
	assert.Equal(t, "2025-10-31", records[1][6])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(path, sampleDataset(t)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(b, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "/fr/accueil", rows[1]["page"])
	assert.Equal(t, "FR", rows[1]["language"])
	assert.Equal(t, float64(2100), rows[1]["views"])
	assert.NotContains(t, rows[1], "range_start", "single-day rows omit range bounds")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Write(path, sampleDataset(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"date", "language", "rank", "page", "views"}, rows[0])
	assert.Equal(t, "/en/home", rows[1][3])
	assert.Equal(t, "5200", rows[1][4])
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	Preview(&buf, sampleDataset(t), 2)

	out := buf.String()
	assert.Contains(t, out, "/en/home")
	assert.NotContains(t, out, "4800", "preview truncates to n rows")
	assert.Contains(t, out, "3 rows total, 2 windows, 0 failures")
}
