// Package store keeps an optional SQLite history of runs and their
// captured rows, so consecutive runs can be compared without re-opening
// old spreadsheets.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ecruzj/ga-web-scrap/internal/report"
)

type DB struct {
	sql *sql.DB
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id          INTEGER PRIMARY KEY,
  site        TEXT NOT NULL,
  mode        TEXT NOT NULL,
  start_date  TEXT NOT NULL,
  end_date    TEXT NOT NULL,
  row_count   INTEGER NOT NULL DEFAULT 0,
  failures    INTEGER NOT NULL DEFAULT 0,
  created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS page_rows (
  id        INTEGER PRIMARY KEY,
  run_id    INTEGER NOT NULL REFERENCES runs(id),
  window    TEXT NOT NULL,
  language  TEXT NOT NULL,
  rank      INTEGER NOT NULL,
  page_path TEXT NOT NULL,
  views     INTEGER NOT NULL,
  source    TEXT
);
CREATE INDEX IF NOT EXISTS idx_rows_run ON page_rows(run_id);
CREATE INDEX IF NOT EXISTS idx_rows_page ON page_rows(page_path, window);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// RecordRun stores one finished run and all its rows, returning the run id.
func (d *DB) RecordRun(ctx context.Context, site string, mode report.Mode, start, end time.Time, ds *report.RunDataset) (int64, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (site, mode, start_date, end_date, row_count, failures) VALUES ($1, $2, $3, $4, $5, $6)`,
		site, string(mode), start.Format("2006-01-02"), end.Format("2006-01-02"),
		len(ds.Rows), len(ds.Failures))
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO page_rows (run_id, window, language, rank, page_path, views, source) VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range ds.Rows {
		if _, err = stmt.ExecContext(ctx, runID, r.Window.Label(), string(r.Language),
			r.Rank, r.PagePath, r.Views, r.Source); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID       int64
	Site     string
	Mode     string
	Start    string
	End      string
	RowCount int
	Failures int
}

// ListRuns returns the most recent runs, newest first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, site, mode, start_date, end_date, row_count, failures
		 FROM runs ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.Site, &s.Mode, &s.Start, &s.End, &s.RowCount, &s.Failures); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RowsForRun returns the captured rows of one run in insert order.
func (d *DB) RowsForRun(ctx context.Context, runID int64) ([]report.PageRow, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT window, language, rank, page_path, views, source
		 FROM page_rows WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.PageRow
	for rows.Next() {
		var window, lang, source string
		var r report.PageRow
		if err := rows.Scan(&window, &lang, &r.Rank, &r.PagePath, &r.Views, &source); err != nil {
			return nil, err
		}
		w, err := parseWindowLabel(window)
		if err != nil {
			return nil, fmt.Errorf("corrupt window label %q: %w", window, err)
		}
		r.Window = w
		r.Language = report.Language(lang)
		r.Source = source
		out = append(out, r)
	}
	return out, rows.Err()
}

// parseWindowLabel is the inverse of DateWindow.Label.
func parseWindowLabel(label string) (report.DateWindow, error) {
	const day = "2006-01-02"
	if len(label) == len(day) {
		t, err := time.Parse(day, label)
		if err != nil {
			return report.DateWindow{}, err
		}
		return report.Day(t), nil
	}
	if len(label) != len(day)*2+2 {
		return report.DateWindow{}, fmt.Errorf("unexpected length %d", len(label))
	}
	start, err := time.Parse(day, label[:len(day)])
	if err != nil {
		return report.DateWindow{}, err
	}
	end, err := time.Parse(day, label[len(day)+2:])
	if err != nil {
		return report.DateWindow{}, err
	}
	return report.Range(start, end)
}
