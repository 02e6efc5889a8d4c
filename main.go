package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ecruzj/ga-web-scrap/internal/config"
	"github.com/ecruzj/ga-web-scrap/internal/export"
	"github.com/ecruzj/ga-web-scrap/internal/report"
	"github.com/ecruzj/ga-web-scrap/internal/scraper"
	_ "github.com/ecruzj/ga-web-scrap/internal/sites/ga4"
	_ "github.com/ecruzj/ga-web-scrap/internal/sites/looker"
	"github.com/ecruzj/ga-web-scrap/internal/store"
)

var version = "dev"

var (
	site        string
	reportURL   string
	startDate   string
	endDate     string
	mode        string
	outputFile  string
	configPath  string
	historyDB   string
	snapshotDir string
	previewRows int
	showUI      bool
	timeout     time.Duration
	browserBin  string
	userDataDir string
	profileDir  string
	proxyURL    string
	verbose     bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "gaws",
		Short:   "Extract page-view tables from JS-rendered analytics dashboards",
		Version: version,
		Long: `gaws drives a real browser against an analytics dashboard that only
exists as rendered JavaScript, walks its date picker and virtualized
tables, and exports the captured page-view rows.`,
		Example: `  # One day from the published dashboard, into a spreadsheet
  gaws --start 2025-11-03 -o views.xlsx

  # A month, one dashboard visit per day, resumable history
  gaws --start 2025-11-01 --end 2025-11-30 --history-db runs.db -o nov.xlsx

  # The same month as a single aggregated window
  gaws --start 2025-11-01 --end 2025-11-30 --mode range -o nov-total.csv

  # Watch the browser work against a GA4 property
  gaws --site ga4 --url "https://analytics.google.com/..." --showui --start 2025-11-03`,
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&site, "site", "", "Dashboard integration to use ("+strings.Join(scraper.Names(), ", ")+")")
	rootCmd.Flags().StringVar(&reportURL, "url", "", "Dashboard URL (overrides the site's default)")
	rootCmd.Flags().StringVar(&startDate, "start", "", "First day to extract (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&endDate, "end", "", "Last day to extract, inclusive (defaults to --start)")
	rootCmd.Flags().StringVar(&mode, "mode", "", "per_day (one dashboard visit per day) or range (one aggregated window)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (.xlsx, .csv or .json)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default gaws.yaml, ~/.config/gaws/gaws.yaml)")
	rootCmd.Flags().StringVar(&historyDB, "history-db", "", "SQLite file recording run history")
	rootCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "Directory for markdown page snapshots on failures")
	rootCmd.Flags().IntVar(&previewRows, "preview", 10, "Rows to preview on stdout (0 disables)")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Per-step browser timeout")
	rootCmd.Flags().StringVar(&browserBin, "browser-bin", "", "Chromium-family binary to launch")
	rootCmd.Flags().StringVar(&userDataDir, "user-data-dir", "", "Browser profile root holding the logged-in session")
	rootCmd.Flags().StringVar(&profileDir, "profile-dir", "", "Profile inside the user data dir, e.g. \"Profile 3\"")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", os.Getenv("GAWS_PROXY"), "Proxy URL, defaults to GAWS_PROXY env var")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newHistoryCmd lists recorded runs, or dumps one run's rows with --run.
func newHistoryCmd() *cobra.Command {
	var db string
	var limit int
	var runID int64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs and inspect their captured rows",
		Example: `  # Recent runs
  gaws history --db runs.db

  # Every row one run captured
  gaws history --db runs.db --run 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if db == "" {
				return fmt.Errorf("--db is required")
			}
			return showHistory(os.Stdout, db, limit, runID)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&db, "db", "", "SQLite file written by --history-db")
	cmd.Flags().IntVar(&limit, "limit", 20, "Runs to list, newest first")
	cmd.Flags().Int64Var(&runID, "run", 0, "Show the rows of one run id instead of the listing")
	return cmd
}

func showHistory(w io.Writer, path string, limit int, runID int64) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if runID > 0 {
		rows, err := db.RowsForRun(ctx, runID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("run %d has no rows", runID)
		}
		export.Preview(w, &report.RunDataset{Rows: rows}, len(rows))
		return nil
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Site", "Mode", "Start", "End", "Rows", "Failures"})
	for _, r := range runs {
		t.AppendRow(table.Row{strconv.FormatInt(r.ID, 10), r.Site, r.Mode, r.Start, r.End, r.RowCount, r.Failures})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyConfig(cmd, cfg)

	if startDate == "" {
		return fmt.Errorf("--start is required")
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return fmt.Errorf("invalid --start %q: %w", startDate, err)
	}
	end := start
	if endDate != "" {
		if end, err = time.Parse("2006-01-02", endDate); err != nil {
			return fmt.Errorf("invalid --end %q: %w", endDate, err)
		}
	}
	runMode, err := report.ParseMode(mode)
	if err != nil {
		return err
	}

	s, ok := scraper.Get(site)
	if !ok {
		return fmt.Errorf("unknown site %q (have: %s)", site, strings.Join(scraper.Names(), ", "))
	}

	opts := scraper.Options{
		ReportURL:   reportURL,
		Start:       start,
		End:         end,
		Mode:        runMode,
		BinPath:     browserBin,
		UserDataDir: userDataDir,
		ProfileDir:  profileDir,
		ProxyURL:    proxyURL,
		ShowUI:      showUI,
		Timeout:     timeout,
		SnapshotDir: snapshotDir,

		StableThreshold: cfg.Tuning.StableThreshold,
		MaxScrollSteps:  cfg.Tuning.MaxScrollSteps,
		MaxTablePages:   cfg.Tuning.MaxTablePages,
		ScrollStep:      cfg.Tuning.ScrollStep,
		MaxMonthSteps:   cfg.Tuning.MaxMonthSteps,
		SettleTimeout:   time.Duration(cfg.Tuning.SettleTimeoutSeconds) * time.Second,

		Logger: logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ds, runErr := s.Run(ctx, opts)
	if ds == nil {
		return runErr
	}

	// Whatever was captured gets delivered even when the run was cut
	// short; hours of scrolling should never evaporate on an error.
	if previewRows > 0 {
		export.Preview(os.Stdout, ds, previewRows)
	}
	if outputFile != "" {
		if err := export.Write(outputFile, ds); err != nil {
			return err
		}
		logger.Info("output written", "path", outputFile, "rows", len(ds.Rows))
	}
	if historyDB != "" {
		if err := recordHistory(historyDB, site, runMode, start, end, ds, logger); err != nil {
			logger.Warn("failed to record run history", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	if len(ds.Failures) > 0 {
		return fmt.Errorf("run finished with %d failed windows", len(ds.Failures))
	}
	return nil
}

// applyConfig seeds settings from the config file where the user passed
// no flag. Flags always win.
func applyConfig(cmd *cobra.Command, cfg config.Config) {
	if !cmd.Flags().Changed("site") {
		site = cfg.Site
	}
	if !cmd.Flags().Changed("url") && cfg.ReportURL != "" {
		reportURL = cfg.ReportURL
	}
	if !cmd.Flags().Changed("mode") {
		mode = cfg.Mode
	}
	if !cmd.Flags().Changed("output") && cfg.Output != "" {
		outputFile = cfg.Output
	}
	if !cmd.Flags().Changed("history-db") && cfg.HistoryDB != "" {
		historyDB = cfg.HistoryDB
	}
	if !cmd.Flags().Changed("snapshot-dir") && cfg.SnapshotDir != "" {
		snapshotDir = cfg.SnapshotDir
	}
	if !cmd.Flags().Changed("timeout") {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if !cmd.Flags().Changed("browser-bin") && cfg.Browser.BinPath != "" {
		browserBin = cfg.Browser.BinPath
	}
	if !cmd.Flags().Changed("user-data-dir") && cfg.Browser.UserDataDir != "" {
		userDataDir = cfg.Browser.UserDataDir
	}
	if !cmd.Flags().Changed("profile-dir") && cfg.Browser.ProfileDir != "" {
		profileDir = cfg.Browser.ProfileDir
	}
	if !cmd.Flags().Changed("proxy") && cfg.Browser.ProxyURL != "" {
		proxyURL = cfg.Browser.ProxyURL
	}
	if !cmd.Flags().Changed("showui") && cfg.Browser.ShowUI {
		showUI = true
	}
}

func recordHistory(path, site string, mode report.Mode, start, end time.Time, ds *report.RunDataset, logger *log.Logger) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.RecordRun(context.Background(), site, mode, start, end, ds)
	if err != nil {
		return err
	}
	logger.Info("run recorded", "db", path, "run_id", id)
	return nil
}
